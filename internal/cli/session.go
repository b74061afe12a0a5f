package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/kvtrace/internal/config"
	"github.com/roach88/kvtrace/internal/store"
)

// session is the resolved configuration, logger and open store shared by the
// commands that touch the database.
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *store.Store
	formatter *OutputFormatter
}

// newFormatter builds the formatter for cmd's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// resolveConfig loads the config file and environment, then applies the
// global flags that were set explicitly.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if f := cmd.Flag("db"); f != nil && f.Changed {
		cfg.Database = opts.Database
	}
	if f := cmd.Flag("namespace"); f != nil && f.Changed {
		cfg.Namespace = opts.Namespace
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger creates the text logger for diagnostics on w.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// openSession resolves configuration and opens the store. The caller must
// Close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	f := newFormatter(opts, cmd)

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load configuration", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	st, err := store.Open(cfg.Database,
		store.WithNamespace(cfg.Namespace),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}

	logger.Debug("session opened", "db", cfg.Database, "namespace", cfg.Namespace)
	return &session{cfg: cfg, logger: logger, store: st, formatter: f}, nil
}

// Close closes the store, logging any error.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}
