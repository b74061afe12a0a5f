package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/kvtrace/internal/cache"
)

// StoreOptions holds flags for the store command.
type StoreOptions struct {
	*RootOptions
	Type string
}

// StoreResult is the JSON payload of the store command.
type StoreResult struct {
	Key string `json:"key"`
}

// NewStoreCommand creates the store command.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store <value>",
		Short: "Store a value under a new key",
		Long: `Store a value under a newly generated key and print the key.

The call is counted under Cache.Store and, when it succeeds, its input and
output are appended to Cache.Store:inputs and Cache.Store:outputs.

Examples:
  kvtrace store hello
  kvtrace store 42 --type int
  kvtrace --db ./data.db --namespace 1 store 3.5 --type float`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "text", "value type (text|bytes|int|float)")

	return cmd
}

func runStore(opts *StoreOptions, text string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	f := sess.formatter

	value, err := cache.ParseValue(text, cache.ValueType(opts.Type))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidValue, "invalid value", err)
	}

	cacheOpts := []cache.Option{cache.WithLogger(sess.logger)}
	if sess.cfg.FlushOnOpen {
		cacheOpts = append(cacheOpts, cache.WithFlushOnOpen())
	}
	c, err := cache.New(ctx, sess.store, cacheOpts...)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to initialize cache", err)
	}

	key, err := c.Store(ctx, value)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to store value", err)
	}

	f.VerboseLog("stored %s value under %s", opts.Type, key)
	if opts.Format == "json" {
		return f.Success(StoreResult{Key: key})
	}
	return f.Success(key)
}

// commandContext returns the command's context, or Background when the
// command runs without one (tests calling Execute directly).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
