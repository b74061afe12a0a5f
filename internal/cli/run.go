package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/kvtrace/internal/instrument"
	"github.com/roach88/kvtrace/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Metrics bool
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Scenario string   `json:"scenario"`
	Pass     bool     `json:"pass"`
	Steps    int      `json:"steps"`
	Errors   []string `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario of store and get steps",
		Long: `Run a scenario file against the configured database and report each step,
the requested call transcripts and whether every expectation held.

Exit codes:
  0 - All expectations held
  1 - At least one expectation failed
  2 - Command error (invalid scenario, database unavailable, etc.)

Examples:
  kvtrace run ./scenarios/store_and_read.yaml
  kvtrace --db /tmp/demo.db run ./scenarios/store_and_read.yaml --metrics`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics for the run to stderr")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	sc, err := scenario.Load(path)
	if err != nil {
		return newFormatter(opts.RootOptions, cmd).Fail(ExitCommandError, ErrCodeInvalidValue, "failed to load scenario", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	f := sess.formatter

	if sess.cfg.FlushOnOpen {
		sc.Flush = true
	}

	runOpts := []scenario.Option{scenario.WithLogger(sess.logger)}
	reg := prometheus.NewRegistry()
	if opts.Metrics {
		m, err := instrument.NewMetrics(reg)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to register metrics", err)
		}
		runOpts = append(runOpts, scenario.WithMetrics(m))
	}

	result, err := scenario.Run(ctx, sc, sess.store, runOpts...)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "scenario aborted", err)
	}

	if opts.Format == "json" {
		if err := f.Success(RunResult{
			Scenario: result.Name,
			Pass:     result.Pass,
			Steps:    len(result.Steps),
			Errors:   result.Errors,
		}); err != nil {
			return err
		}
	} else if err := result.WriteText(cmd.OutOrStdout()); err != nil {
		return err
	}

	if opts.Metrics {
		if err := instrument.WriteMetrics(f.GetErrWriter(), reg); err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to write metrics", err)
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, "scenario failed")
	}
	return nil
}
