package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/kvtrace/internal/cache"
)

// FlushResult is the JSON payload of the flush command.
type FlushResult struct {
	Namespace int `json:"namespace"`
}

// NewFlushCommand creates the flush command.
func NewFlushCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Delete every key of the active namespace",
		Long: `Delete every key of the active namespace, including stored values, call
counters and call history. Other namespaces are untouched.

Examples:
  kvtrace flush
  kvtrace --namespace 3 flush`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlush(rootOpts, cmd)
		},
	}

	return cmd
}

func runFlush(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	f := sess.formatter

	c, err := cache.New(ctx, sess.store, cache.WithLogger(sess.logger))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to initialize cache", err)
	}
	if err := c.Flush(ctx); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to flush namespace", err)
	}

	if opts.Format == "json" {
		return f.Success(FlushResult{Namespace: sess.cfg.Namespace})
	}
	return f.Success("OK")
}
