package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kvtrace/internal/cache"
	"github.com/roach88/kvtrace/internal/replay"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [operation]",
		Short: "Print the recorded calls of an operation",
		Long: `Print how often an operation was called and the logged input and output of
each successful call. The operation defaults to Cache.Store.

Text output:
  Cache.Store was called 2 times:
  Cache.Store(*("hello")) -> 0190e3a4-7c1e-7b2a-9f4d-3c2b1a098765

With --format json the transcript is printed as canonical JSON.

Examples:
  kvtrace replay
  kvtrace --db ./data.db replay Cache.Store --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := cache.StoreOp
			if len(args) == 1 {
				name = args[0]
			}
			return runReplay(opts, name, cmd)
		},
	}

	return cmd
}

func runReplay(opts *ReplayOptions, name string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	f := sess.formatter

	if opts.Format != "json" {
		if err := replay.Replay(ctx, sess.store, name, cmd.OutOrStdout()); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to replay "+name, err)
		}
		return nil
	}

	t, err := replay.Load(ctx, sess.store, name)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to replay "+name, err)
	}
	data, err := t.MarshalCanonical()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to encode transcript", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return err
}
