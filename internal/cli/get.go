package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/kvtrace/internal/cache"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	As string
}

// GetResult is the JSON payload of the get command.
type GetResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read the value stored at a key",
		Long: `Read the value stored at a key.

Read modes:
  raw         bytes as stored; prints (nil) for an absent key
  text        UTF-8 text; fails for absent keys and invalid UTF-8
  int         base-10 integer; absent or non-numeric values read as 0
  int-strict  base-10 integer; fails for absent or non-numeric values

Exit codes:
  0 - Value read
  1 - Key not found or value not decodable in the requested mode
  2 - Command error (invalid flags, database unavailable, etc.)

Examples:
  kvtrace get 0190e3a4-7c1e-7b2a-9f4d-3c2b1a098765
  kvtrace get Cache.Store --as int`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "raw", "read mode (raw|text|int|int-strict)")

	return cmd
}

func runGet(opts *GetOptions, key string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	mode, err := cache.ParseReadMode(opts.As)
	if err != nil {
		return newFormatter(opts.RootOptions, cmd).Fail(ExitCommandError, ErrCodeInvalidValue, "invalid read mode", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	f := sess.formatter

	c, err := cache.New(ctx, sess.store, cache.WithLogger(sess.logger))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to initialize cache", err)
	}

	found := true
	var value string
	if mode == cache.ReadRaw {
		var data []byte
		data, found, err = c.Get(ctx, key)
		value = cache.Nil
		if found {
			value = string(data)
		}
	} else {
		value, err = c.Read(ctx, key, mode)
	}
	switch {
	case errors.Is(err, cache.ErrKeyNotFound):
		return f.Fail(ExitFailure, ErrCodeNotFound, "key not found", err)
	case errors.Is(err, cache.ErrInvalidUTF8), errors.Is(err, cache.ErrNotInteger):
		return f.Fail(ExitFailure, ErrCodeInvalidValue, "value cannot be read as "+string(mode), err)
	case err != nil:
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read value", err)
	}

	if opts.Format == "json" {
		return f.Success(GetResult{
			Key:   key,
			Value: value,
			Found: found,
		})
	}
	return f.Success(value)
}
