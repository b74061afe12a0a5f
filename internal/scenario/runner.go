package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/kvtrace/internal/cache"
	"github.com/roach88/kvtrace/internal/instrument"
	"github.com/roach88/kvtrace/internal/keygen"
	"github.com/roach88/kvtrace/internal/replay"
)

// Conn is the store protocol a scenario run needs.
type Conn interface {
	cache.Conn
	replay.Reader
}

// StepResult records what one step did.
type StepResult struct {
	Index int
	Op    string
	Ref   string
	Key   string
	Value string
	Error string
}

// Result is the outcome of a scenario run.
type Result struct {
	Name string

	// Pass is true when every expect and expect_error check held.
	Pass bool

	Steps       []StepResult
	Errors      []string
	Transcripts []*replay.Transcript
}

// AddError records a failed check and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

type runner struct {
	logger  *slog.Logger
	metrics *instrument.Metrics
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the logger for per-step records.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics reports Store calls of the run to m.
func WithMetrics(m *instrument.Metrics) Option {
	return func(r *runner) {
		r.metrics = m
	}
}

// Run executes sc against conn.
//
// Failed expectations are collected in the Result. Store failures and
// unexpected read errors abort the run and are returned as errors.
func Run(ctx context.Context, sc *Scenario, conn Conn, opts ...Option) (*Result, error) {
	r := &runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}

	cacheOpts := []cache.Option{cache.WithLogger(r.logger)}
	if len(sc.Keys) > 0 {
		cacheOpts = append(cacheOpts, cache.WithKeyGenerator(keygen.NewFixedGenerator(sc.Keys...)))
	}
	if sc.Flush {
		cacheOpts = append(cacheOpts, cache.WithFlushOnOpen())
	}
	if r.metrics != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics(r.metrics))
	}

	c, err := cache.New(ctx, conn, cacheOpts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	result := &Result{Name: sc.Name, Pass: true}
	ids := make(map[string]string)

	for i, step := range sc.Steps {
		var (
			sr  StepResult
			err error
		)
		switch {
		case step.Store != nil:
			sr, err = runStore(ctx, c, step.Store, ids)
		case step.Get != nil:
			sr, err = runGet(ctx, c, step.Get, ids, result)
		}
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", sc.Name, i+1, err)
		}
		sr.Index = i + 1
		result.Steps = append(result.Steps, sr)

		r.logger.Debug("scenario step",
			"scenario", sc.Name,
			"step", sr.Index,
			"op", sr.Op,
			"key", sr.Key,
		)
	}

	for _, name := range sc.Replay {
		t, err := replay.Load(ctx, conn, name)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		result.Transcripts = append(result.Transcripts, t)
	}

	r.logger.Info("scenario finished", "scenario", sc.Name, "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

func runStore(ctx context.Context, c *cache.Cache, step *StoreStep, ids map[string]string) (StepResult, error) {
	value, err := cache.ParseValue(step.Value, cache.ValueType(step.Type))
	if err != nil {
		return StepResult{}, err
	}

	key, err := c.Store(ctx, value)
	if err != nil {
		return StepResult{}, err
	}
	if step.ID != "" {
		ids[step.ID] = key
	}

	return StepResult{
		Op:    "store",
		Ref:   step.ID,
		Key:   key,
		Value: instrument.FormatArgs([]any{value}),
	}, nil
}

func runGet(ctx context.Context, c *cache.Cache, step *GetStep, ids map[string]string, result *Result) (StepResult, error) {
	mode, err := cache.ParseReadMode(step.As)
	if err != nil {
		return StepResult{}, err
	}

	key := step.Ref
	if k, ok := ids[step.Ref]; ok {
		key = k
	}
	sr := StepResult{Op: "get " + string(mode), Ref: step.Ref, Key: key}

	value, err := c.Read(ctx, key, mode)
	if err != nil {
		name := errorName(err)
		if name == "" {
			return StepResult{}, err
		}
		sr.Error = name
		if step.ExpectError != name {
			result.AddError(fmt.Sprintf("get %s: unexpected error %s", step.Ref, name))
		}
		return sr, nil
	}

	sr.Value = value
	if step.ExpectError != "" {
		result.AddError(fmt.Sprintf("get %s: expected error %s, got %q", step.Ref, step.ExpectError, value))
	}
	if step.Expect != nil && *step.Expect != value {
		result.AddError(fmt.Sprintf("get %s: expected %q, got %q", step.Ref, *step.Expect, value))
	}
	return sr, nil
}

// errorName maps a facade read error to its expect_error name, or "" if the
// error is not one a scenario can expect.
func errorName(err error) string {
	for name, target := range expectedErrors {
		if errors.Is(err, target) {
			return name
		}
	}
	return ""
}

// WriteText renders the result: one line per step, the requested transcripts,
// then PASS or FAIL with the failed checks.
func (r *Result) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "scenario %s\n", r.Name); err != nil {
		return err
	}
	for _, s := range r.Steps {
		if err := s.writeText(w); err != nil {
			return err
		}
	}
	for _, t := range r.Transcripts {
		if err := t.WriteText(w); err != nil {
			return err
		}
	}

	if r.Pass {
		_, err := fmt.Fprintln(w, "PASS")
		return err
	}
	if _, err := fmt.Fprintln(w, "FAIL"); err != nil {
		return err
	}
	for _, msg := range r.Errors {
		if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}

func (s StepResult) writeText(w io.Writer) error {
	if s.Op == "store" {
		_, err := fmt.Fprintf(w, "%d. store %s -> %s\n", s.Index, s.Value, s.Key)
		return err
	}
	if s.Error != "" {
		_, err := fmt.Fprintf(w, "%d. %s %s -> error: %s\n", s.Index, s.Op, s.Key, s.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "%d. %s %s -> %s\n", s.Index, s.Op, s.Key, s.Value)
	return err
}
