// Package replay renders the recorded calls of an instrumented operation.
//
// A transcript is assembled from three keys written by the interceptors: the
// call counter <name>, and the history lists <name>:inputs and
// <name>:outputs. The counter may exceed the number of history entries
// because failed calls are counted but not logged.
package replay

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/kvtrace/internal/canonical"
	"github.com/roach88/kvtrace/internal/instrument"
)

// Reader is the store capability replay needs.
type Reader interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// Call is one logged invocation.
type Call struct {
	Input  string
	Output string
}

// Transcript is the recorded history of one operation.
type Transcript struct {
	Name  string
	Count int64
	Calls []Call
}

// Load reads the counter and history of name from r.
//
// An absent counter reads as 0. A counter that is not an integer is an
// error. Inputs and outputs are paired by index; if one log is longer than the
// other, the extra entries are dropped.
func Load(ctx context.Context, r Reader, name string) (*Transcript, error) {
	count, err := loadCount(ctx, r, name)
	if err != nil {
		return nil, err
	}

	inputs, err := r.LRange(ctx, instrument.InputsKey(name), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("replay %s: inputs: %w", name, err)
	}
	outputs, err := r.LRange(ctx, instrument.OutputsKey(name), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("replay %s: outputs: %w", name, err)
	}

	n := min(len(inputs), len(outputs))
	calls := make([]Call, n)
	for i := range calls {
		calls[i] = Call{Input: string(inputs[i]), Output: string(outputs[i])}
	}

	return &Transcript{Name: name, Count: count, Calls: calls}, nil
}

func loadCount(ctx context.Context, r Reader, name string) (int64, error) {
	raw, found, err := r.Get(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("replay %s: count: %w", name, err)
	}
	if !found {
		return 0, nil
	}
	count, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("replay %s: count %q is not an integer", name, raw)
	}
	return count, nil
}

// WriteText writes the transcript as a header line followed by one line per
// logged call:
//
//	Cache.Store was called 2 times:
//	Cache.Store(*("foo")) -> 0190e3a4-...
func (t *Transcript) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s was called %d times:\n", t.Name, t.Count); err != nil {
		return err
	}
	for _, c := range t.Calls {
		if _, err := fmt.Fprintf(w, "%s(*%s) -> %s\n", t.Name, c.Input, c.Output); err != nil {
			return err
		}
	}
	return nil
}

// MarshalCanonical returns the transcript as canonical JSON:
//
//	{"calls":[{"input":"(\"foo\")","output":"k1"}],"count":1,"name":"Cache.Store"}
func (t *Transcript) MarshalCanonical() ([]byte, error) {
	calls := make([]any, len(t.Calls))
	for i, c := range t.Calls {
		calls[i] = map[string]any{"input": c.Input, "output": c.Output}
	}
	return canonical.Marshal(map[string]any{
		"name":  t.Name,
		"count": t.Count,
		"calls": calls,
	})
}

// Replay loads the transcript of name from r and writes it to w as text.
func Replay(ctx context.Context, r Reader, name string, w io.Writer) error {
	t, err := Load(ctx, r, name)
	if err != nil {
		return err
	}
	if err := t.WriteText(w); err != nil {
		return fmt.Errorf("replay %s: write: %w", name, err)
	}
	return nil
}
