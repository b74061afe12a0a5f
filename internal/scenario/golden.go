package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/kvtrace/internal/testutil"
)

// RunWithGolden runs sc against a fresh temp-dir store and compares the text
// rendering of the result with testdata/golden/{sc.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// Scenarios compared this way should set keys so stored keys are stable.
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), sc, testutil.OpenStore(t))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := result.WriteText(&buf); err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, buf.Bytes())

	return result, nil
}
