package scenario

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kvtrace/internal/instrument"
	"github.com/roach88/kvtrace/internal/testutil"
)

func TestRunWithGolden_StoreAndRead(t *testing.T) {
	sc, err := Load("testdata/scenarios/store_and_read.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FailedExpectations(t *testing.T) {
	sc, err := Parse(strings.NewReader(`
name: failing
keys: [k1]
steps:
  - store: { id: v, value: "5", type: int }
  - get: { ref: v, as: int, expect: "6" }
  - get: { ref: v, as: text, expect_error: not_found }
  - get: { ref: nope, as: int-strict }
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), sc, testutil.OpenStore(t))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		`get v: expected "6", got "5"`,
		`get v: expected error not_found, got "5"`,
		"get nope: unexpected error not_found",
	}, result.Errors)

	var buf bytes.Buffer
	require.NoError(t, result.WriteText(&buf))
	assert.Contains(t, buf.String(), "FAIL\n  - get v: expected \"6\", got \"5\"\n")
	assert.Contains(t, buf.String(), "4. get int-strict nope -> error: not_found\n")
}

func TestRun_NoFlushKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenStore(t)
	require.NoError(t, s.Set(ctx, "preexisting", []byte("x")))

	sc, err := Parse(strings.NewReader(`
name: keep
steps:
  - get: { ref: preexisting, expect: x }
`))
	require.NoError(t, err)

	result, err := Run(ctx, sc, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_GeneratedKeys(t *testing.T) {
	sc, err := Parse(strings.NewReader(`
name: generated
steps:
  - store: { id: a, value: one }
  - store: { id: b, value: two }
  - get: { ref: b, as: text, expect: two }
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), sc, testutil.OpenStore(t))
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.NotEqual(t, result.Steps[0].Key, result.Steps[1].Key)
	assert.Len(t, result.Steps[0].Key, 36)
}

func TestRun_StoreFailureAborts(t *testing.T) {
	conn := testutil.NewFaultyConn(testutil.OpenStore(t))
	conn.SetErr = errors.New("disk full")

	sc, err := Parse(strings.NewReader("name: x\nsteps:\n  - store: { value: a }\n"))
	require.NoError(t, err)

	_, err = Run(context.Background(), sc, conn)
	assert.ErrorIs(t, err, conn.SetErr)
	assert.Contains(t, err.Error(), "step 1")
}

func TestRun_WithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := instrument.NewMetrics(reg)
	require.NoError(t, err)

	sc, err := Parse(strings.NewReader("name: x\nsteps:\n  - store: { value: a }\n  - store: { value: b }\n"))
	require.NoError(t, err)

	_, err = Run(context.Background(), sc, testutil.OpenStore(t), WithMetrics(m))
	require.NoError(t, err)

	expected := `
# HELP kvtrace_operation_calls_total Total number of instrumented operation calls by outcome
# TYPE kvtrace_operation_calls_total counter
kvtrace_operation_calls_total{operation="Cache.Store",outcome="success"} 2
`
	assert.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "kvtrace_operation_calls_total"))
}
