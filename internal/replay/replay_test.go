package replay

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kvtrace/internal/cache"
	"github.com/roach88/kvtrace/internal/instrument"
	"github.com/roach88/kvtrace/internal/keygen"
	"github.com/roach88/kvtrace/internal/store"
	"github.com/roach88/kvtrace/internal/testutil"
)

// recordCalls stores "foo" and 12 under fixed keys, then one rejected value,
// leaving a counter of 3 with two logged calls.
func recordCalls(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()
	c, err := cache.New(ctx, s, cache.WithKeyGenerator(keygen.NewFixedGenerator(testutil.FixedKeys("key", 2)...)))
	require.NoError(t, err)

	_, err = c.Store(ctx, "foo")
	require.NoError(t, err)
	_, err = c.Store(ctx, 12)
	require.NoError(t, err)
	_, err = c.Store(ctx, true)
	require.ErrorIs(t, err, cache.ErrUnsupportedValue)
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestReplay_Golden(t *testing.T) {
	s := testutil.OpenStore(t)
	recordCalls(t, s)

	var buf bytes.Buffer
	require.NoError(t, Replay(context.Background(), s, cache.StoreOp, &buf))

	newGoldie(t).Assert(t, "cache_store_text", buf.Bytes())
}

func TestMarshalCanonical_Golden(t *testing.T) {
	s := testutil.OpenStore(t)
	recordCalls(t, s)

	tr, err := Load(context.Background(), s, cache.StoreOp)
	require.NoError(t, err)
	data, err := tr.MarshalCanonical()
	require.NoError(t, err)

	newGoldie(t).Assert(t, "cache_store_json", data)
}

func TestLoad_NothingRecorded(t *testing.T) {
	s := testutil.OpenStore(t)

	tr, err := Load(context.Background(), s, "Never.Called")
	require.NoError(t, err)
	assert.Equal(t, int64(0), tr.Count)
	assert.Empty(t, tr.Calls)

	var buf bytes.Buffer
	require.NoError(t, tr.WriteText(&buf))
	assert.Equal(t, "Never.Called was called 0 times:\n", buf.String())
}

func TestLoad_TruncatesToShorterLog(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenStore(t)
	_, err := s.RPush(ctx, instrument.InputsKey("Op"), []byte("(1)"), []byte("(2)"), []byte("(3)"))
	require.NoError(t, err)
	_, err = s.RPush(ctx, instrument.OutputsKey("Op"), []byte("a"), []byte("b"))
	require.NoError(t, err)

	tr, err := Load(ctx, s, "Op")
	require.NoError(t, err)
	assert.Equal(t, []Call{{Input: "(1)", Output: "a"}, {Input: "(2)", Output: "b"}}, tr.Calls)
}

func TestLoad_CountWithoutHistory(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenStore(t)
	_, err := s.Incr(ctx, "Op")
	require.NoError(t, err)

	tr, err := Load(ctx, s, "Op")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tr.Count)
	assert.Empty(t, tr.Calls)
}

func TestLoad_NonIntegerCount(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenStore(t)
	require.NoError(t, s.Set(ctx, "Op", []byte("many")))

	_, err := Load(ctx, s, "Op")
	assert.ErrorContains(t, err, "not an integer")
}

func TestLoad_StoreFailure(t *testing.T) {
	conn := testutil.NewFaultyConn(testutil.OpenStore(t))
	conn.LRangeErr = errors.New("connection reset")

	_, err := Load(context.Background(), conn, "Op")
	assert.ErrorIs(t, err, conn.LRangeErr)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestReplay_WriteFailure(t *testing.T) {
	s := testutil.OpenStore(t)

	err := Replay(context.Background(), s, "Op", failingWriter{})
	assert.ErrorContains(t, err, "closed pipe")
}
