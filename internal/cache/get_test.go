package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kvtrace/internal/store"
	"github.com/roach88/kvtrace/internal/testutil"
)

func TestGet_Absent(t *testing.T) {
	c := newTestCache(t, testutil.OpenStore(t))

	v, found, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestGet_StoreFailure(t *testing.T) {
	conn := testutil.NewFaultyConn(testutil.OpenStore(t))
	conn.GetErr = errors.New("timeout")
	c := newTestCache(t, conn)

	_, _, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, conn.GetErr)
}

func TestGetWith_AbsentSkipsDecoder(t *testing.T) {
	c := newTestCache(t, testutil.OpenStore(t))

	called := false
	v, found, err := GetWith(context.Background(), c, "missing", func(b []byte) (string, error) {
		called = true
		return "x", nil
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
	assert.False(t, called)
}

func TestGetWith_Decodes(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, testutil.OpenStore(t))
	key, err := c.Store(ctx, 2.5)
	require.NoError(t, err)

	f, found, err := GetWith(ctx, c, key, DecodeFloat)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2.5, f)
}

func TestGetWith_DecoderError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, testutil.OpenStore(t))
	key, err := c.Store(ctx, "abc")
	require.NoError(t, err)

	_, found, err := GetWith(ctx, c, key, DecodeFloat)
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrNotFloat)
}

func TestGetStr(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, testutil.OpenStore(t))

	key, err := c.Store(ctx, "héllo")
	require.NoError(t, err)
	s, err := c.GetStr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = c.GetStr(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	bad, err := c.Store(ctx, []byte{0xff, 0xfe})
	require.NoError(t, err)
	_, err = c.GetStr(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestGetInt(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, testutil.OpenStore(t))

	num, err := c.Store(ctx, 12)
	require.NoError(t, err)
	text, err := c.Store(ctx, "twelve")
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		want int64
	}{
		{"integer", num, 12},
		{"non-numeric is zero", text, 0},
		{"absent is zero", "missing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := c.GetInt(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestGetInt_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenStore(t)
	_, err := s.RPush(ctx, "list", []byte("x"))
	require.NoError(t, err)
	c := newTestCache(t, s)

	_, err = c.GetInt(ctx, "list")
	assert.ErrorIs(t, err, store.ErrWrongType)
}

func TestGetIntStrict(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, testutil.OpenStore(t))

	num, err := c.Store(ctx, -3)
	require.NoError(t, err)
	n, err := c.GetIntStrict(ctx, num)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), n)

	_, err = c.GetIntStrict(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	text, err := c.Store(ctx, "x")
	require.NoError(t, err)
	_, err = c.GetIntStrict(ctx, text)
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestDecodeInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{" 12\n", 12, false},
		{"-9223372036854775808", -9223372036854775808, false},
		{"9223372036854775808", 0, true},
		{"1.5", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := DecodeInt([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotInteger)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}
