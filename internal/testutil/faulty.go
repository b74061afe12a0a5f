package testutil

import (
	"context"
	"sync"

	"github.com/roach88/kvtrace/internal/store"
)

// FaultyConn wraps a real store and fails selected operations with injected
// errors. A nil error field means the call goes through to the store.
//
// Calls records the name of every operation attempted, in order, including
// the ones that failed.
//
// Thread-safety: all methods are safe for concurrent use.
type FaultyConn struct {
	*store.Store

	GetErr    error
	SetErr    error
	IncrErr   error
	RPushErr  error
	LRangeErr error
	FlushErr  error

	mu    sync.Mutex
	calls []string
}

// NewFaultyConn wraps s with no faults configured.
func NewFaultyConn(s *store.Store) *FaultyConn {
	return &FaultyConn{Store: s}
}

// Calls returns a copy of the recorded operation names.
func (c *FaultyConn) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *FaultyConn) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, op)
}

func (c *FaultyConn) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.record("get")
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	return c.Store.Get(ctx, key)
}

func (c *FaultyConn) Set(ctx context.Context, key string, value []byte) error {
	c.record("set")
	if c.SetErr != nil {
		return c.SetErr
	}
	return c.Store.Set(ctx, key, value)
}

func (c *FaultyConn) Incr(ctx context.Context, key string) (int64, error) {
	c.record("incr")
	if c.IncrErr != nil {
		return 0, c.IncrErr
	}
	return c.Store.Incr(ctx, key)
}

func (c *FaultyConn) RPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	c.record("rpush")
	if c.RPushErr != nil {
		return 0, c.RPushErr
	}
	return c.Store.RPush(ctx, key, values...)
}

func (c *FaultyConn) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	c.record("lrange")
	if c.LRangeErr != nil {
		return nil, c.LRangeErr
	}
	return c.Store.LRange(ctx, key, start, stop)
}

func (c *FaultyConn) FlushDB(ctx context.Context) error {
	c.record("flushdb")
	if c.FlushErr != nil {
		return c.FlushErr
	}
	return c.Store.FlushDB(ctx)
}
