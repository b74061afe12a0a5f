// Package cache is the key-value facade: it stores values under generated
// keys and reads them back with optional decoding.
//
// Every Store call runs through an interceptor chain built once in New:
//
//	[Metered] -> CountCalls -> CallHistory -> write
//
// so the store ends up holding the call counter StoreOp and the history lists
// StoreOp:inputs and StoreOp:outputs next to the stored values.
package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/kvtrace/internal/instrument"
	"github.com/roach88/kvtrace/internal/keygen"
)

// StoreOp is the qualified name under which Store calls are counted and logged.
const StoreOp = "Cache.Store"

// Conn is the store protocol the facade needs. *store.Store implements it.
type Conn interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Incr(ctx context.Context, key string) (int64, error)
	RPush(ctx context.Context, key string, values ...[]byte) (int64, error)
	FlushDB(ctx context.Context) error
}

// Cache stores values under fresh keys and retrieves them.
//
// Thread-safety: a Cache is safe for concurrent use when its Conn and key
// generator are.
type Cache struct {
	conn    Conn
	keys    keygen.Generator
	logger  *slog.Logger
	storeOp instrument.Operation
}

type options struct {
	keys        keygen.Generator
	flushOnOpen bool
	logger      *slog.Logger
	metrics     *instrument.Metrics
}

// Option configures a Cache.
type Option func(*options)

// WithKeyGenerator replaces the default UUIDv7 key generator.
func WithKeyGenerator(g keygen.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.keys = g
		}
	}
}

// WithFlushOnOpen makes New flush the active namespace before returning.
// This deletes every key of the namespace, including other users' data.
func WithFlushOnOpen() Option {
	return func(o *options) {
		o.flushOnOpen = true
	}
}

// WithLogger sets the logger for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics wraps Store in a Metered interceptor reporting to m.
func WithMetrics(m *instrument.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates a Cache over conn.
//
// With WithFlushOnOpen the active namespace is flushed first; a flush failure
// is returned and no Cache is created.
func New(ctx context.Context, conn Conn, opts ...Option) (*Cache, error) {
	o := options{
		keys:   keygen.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		conn:   conn,
		keys:   o.keys,
		logger: o.logger,
	}

	var op instrument.Operation = instrument.OperationFunc(c.store)
	op = instrument.CallHistory(StoreOp, conn, op)
	op = instrument.CountCalls(StoreOp, conn, op)
	if o.metrics != nil {
		op = instrument.Metered(StoreOp, o.metrics, op)
	}
	c.storeOp = op

	if o.flushOnOpen {
		if err := c.Flush(ctx); err != nil {
			return nil, fmt.Errorf("flush on open: %w", err)
		}
	}

	return c, nil
}

// Store writes value under a newly generated key and returns the key.
//
// value may be a string, a []byte, any integer type, float32 or float64.
// Other types return ErrUnsupportedValue. The call is counted and, when it
// succeeds, logged under StoreOp.
func (c *Cache) Store(ctx context.Context, value any) (string, error) {
	result, err := c.storeOp.Invoke(ctx, value)
	if err != nil {
		return "", err
	}
	key, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("store: unexpected result type %T", result)
	}
	return key, nil
}

func (c *Cache) store(ctx context.Context, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("store: expected 1 argument, got %d", len(args))
	}
	data, err := encodeValue(args[0])
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	key := c.keys.Generate()
	if err := c.conn.Set(ctx, key, data); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	c.logger.Debug("value stored", "key", key, "bytes", len(data))
	return key, nil
}

// Flush deletes every key of the active namespace, including counters and
// call history.
func (c *Cache) Flush(ctx context.Context) error {
	if err := c.conn.FlushDB(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	c.logger.Debug("namespace flushed")
	return nil
}
