// Package instrument wraps operations with observable side effects.
//
// An Operation is any call with the shape Invoke(ctx, args...) (result, error).
// Interceptors are Operations that hold the next stage and add one side effect
// around it without changing its result:
//
//   - CountCalls increments the counter <name> before delegating.
//   - CallHistory appends the textual arguments to <name>:inputs and the
//     textual result to <name>:outputs after a successful call.
//   - Metered records call outcomes and durations in Prometheus metrics.
//
// Interceptors compose by nesting. The order decides which side effects see
// which calls:
//
//	op := instrument.CountCalls("Cache.Store", conn,
//	    instrument.CallHistory("Cache.Store", conn, base))
//
// Here a failing call is counted but leaves no history entry.
package instrument

import "context"

// Operation is a call that interceptors can wrap.
type Operation interface {
	Invoke(ctx context.Context, args ...any) (any, error)
}

// OperationFunc adapts a plain function to Operation.
type OperationFunc func(ctx context.Context, args ...any) (any, error)

// Invoke calls f.
func (f OperationFunc) Invoke(ctx context.Context, args ...any) (any, error) {
	return f(ctx, args...)
}

// Counter is the store capability CountCalls needs.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// Appender is the store capability CallHistory needs.
type Appender interface {
	RPush(ctx context.Context, key string, values ...[]byte) (int64, error)
}

// Key suffixes for call history logs.
const (
	InputsSuffix  = ":inputs"
	OutputsSuffix = ":outputs"
)

// InputsKey returns the list key holding the argument log of name.
func InputsKey(name string) string {
	return name + InputsSuffix
}

// OutputsKey returns the list key holding the result log of name.
func OutputsKey(name string) string {
	return name + OutputsSuffix
}
