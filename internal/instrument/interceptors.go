package instrument

import (
	"context"
	"fmt"
)

type countingOperation struct {
	name string
	conn Counter
	next Operation
}

// CountCalls returns an Operation that increments the counter stored under
// name, then delegates to next.
//
// The increment happens before delegation, so calls that fail inside next are
// counted too. A failed increment is returned as the call's error and next is
// not invoked.
func CountCalls(name string, conn Counter, next Operation) Operation {
	return &countingOperation{name: name, conn: conn, next: next}
}

func (o *countingOperation) Invoke(ctx context.Context, args ...any) (any, error) {
	if _, err := o.conn.Incr(ctx, o.name); err != nil {
		return nil, fmt.Errorf("count calls %s: %w", o.name, err)
	}
	return o.next.Invoke(ctx, args...)
}

type historyOperation struct {
	name string
	conn Appender
	next Operation
}

// CallHistory returns an Operation that invokes next and, if it succeeds,
// appends FormatArgs(args) to InputsKey(name) and then FormatResult(result)
// to OutputsKey(name).
//
// Errors from next are returned unchanged and leave no history entry. Both
// appends happen even when the text is empty, keeping the two logs
// index-aligned.
func CallHistory(name string, conn Appender, next Operation) Operation {
	return &historyOperation{name: name, conn: conn, next: next}
}

func (o *historyOperation) Invoke(ctx context.Context, args ...any) (any, error) {
	result, err := o.next.Invoke(ctx, args...)
	if err != nil {
		return result, err
	}

	if _, err := o.conn.RPush(ctx, InputsKey(o.name), []byte(FormatArgs(args))); err != nil {
		return nil, fmt.Errorf("call history %s: inputs: %w", o.name, err)
	}
	if _, err := o.conn.RPush(ctx, OutputsKey(o.name), []byte(FormatResult(result))); err != nil {
		return nil, fmt.Errorf("call history %s: outputs: %w", o.name, err)
	}

	return result, nil
}
