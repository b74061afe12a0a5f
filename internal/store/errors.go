package store

import "errors"

// Key kinds stored in kv_keys.kind.
const (
	kindString = "string"
	kindList   = "list"
)

// Sentinel errors for key-value operations.
var (
	// ErrWrongType is returned when an operation targets a key of the other kind.
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")

	// ErrNotInteger is returned by Incr when the stored value is not a
	// base-10 int64 or the increment would overflow.
	ErrNotInteger = errors.New("value is not an integer or out of range")

	// ErrNoValues is returned by RPush when called without values.
	ErrNoValues = errors.New("no values to append")
)
