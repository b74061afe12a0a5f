package cache

import "errors"

// Sentinel errors returned by the facade. Check with errors.Is.
var (
	// ErrKeyNotFound is returned by GetStr and GetIntStrict for absent keys.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidUTF8 is returned when a value read as text is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("value is not valid UTF-8")

	// ErrNotInteger is returned when a value read as an integer does not parse.
	ErrNotInteger = errors.New("value is not an integer")

	// ErrNotFloat is returned by DecodeFloat when a value does not parse.
	ErrNotFloat = errors.New("value is not a floating-point number")

	// ErrUnsupportedValue is returned by Store for value types other than
	// text, bytes, integers and floats.
	ErrUnsupportedValue = errors.New("unsupported value type")
)
