package cache

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// encodeValue converts a supported Go value to the bytes written to the store.
// Integers become base-10 text and floats their shortest round-trip text.
func encodeValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return []byte(val), nil
	case []byte:
		return val, nil
	case int:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case int8:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case int16:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case int32:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return []byte(strconv.FormatInt(val, 10)), nil
	case uint:
		return []byte(strconv.FormatUint(uint64(val), 10)), nil
	case uint8:
		return []byte(strconv.FormatUint(uint64(val), 10)), nil
	case uint16:
		return []byte(strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return []byte(strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return []byte(strconv.FormatUint(val, 10)), nil
	case float32:
		return []byte(strconv.FormatFloat(float64(val), 'g', -1, 32)), nil
	case float64:
		return []byte(strconv.FormatFloat(val, 'g', -1, 64)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// DecodeString returns data as text, or ErrInvalidUTF8.
func DecodeString(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}

// DecodeInt parses data as a base-10 int64. Surrounding whitespace is ignored.
func DecodeInt(data []byte) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, data)
	}
	return n, nil
}

// DecodeFloat parses data as a float64. Surrounding whitespace is ignored.
func DecodeFloat(data []byte) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotFloat, data)
	}
	return f, nil
}

// ValueType names how a textual value is converted before Store.
type ValueType string

// Value types accepted by ParseValue.
const (
	TypeText  ValueType = "text"
	TypeBytes ValueType = "bytes"
	TypeInt   ValueType = "int"
	TypeFloat ValueType = "float"
)

// ParseValue converts text, as given on a command line or in a scenario file,
// into the Go value Store receives. The empty type means text.
func ParseValue(text string, typ ValueType) (any, error) {
	switch typ {
	case TypeText, "":
		return text, nil
	case TypeBytes:
		return []byte(text), nil
	case TypeInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as int: %w", text, err)
		}
		return n, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as float: %w", text, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown value type %q (valid: text, bytes, int, float)", typ)
	}
}
