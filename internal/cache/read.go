package cache

import (
	"context"
	"fmt"
	"strconv"
)

// ReadMode selects how Read renders a stored value.
type ReadMode string

// Read modes.
const (
	ReadRaw       ReadMode = "raw"
	ReadText      ReadMode = "text"
	ReadInt       ReadMode = "int"
	ReadIntStrict ReadMode = "int-strict"
)

// Nil is what Read returns for an absent key in raw mode.
const Nil = "(nil)"

// ParseReadMode validates a read mode name. The empty string means raw.
func ParseReadMode(s string) (ReadMode, error) {
	switch m := ReadMode(s); m {
	case "":
		return ReadRaw, nil
	case ReadRaw, ReadText, ReadInt, ReadIntStrict:
		return m, nil
	default:
		return "", fmt.Errorf("unknown read mode %q (valid: raw, text, int, int-strict)", s)
	}
}

// Read returns the value at key rendered as text according to mode.
//
//   - raw: the bytes as-is, or Nil for an absent key
//   - text: GetStr
//   - int: GetInt, printed in base 10
//   - int-strict: GetIntStrict, printed in base 10
func (c *Cache) Read(ctx context.Context, key string, mode ReadMode) (string, error) {
	switch mode {
	case ReadRaw, "":
		data, found, err := c.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !found {
			return Nil, nil
		}
		return string(data), nil
	case ReadText:
		return c.GetStr(ctx, key)
	case ReadInt:
		n, err := c.GetInt(ctx, key)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case ReadIntStrict:
		n, err := c.GetIntStrict(ctx, key)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	default:
		return "", fmt.Errorf("unknown read mode %q", mode)
	}
}
