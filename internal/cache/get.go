package cache

import (
	"context"
	"errors"
	"fmt"
)

// Get returns the raw bytes stored at key.
// An absent key returns (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, found, err := c.conn.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return data, found, nil
}

// GetWith reads key and decodes the bytes with decode.
//
// An absent key returns the zero T and false without calling decode. Decoder
// errors are returned wrapped.
func GetWith[T any](ctx context.Context, c *Cache, key string, decode func([]byte) (T, error)) (T, bool, error) {
	var zero T

	data, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	if decode == nil {
		return zero, false, fmt.Errorf("get %s: nil decoder", key)
	}

	v, err := decode(data)
	if err != nil {
		return zero, true, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// GetStr returns the value at key as UTF-8 text.
// Returns ErrKeyNotFound for an absent key and ErrInvalidUTF8 for bytes that
// are not valid UTF-8.
func (c *Cache) GetStr(ctx context.Context, key string) (string, error) {
	s, found, err := GetWith(ctx, c, key, DecodeString)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("get %s: %w", key, ErrKeyNotFound)
	}
	return s, nil
}

// GetInt returns the value at key parsed as a base-10 integer.
//
// An absent key or a value that does not parse yields 0 with a nil error.
// Store failures are still returned. Use GetIntStrict to tell these cases
// apart.
func (c *Cache) GetInt(ctx context.Context, key string) (int64, error) {
	n, _, err := GetWith(ctx, c, key, DecodeInt)
	if errors.Is(err, ErrNotInteger) {
		c.logger.Debug("non-integer value read as 0", "key", key)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// GetIntStrict is GetInt without the fallback: an absent key returns
// ErrKeyNotFound and a value that does not parse returns ErrNotInteger.
func (c *Cache) GetIntStrict(ctx context.Context, key string) (int64, error) {
	n, found, err := GetWith(ctx, c, key, DecodeInt)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("get %s: %w", key, ErrKeyNotFound)
	}
	return n, nil
}
