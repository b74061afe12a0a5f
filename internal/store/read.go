package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the value stored at key.
// Returns (nil, false, nil) when the key does not exist, and ErrWrongType if
// key holds a list.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		kind  string
		value []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT kind, value FROM kv_keys WHERE ns = ? AND key = ?
	`, s.ns, key).Scan(&kind, &value)
	if isNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	if kind != kindString {
		return nil, false, fmt.Errorf("get %s: %w", key, ErrWrongType)
	}

	return nonNil(value), true, nil
}

// LLen returns the length of the list at key, or 0 if the key does not exist.
// Returns ErrWrongType if key holds a string value.
func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	kind, found, err := s.lookupKind(ctx, s.db, key)
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", key, err)
	}
	if !found {
		return 0, nil
	}
	if kind != kindList {
		return 0, fmt.Errorf("llen %s: %w", key, ErrWrongType)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM kv_list_items WHERE ns = ? AND key = ?
	`, s.ns, key).Scan(&n); err != nil {
		return 0, fmt.Errorf("llen %s: %w", key, err)
	}
	return n, nil
}

// LRange returns the elements of the list at key between start and stop,
// both inclusive. Negative indices count from the end of the list (-1 is the
// last element). Out-of-range indices are clamped; an empty or inverted range
// yields an empty slice.
//
// Returns an empty slice (not nil) if the key does not exist, and
// ErrWrongType if key holds a string value.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: begin tx: %w", key, err)
	}
	defer tx.Rollback()

	kind, found, err := s.lookupKind(ctx, tx, key)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	if !found {
		return [][]byte{}, nil
	}
	if kind != kindList {
		return nil, fmt.Errorf("lrange %s: %w", key, ErrWrongType)
	}

	var length int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM kv_list_items WHERE ns = ? AND key = ?
	`, s.ns, key).Scan(&length); err != nil {
		return nil, fmt.Errorf("lrange %s: count: %w", key, err)
	}

	offset, limit := rangeWindow(length, start, stop)
	if limit == 0 {
		return [][]byte{}, nil
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT value FROM kv_list_items
		WHERE ns = ? AND key = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, s.ns, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	defer rows.Close()

	items := make([][]byte, 0, limit)
	for rows.Next() {
		var v []byte
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("lrange %s: scan: %w", key, err)
		}
		items = append(items, nonNil(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lrange %s: iterate: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("lrange %s: commit: %w", key, err)
	}

	return items, nil
}

// Keys returns every key of the active namespace in binary order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key FROM kv_keys WHERE ns = ? ORDER BY key COLLATE BINARY ASC
	`, s.ns)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("keys: scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keys: iterate: %w", err)
	}
	return keys, nil
}

// rangeWindow converts inclusive start/stop list indices into an
// OFFSET/LIMIT pair for a list of the given length.
func rangeWindow(length, start, stop int64) (offset, limit int64) {
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length {
		return 0, 0
	}
	return start, stop - start + 1
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
