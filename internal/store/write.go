package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// Set stores value under key as a string key.
// Overwrites an existing key of either kind; list items of a previous list
// key are discarded in the same transaction.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set %s: begin tx: %w", key, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM kv_list_items WHERE ns = ? AND key = ?
	`, s.ns, key); err != nil {
		return fmt.Errorf("set %s: clear list: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_keys (ns, key, kind, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ns, key) DO UPDATE SET kind = excluded.kind, value = excluded.value
	`, s.ns, key, kindString, nonNil(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set %s: commit: %w", key, err)
	}

	s.logger.Debug("kv set", "ns", s.ns, "key", key, "bytes", len(value))
	return nil
}

// Incr atomically increments the integer stored at key and returns the new
// value. A missing key counts as 0, so the first Incr returns 1.
//
// Returns ErrWrongType for list keys and ErrNotInteger when the current value
// is not a base-10 int64 or the increment would overflow.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("incr %s: begin tx: %w", key, err)
	}
	defer tx.Rollback()

	var (
		kind    string
		current []byte
		n       int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT kind, value FROM kv_keys WHERE ns = ? AND key = ?
	`, s.ns, key).Scan(&kind, &current)
	switch {
	case isNoRows(err):
		// Missing key starts at zero
	case err != nil:
		return 0, fmt.Errorf("incr %s: %w", key, err)
	case kind != kindString:
		return 0, fmt.Errorf("incr %s: %w", key, ErrWrongType)
	default:
		n, err = strconv.ParseInt(string(current), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %s: %w", key, ErrNotInteger)
		}
	}

	if n == math.MaxInt64 {
		return 0, fmt.Errorf("incr %s: %w", key, ErrNotInteger)
	}
	n++

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_keys (ns, key, kind, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ns, key) DO UPDATE SET value = excluded.value
	`, s.ns, key, kindString, []byte(strconv.FormatInt(n, 10))); err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("incr %s: commit: %w", key, err)
	}

	s.logger.Debug("kv incr", "ns", s.ns, "key", key, "value", n)
	return n, nil
}

// RPush appends values to the end of the list at key and returns the list
// length after the append. A missing key is created as an empty list first.
//
// All values are appended in one transaction, in argument order.
// Returns ErrWrongType if key holds a string value.
func (s *Store) RPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("rpush %s: %w", key, ErrNoValues)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("rpush %s: begin tx: %w", key, err)
	}
	defer tx.Rollback()

	kind, found, err := s.lookupKind(ctx, tx, key)
	if err != nil {
		return 0, fmt.Errorf("rpush %s: %w", key, err)
	}
	if found && kind != kindList {
		return 0, fmt.Errorf("rpush %s: %w", key, ErrWrongType)
	}
	if !found {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv_keys (ns, key, kind, value) VALUES (?, ?, ?, NULL)
		`, s.ns, key, kindList); err != nil {
			return 0, fmt.Errorf("rpush %s: create list: %w", key, err)
		}
	}

	for i, v := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv_list_items (ns, key, value) VALUES (?, ?, ?)
		`, s.ns, key, nonNil(v)); err != nil {
			return 0, fmt.Errorf("rpush %s: value %d: %w", key, i, err)
		}
	}

	var length int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM kv_list_items WHERE ns = ? AND key = ?
	`, s.ns, key).Scan(&length); err != nil {
		return 0, fmt.Errorf("rpush %s: count: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("rpush %s: commit: %w", key, err)
	}

	s.logger.Debug("kv rpush", "ns", s.ns, "key", key, "appended", len(values), "length", length)
	return length, nil
}

// FlushDB removes every key of the active namespace.
// Other namespaces in the same database are untouched.
func (s *Store) FlushDB(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("flushdb: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv_list_items WHERE ns = ?`, s.ns); err != nil {
		return fmt.Errorf("flushdb: list items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv_keys WHERE ns = ?`, s.ns); err != nil {
		return fmt.Errorf("flushdb: keys: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("flushdb: commit: %w", err)
	}

	s.logger.Debug("kv flushdb", "ns", s.ns)
	return nil
}

// nonNil maps a nil slice to an empty one so the driver binds a zero-length
// blob rather than NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
