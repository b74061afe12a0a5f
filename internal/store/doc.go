// Package store provides the SQLite-backed key-value store that kvtrace
// instruments.
//
// The store exposes a small Redis-like protocol over a flat key space:
//   - Get / Set: byte-string values under string keys
//   - Incr: atomic integer increment of a string key
//   - RPush / LRange / LLen: append-only ordered lists
//   - FlushDB: remove every key of the active namespace
//
// # Key Kinds
//
// A key is either a string key or a list key. Reading or incrementing a list
// key, or appending to a string key, fails with ErrWrongType. Set overwrites a
// key of either kind.
//
// # Namespaces
//
// Each Store handle operates on one integer namespace (0-15, default 0).
// Keys in different namespaces never collide and FlushDB only clears the
// handle's own namespace.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: List items are removed with their key
//   - _txlock=immediate: Read-modify-write operations (Incr, RPush) take the
//     write lock up front, so concurrent processes serialize at the store
package store
