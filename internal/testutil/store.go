// Package testutil provides shared fixtures for kvtrace tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kvtrace/internal/store"
)

// OpenStore opens a file-backed store in a temp directory and closes it when
// the test ends.
func OpenStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	return OpenStoreAt(t, filepath.Join(t.TempDir(), "kvtrace.db"), opts...)
}

// OpenStoreAt opens the store at path. Used when a test needs several handles
// on the same database file.
func OpenStoreAt(t testing.TB, path string, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.Open(path, opts...)
	require.NoError(t, err, "open store %s", path)
	t.Cleanup(func() { s.Close() })
	return s
}
