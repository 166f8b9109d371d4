// Package dbtest opens throwaway SQLite stores for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/database"
)

// NewStore opens an initialized (migrated and seeded) store backed by a
// file in t.TempDir. It is closed when the test ends.
func NewStore(t testing.TB) *database.Store {
	t.Helper()
	store := NewEmptyStore(t)
	require.NoError(t, database.Initialize(context.Background(), store, bcrypt.MinCost))
	return store
}

// NewEmptyStore opens a store without running the initializer.
func NewEmptyStore(t testing.TB) *database.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := database.Open(config.Database{Path: path}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewConn acquires a connection from a fresh initialized store.
func NewConn(t testing.TB) (*database.Conn, *database.Store) {
	t.Helper()
	store := NewStore(t)
	return Acquire(t, store), store
}

// Acquire checks out a connection that is released when the test ends.
func Acquire(t testing.TB, store *database.Store) *database.Conn {
	t.Helper()
	conn, err := store.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Release() })
	return conn
}
