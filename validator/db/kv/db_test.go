package kv

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/testing/require"
)

// setupDB instantiates and returns a DB instance for the validator client.
func setupDB(t testing.TB, pubkeys [][48]byte) *Store {
	db, err := NewKVStore(context.Background(), t.TempDir(), pubkeys)
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
		require.NoError(t, db.ClearDB(), "Failed to clear database")
	})
	return db
}

func TestStore_DatabasePath(t *testing.T) {
	db := setupDB(t, nil)
	require.NotEqual(t, "", db.DatabasePath())
}
