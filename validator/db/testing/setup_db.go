// Package testing allows for spinning up a validator database instance
// for test usage.
package testing

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/validator/db/iface"
	"github.com/pharoslabs/pharos/validator/db/kv"
)

// SetupDB instantiates and returns a validator database backed by a
// temporary directory, removed when the test completes.
func SetupDB(t testing.TB, pubkeys [][48]byte) iface.ValidatorDB {
	db, err := kv.NewKVStore(context.Background(), t.TempDir(), pubkeys)
	if err != nil {
		t.Fatalf("Failed to instantiate DB: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("Failed to close database: %v", err)
		}
		if err := db.ClearDB(); err != nil {
			t.Fatalf("Failed to clear database: %v", err)
		}
	})
	return db
}
