// Package testing allows for spinning up a fresh in-memory
// database instance for unit tests throughout the Pharos repo.
package testing

import (
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/db"
	"github.com/pharoslabs/pharos/beacon-chain/db/memory"
)

// SetupDB instantiates and returns a database backed by an in-memory store.
func SetupDB(t testing.TB) db.Database {
	s := memory.NewStore()
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})
	return s
}
