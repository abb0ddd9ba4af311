// Package db defines the ability to create a new database
// for a Pharos beacon node.
package db

import (
	"github.com/pharoslabs/pharos/beacon-chain/db/memory"
)

// NewDB initializes a new in-memory DB.
func NewDB() Database {
	return memory.NewStore()
}
