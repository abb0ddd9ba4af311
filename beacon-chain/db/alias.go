package db

import "github.com/pharoslabs/pharos/beacon-chain/db/iface"

// ReadOnlyDatabase exposes the read-only methods of the database.
type ReadOnlyDatabase = iface.ReadOnlyDatabase

// NoHeadAccessDatabase exposes the database without chain head related methods.
type NoHeadAccessDatabase = iface.NoHeadAccessDatabase

// HeadAccessDatabase exposes the database with chain head related methods.
type HeadAccessDatabase = iface.HeadAccessDatabase

// Database defines the full database, with read and write access.
type Database = iface.Database
