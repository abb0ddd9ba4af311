package kv

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/testing/require"
)

func TestStore_GenesisValidatorsRoot_ReadAndWrite(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t, nil)

	// Empty until written.
	got, err := db.GenesisValidatorsRoot(ctx)
	require.NoError(t, err)
	require.DeepEqual(t, []byte(nil), got)

	root := []byte{1, 2, 3}
	require.NoError(t, db.SaveGenesisValidatorsRoot(ctx, root))

	got, err = db.GenesisValidatorsRoot(ctx)
	require.NoError(t, err)
	require.DeepEqual(t, root, got)

	// Overwriting with the same value is a no-op.
	require.NoError(t, db.SaveGenesisValidatorsRoot(ctx, root))

	// Overwriting with a different value is forbidden.
	err = db.SaveGenesisValidatorsRoot(ctx, []byte{5})
	require.ErrorContains(t, "cannot overwrite existing genesis validators root", err)
}
