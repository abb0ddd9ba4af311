package kv

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	types "github.com/prysmaticlabs/eth2-types"
)

func TestPruneAttestations_NoPruningWithinHorizon(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{1}
	db := setupDB(t, [][48]byte{pubKey})

	// Record attestations close together, all within the weak
	// subjectivity horizon of one another.
	for epoch := types.Epoch(1); epoch < 10; epoch++ {
		_, err := db.SaveAttestationForPubKey(ctx, pubKey, [32]byte{byte(epoch)}, createAttestation(epoch-1, epoch))
		require.NoError(t, err)
	}

	require.NoError(t, db.PruneAttestations(ctx))

	history, err := db.AttestationHistoryForPubKey(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, 9, len(history))
}

func TestPruneAttestations_OlderThanHorizonDropped(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{1}
	db := setupDB(t, [][48]byte{pubKey})

	horizon := params.BeaconConfig().WeakSubjectivityPeriod

	// An old record followed by one far beyond the horizon.
	_, err := db.SaveAttestationForPubKey(ctx, pubKey, [32]byte{1}, createAttestation(0, 1))
	require.NoError(t, err)
	_, err = db.SaveAttestationForPubKey(ctx, pubKey, [32]byte{2}, createAttestation(horizon+9, horizon+10))
	require.NoError(t, err)

	require.NoError(t, db.PruneAttestations(ctx))

	history, err := db.AttestationHistoryForPubKey(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, 1, len(history))
	assert.Equal(t, horizon+10, history[0].Target)

	// The signing root of the pruned target epoch is gone as well.
	signingRoot, err := db.SigningRootAtTargetEpoch(ctx, pubKey, 1)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{}, signingRoot)
}
