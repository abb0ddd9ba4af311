package blockchain

import (
	"context"
	"testing"
	"time"

	testDB "github.com/pharoslabs/pharos/beacon-chain/db/testing"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
)

func TestVerifyLmdFfgConsistency(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	atts, err := util.GenerateAttestations(genesisState, privKeys, 1, 0, false)
	require.NoError(t, err)
	a := atts[0]

	require.NoError(t, service.VerifyLmdFfgConsistency(ctx, a))

	a.Data.Target.Root = bytesutil.PadTo([]byte{'w', 'r', 'o', 'n', 'g'}, 32)
	err = service.VerifyLmdFfgConsistency(ctx, a)
	require.ErrorContains(t, "FFG and LMD votes are not consistent", err)
}

func TestProcessAttestations_DrainsForkchoicePool(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	secondsPerSlot := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	service.genesisTime = time.Now().Add(-2 * secondsPerSlot)

	atts, err := util.GenerateAttestations(genesisState, privKeys, 1, 0, false)
	require.NoError(t, err)
	require.NoError(t, service.attPool.SaveForkchoiceAttestations(atts))
	require.Equal(t, true, service.attPool.ForkchoiceAttestationCount() > 0)

	service.processAttestations(ctx)

	assert.Equal(t, 0, service.attPool.ForkchoiceAttestationCount(), "Fork choice attestations were not drained")
}

func TestProcessAttestations_SkipsFutureSlot(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	// Chain clock sits at the attestation's own slot, the vote is not yet
	// eligible for fork choice and must stay in the pool.
	service.genesisTime = time.Now()

	atts, err := util.GenerateAttestations(genesisState, privKeys, 1, 0, false)
	require.NoError(t, err)
	require.NoError(t, service.attPool.SaveForkchoiceAttestations(atts))
	before := service.attPool.ForkchoiceAttestationCount()

	service.processAttestations(ctx)

	assert.Equal(t, before, service.attPool.ForkchoiceAttestationCount())
}
