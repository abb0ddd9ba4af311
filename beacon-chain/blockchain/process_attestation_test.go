package blockchain

import (
	"context"
	"testing"
	"time"

	testDB "github.com/pharoslabs/pharos/beacon-chain/db/testing"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
	types "github.com/prysmaticlabs/eth2-types"
)

func TestStore_OnAttestation_Ok(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	secondsPerSlot := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	service.genesisTime = time.Now().Add(-2 * secondsPerSlot)

	atts, err := util.GenerateAttestations(genesisState, privKeys, 1, 0, false)
	require.NoError(t, err)
	require.Equal(t, true, len(atts) > 0)

	tgt := bytesutil.ToBytes32(atts[0].Data.Target.Root)
	require.Equal(t, service.genesisRoot, tgt, "Attestation of the first slot should target genesis")

	require.NoError(t, service.onAttestation(ctx, atts[0]))
}

func TestStore_OnAttestation_ErrorConditions(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	tests := []struct {
		name      string
		att       *ethpb.Attestation
		wantedErr string
	}{
		{
			name:      "nil attestation data",
			att:       &ethpb.Attestation{},
			wantedErr: "attestation's data can't be nil",
		},
		{
			name: "slot and target epoch mismatched",
			att: util.HydrateAttestation(&ethpb.Attestation{
				Data: &ethpb.AttestationData{
					Slot:   params.BeaconConfig().SlotsPerEpoch,
					Target: &ethpb.Checkpoint{Root: make([]byte, 32)},
				},
			}),
			wantedErr: "does not match target epoch",
		},
		{
			name: "unknown target root",
			att: util.HydrateAttestation(&ethpb.Attestation{
				Data: &ethpb.AttestationData{
					Target: &ethpb.Checkpoint{Root: bytesutil.PadTo([]byte{'b', 'a', 'd'}, 32)},
				},
			}),
			wantedErr: "target root does not exist in db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.onAttestation(ctx, tt.att)
			require.ErrorContains(t, tt.wantedErr, err)
		})
	}
}

func TestVerifyAttTargetEpoch_AcceptsCurrentAndPrevious(t *testing.T) {
	service := setupBeaconChain(t, testDB.SetupDB(t))
	ctx := context.Background()

	nowEpochOne := uint64(params.BeaconConfig().SlotsPerEpoch.Mul(params.BeaconConfig().SecondsPerSlot))
	tests := []struct {
		name      string
		genesis   uint64
		now       uint64
		target    *ethpb.Checkpoint
		wantedErr string
	}{
		{
			name:    "current epoch",
			genesis: 0,
			now:     nowEpochOne,
			target:  &ethpb.Checkpoint{Epoch: 1},
		},
		{
			name:    "previous epoch",
			genesis: 0,
			now:     nowEpochOne,
			target:  &ethpb.Checkpoint{Epoch: 0},
		},
		{
			name:      "future epoch",
			genesis:   0,
			now:       0,
			target:    &ethpb.Checkpoint{Epoch: 2},
			wantedErr: "target epoch 2 does not match current epoch 0 or prev epoch 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.verifyAttTargetEpoch(ctx, tt.genesis, tt.now, tt.target)
			if tt.wantedErr != "" {
				require.ErrorContains(t, tt.wantedErr, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestVerifyBeaconBlock(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	blk := util.NewBeaconBlock()
	blk.Block.Slot = 2
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	require.NoError(t, beaconDB.SaveBlock(ctx, blk))

	t.Run("unknown block", func(t *testing.T) {
		d := &ethpb.AttestationData{BeaconBlockRoot: bytesutil.PadTo([]byte{'n', 'o'}, 32)}
		require.NotNil(t, service.verifyBeaconBlock(ctx, d))
	})
	t.Run("block from the future relative to attestation", func(t *testing.T) {
		d := &ethpb.AttestationData{BeaconBlockRoot: root[:], Slot: 1}
		require.NotNil(t, service.verifyBeaconBlock(ctx, d))
	})
	t.Run("ok", func(t *testing.T) {
		d := &ethpb.AttestationData{BeaconBlockRoot: root[:], Slot: 2}
		require.NoError(t, service.verifyBeaconBlock(ctx, d))
	})
}

func TestGetAttPreState_UsesCheckpointCache(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	cp := &ethpb.Checkpoint{Epoch: 0, Root: service.genesisRoot[:]}
	st, err := service.getAttPreState(ctx, cp)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(0), st.Slot())

	// Second lookup is served from the checkpoint state cache.
	cached, err := service.checkpointStateCache.StateByCheckpoint(cp)
	require.NoError(t, err)
	require.NotNil(t, cached)
}
