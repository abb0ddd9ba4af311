package transition_test

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/core/transition"
	v1 "github.com/pharoslabs/pharos/beacon-chain/state/v1"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
)

func TestSkipSlotCache_OK(t *testing.T) {
	transition.SkipSlotCache.Enable()
	defer transition.SkipSlotCache.Disable()
	bState, privs := util.DeterministicGenesisState(t, 64)
	originalState, err := v1.InitializeFromProto(bState.CloneInnerState())
	require.NoError(t, err)

	blkCfg := util.DefaultBlockGenConfig()
	blkCfg.NumAttestations = 1

	// First transition will be with an empty cache, so the cache becomes populated
	// with the state.
	blk, err := util.GenerateFullBlock(bState, privs, blkCfg, originalState.Slot()+10)
	require.NoError(t, err)
	executedState, err := transition.ExecuteStateTransition(context.Background(), originalState, blk)
	require.NoError(t, err, "Could not run state transition")
	originalState, ok := executedState.(*v1.BeaconState)
	require.Equal(t, true, ok)
	bState, err = transition.ExecuteStateTransition(context.Background(), bState, blk)
	require.NoError(t, err, "Could not process state transition")

	originalRoot, err := originalState.HashTreeRoot(context.Background())
	require.NoError(t, err)
	newRoot, err := bState.HashTreeRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, originalRoot, newRoot, "Expected skipped slots processed and non-processed to be equal")
}
