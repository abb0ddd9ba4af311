package transition_test

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/core/transition"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
	types "github.com/prysmaticlabs/eth2-types"
)

func TestExecuteStateTransition_IncorrectSlot(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, beaconState.SetSlot(5))
	block := util.NewBeaconBlock()
	block.Block.Slot = 4
	_, err := transition.ExecuteStateTransition(context.Background(), beaconState, block)
	require.ErrorContains(t, "expected state.slot", err)
}

func TestExecuteStateTransition_FullProcess(t *testing.T) {
	beaconState, privKeys := util.DeterministicGenesisState(t, 100)

	eth1Data := &ethpb.Eth1Data{
		DepositCount: 100,
		DepositRoot:  make([]byte, 32),
		BlockHash:    make([]byte, 32),
	}
	require.NoError(t, beaconState.SetSlot(params.BeaconConfig().SlotsPerEpoch-1))
	e := beaconState.Eth1Data()
	e.DepositCount = 100
	require.NoError(t, beaconState.SetEth1Data(e))
	bh := beaconState.LatestBlockHeader()
	bh.Slot = beaconState.Slot()
	require.NoError(t, beaconState.SetLatestBlockHeader(bh))
	require.NoError(t, beaconState.SetEth1DataVotes([]*ethpb.Eth1Data{eth1Data}))

	oldMix, err := beaconState.RandaoMixAtIndex(1)
	require.NoError(t, err)

	block, err := util.GenerateFullBlock(beaconState, privKeys, nil, beaconState.Slot()+1)
	require.NoError(t, err)
	block.Block.Body.Eth1Data = eth1Data
	stateRoot, err := transition.CalculateStateRoot(context.Background(), beaconState, block)
	require.NoError(t, err)
	block.Block.StateRoot = stateRoot[:]
	sig, err := util.BlockSignature(beaconState, block.Block, privKeys)
	require.NoError(t, err)
	block.Signature = sig.Marshal()

	beaconState, err = transition.ExecuteStateTransition(context.Background(), beaconState, block)
	require.NoError(t, err)

	assert.Equal(t, params.BeaconConfig().SlotsPerEpoch, beaconState.Slot(), "Unexpected slot number")

	mix, err := beaconState.RandaoMixAtIndex(1)
	require.NoError(t, err)
	assert.DeepNotEqual(t, oldMix, mix, "Did not expect new and old randao mix to equal")
}

func TestProcessSlots_SameSlotAsParentState(t *testing.T) {
	slot := types.Slot(2)
	parentState, _ := util.DeterministicGenesisState(t, 32)
	require.NoError(t, parentState.SetSlot(slot))

	st, err := transition.ProcessSlots(context.Background(), parentState, slot)
	require.NoError(t, err)
	assert.Equal(t, slot, st.Slot())
}

func TestProcessSlots_LowerSlotAsParentState(t *testing.T) {
	slot := types.Slot(2)
	parentState, _ := util.DeterministicGenesisState(t, 32)
	require.NoError(t, parentState.SetSlot(slot))

	_, err := transition.ProcessSlots(context.Background(), parentState, slot-1)
	require.ErrorContains(t, "expected state.slot 2 < slot 1", err)
}

func TestProcessSlots_ThroughEpoch(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	target := params.BeaconConfig().SlotsPerEpoch.Mul(2)
	st, err := transition.ProcessSlots(context.Background(), beaconState, target)
	require.NoError(t, err)
	assert.Equal(t, target, st.Slot())
}

func TestCanProcessEpoch_TrueOnEpochsLastSlot(t *testing.T) {
	tests := []struct {
		slot            types.Slot
		canProcessEpoch bool
	}{
		{slot: 1, canProcessEpoch: false},
		{slot: 63, canProcessEpoch: true},
		{slot: 64, canProcessEpoch: false},
		{slot: 127, canProcessEpoch: true},
		{slot: 1000000000, canProcessEpoch: false},
	}

	for _, tt := range tests {
		b := &ethpb.BeaconState{Slot: tt.slot}
		s, err := util.NewBeaconState()
		require.NoError(t, err)
		require.NoError(t, s.SetSlot(b.Slot))
		assert.Equal(t, tt.canProcessEpoch, transition.CanProcessEpoch(s), "CanProcessEpoch(%d)", tt.slot)
	}
}

func TestProcessEpochPrecompute_CanProcess(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, beaconState.SetSlot(params.BeaconConfig().SlotsPerEpoch-1))
	newState, err := transition.ProcessEpochPrecompute(context.Background(), beaconState)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), newState.Slashings()[2], "Unexpected slashed balance")
}

func TestVerifyOperationLengths_IncorrectDepositCount(t *testing.T) {
	beaconState, _ := util.DeterministicGenesisState(t, 64)
	e := beaconState.Eth1Data()
	e.DepositCount = 100
	require.NoError(t, beaconState.SetEth1Data(e))
	require.NoError(t, beaconState.SetEth1DepositIndex(0))

	block := util.NewBeaconBlock()
	_, err := transition.VerifyOperationLengths(context.Background(), beaconState, block)
	require.ErrorContains(t, "incorrect outstanding deposits in block body", err)
}
