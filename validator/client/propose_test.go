package client

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
	logTest "github.com/sirupsen/logrus/hooks/test"
)

func TestProposeBlock_OK(t *testing.T) {
	hook := logTest.NewGlobal()
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)
	genesisState, _ := util.DeterministicGenesisState(t, 64)
	chain.State = genesisState
	v.graffiti = []byte("pharos")

	v.ProposeBlock(ctx, 1, keys[0])

	require.LogsContain(t, hook, "Submitted new block")
	require.Equal(t, 1, len(chain.BlocksReceived))
	blk := chain.BlocksReceived[0].Block
	assert.Equal(t, true, blk.Slot == 1)
	assert.Equal(t, "pharos", string(blk.Body.Graffiti[:6]))
	assert.Equal(t, 96, len(chain.BlocksReceived[0].Signature))

	// The proposal history records the signing root for the slot.
	_, exists, err := v.db.ProposalHistoryForSlot(ctx, keys[0], 1)
	require.NoError(t, err)
	assert.Equal(t, true, exists)
}

func TestProposeBlock_GenesisSlotSkipped(t *testing.T) {
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)

	v.ProposeBlock(ctx, 0, keys[0])

	assert.Equal(t, 0, len(chain.BlocksReceived))
}

func TestProposeBlock_DoubleProposalRejected(t *testing.T) {
	hook := logTest.NewGlobal()
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)
	genesisState, _ := util.DeterministicGenesisState(t, 64)
	chain.State = genesisState

	v.graffiti = []byte("an honest block")
	v.ProposeBlock(ctx, 1, keys[0])
	require.Equal(t, 1, len(chain.BlocksReceived))

	// A second block at the same slot has a different signing root and must
	// be stopped by the proposal history.
	v.graffiti = []byte("an equivocating block")
	v.ProposeBlock(ctx, 1, keys[0])

	require.LogsContain(t, hook, "Failed block slashing protection check")
	assert.Equal(t, 1, len(chain.BlocksReceived))
}

func TestProposeBlock_SameBlockResigns(t *testing.T) {
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)
	genesisState, _ := util.DeterministicGenesisState(t, 64)
	chain.State = genesisState

	v.ProposeBlock(ctx, 1, keys[0])
	// Re-signing the identical block is not an equivocation.
	v.ProposeBlock(ctx, 1, keys[0])

	assert.Equal(t, 2, len(chain.BlocksReceived))
}
