package memory

import (
	"context"
	"testing"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
	types "github.com/prysmaticlabs/eth2-types"
)

func TestStore_BlocksCRUD(t *testing.T) {
	db := NewStore()
	ctx := context.Background()

	blk := util.NewBeaconBlock()
	blk.Block.Slot = 20
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	retrieved, err := db.Block(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, true, retrieved == nil, "Expected nil block")
	assert.Equal(t, false, db.HasBlock(ctx, root))

	require.NoError(t, db.SaveBlock(ctx, blk))
	assert.Equal(t, true, db.HasBlock(ctx, root))

	retrieved, err = db.Block(ctx, root)
	require.NoError(t, err)
	assert.DeepEqual(t, blk, retrieved)

	// Mutating the returned block must not affect the stored copy.
	retrieved.Block.Slot = 21
	again, err := db.Block(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(20), again.Block.Slot)
}

func TestStore_BlocksBySlot(t *testing.T) {
	db := NewStore()
	ctx := context.Background()

	b1 := util.NewBeaconBlock()
	b1.Block.Slot = 20
	b2 := util.NewBeaconBlock()
	b2.Block.Slot = 20
	b2.Block.ProposerIndex = 5
	b3 := util.NewBeaconBlock()
	b3.Block.Slot = 21
	require.NoError(t, db.SaveBlocks(ctx, []*ethpb.SignedBeaconBlock{b1, b2, b3}))

	hasBlocks, retrieved, err := db.BlocksBySlot(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, true, hasBlocks)
	assert.Equal(t, 2, len(retrieved))

	hasBlocks, retrieved, err = db.BlocksBySlot(ctx, 22)
	require.NoError(t, err)
	assert.Equal(t, false, hasBlocks)
	assert.Equal(t, 0, len(retrieved))

	hasRoots, roots, err := db.BlockRootsBySlot(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, true, hasRoots)
	require.Equal(t, 1, len(roots))
	wantedRoot, err := b3.Block.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, wantedRoot, roots[0])
}

func TestStore_StatesCRUD(t *testing.T) {
	db := NewStore()
	ctx := context.Background()

	st, err := util.NewBeaconState()
	require.NoError(t, err)
	require.NoError(t, st.SetSlot(100))
	r := [32]byte{'A'}

	retrieved, err := db.State(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, true, retrieved == nil, "Expected nil state")
	assert.Equal(t, false, db.HasState(ctx, r))

	require.NoError(t, db.SaveState(ctx, st, r))
	assert.Equal(t, true, db.HasState(ctx, r))

	retrieved, err = db.State(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, types.Slot(100), retrieved.Slot())

	// Mutating the returned state must not affect the stored copy.
	require.NoError(t, retrieved.SetSlot(101))
	again, err := db.State(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(100), again.Slot())

	require.NoError(t, db.DeleteState(ctx, r))
	assert.Equal(t, false, db.HasState(ctx, r))
}

func TestStore_Checkpoints(t *testing.T) {
	db := NewStore()
	ctx := context.Background()

	retrieved, err := db.JustifiedCheckpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, retrieved == nil)

	jRoot := [32]byte{'j'}
	cp := &ethpb.Checkpoint{Epoch: 3, Root: jRoot[:]}
	require.NoError(t, db.SaveJustifiedCheckpoint(ctx, cp))
	retrieved, err = db.JustifiedCheckpoint(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, cp, retrieved)

	fRoot := [32]byte{'f'}
	cp = &ethpb.Checkpoint{Epoch: 2, Root: fRoot[:]}
	require.NoError(t, db.SaveFinalizedCheckpoint(ctx, cp))
	retrieved, err = db.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, cp, retrieved)
}

func TestStore_SaveGenesisData(t *testing.T) {
	db := NewStore()
	ctx := context.Background()

	st, err := util.NewBeaconState()
	require.NoError(t, err)
	require.NoError(t, db.SaveGenesisData(ctx, st))

	genesisBlock, err := db.GenesisBlock(ctx)
	require.NoError(t, err)
	require.NotNil(t, genesisBlock)
	genesisRoot, err := genesisBlock.Block.HashTreeRoot()
	require.NoError(t, err)

	savedRoot, err := db.GenesisBlockRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, genesisRoot, savedRoot)

	genesisState, err := db.GenesisState(ctx)
	require.NoError(t, err)
	require.NotNil(t, genesisState)

	headBlock, err := db.HeadBlock(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, genesisBlock, headBlock)

	justified, err := db.JustifiedCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, justified)
	assert.DeepEqual(t, genesisRoot[:], justified.Root)

	finalized, err := db.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, finalized)
	assert.DeepEqual(t, genesisRoot[:], finalized.Root)

	// The genesis state cannot be deleted.
	err = db.DeleteState(ctx, genesisRoot)
	assert.ErrorContains(t, "cannot delete genesis state", err)
}

func TestStore_ClearDB(t *testing.T) {
	db := NewStore()
	ctx := context.Background()

	blk := util.NewBeaconBlock()
	require.NoError(t, db.SaveBlock(ctx, blk))
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	require.Equal(t, true, db.HasBlock(ctx, root))

	require.NoError(t, db.ClearDB())
	assert.Equal(t, false, db.HasBlock(ctx, root))
}
