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

func TestStore_OnBlock_CanProcess(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk, err := util.GenerateFullBlock(genesisState, privKeys, util.DefaultBlockGenConfig(), 1)
	require.NoError(t, err)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	require.NoError(t, service.onBlock(ctx, blk, root))

	assert.Equal(t, true, beaconDB.HasBlock(ctx, root), "Block was not saved to db")
	assert.Equal(t, true, beaconDB.HasState(ctx, root), "Post state was not saved to db")
	assert.Equal(t, true, service.forkChoiceStore.HasNode(root), "Block was not inserted to fork choice")
}

func TestStore_OnBlock_UnknownParent(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk := util.NewBeaconBlock()
	blk.Block.Slot = 1
	blk.Block.ParentRoot = bytesutil.PadTo([]byte{'c', 'a', 'f', 'e'}, 32)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	err = service.onBlock(ctx, blk, root)
	require.ErrorIs(t, ErrUnknownParent, err)
}

func TestStore_OnBlock_FutureSlot(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	// Pretend the chain started right now, any block slot is in the future.
	service.genesisTime = time.Now()

	blk, err := util.GenerateFullBlock(genesisState, privKeys, util.DefaultBlockGenConfig(), 1)
	require.NoError(t, err)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	err = service.onBlock(ctx, blk, root)
	require.ErrorContains(t, "could not process slot from the future", err)
}

func TestStore_OnBlock_NotDescendantOfFinalized(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	service.finalizedCheckpt = &ethpb.Checkpoint{Epoch: 1, Root: service.genesisRoot[:]}

	blk, err := util.GenerateFullBlock(genesisState, privKeys, util.DefaultBlockGenConfig(), 1)
	require.NoError(t, err)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	err = service.onBlock(ctx, blk, root)
	require.ErrorContains(t, "block is equal or earlier than finalized block", err)
}

func TestShouldUpdateJustified_EarlyInEpoch(t *testing.T) {
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)
	service.genesisTime = time.Now()
	service.justifiedCheckpt = &ethpb.Checkpoint{Root: make([]byte, 32)}

	update, err := service.shouldUpdateCurrentJustified(context.Background(), &ethpb.Checkpoint{Root: make([]byte, 32)})
	require.NoError(t, err)
	assert.Equal(t, true, update, "Should be able to update justified before safe slots elapse")
}

func TestShouldUpdateJustified_MidEpoch(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	// Move the clock past the safe window within the epoch.
	safeSlots := params.BeaconConfig().SafeSlotsToUpdateJustified
	secondsPerSlot := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	service.genesisTime = time.Now().Add(-time.Duration(safeSlots+1) * secondsPerSlot)

	blk := util.NewBeaconBlock()
	blk.Block.Slot = 1
	blk.Block.ParentRoot = service.genesisRoot[:]
	require.NoError(t, beaconDB.SaveBlock(ctx, blk))
	blkRoot, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	t.Run("new justified descends from current", func(t *testing.T) {
		service.justifiedCheckpt = &ethpb.Checkpoint{Epoch: 0, Root: service.genesisRoot[:]}
		update, err := service.shouldUpdateCurrentJustified(ctx, &ethpb.Checkpoint{Epoch: 1, Root: blkRoot[:]})
		require.NoError(t, err)
		assert.Equal(t, true, update)
	})

	t.Run("new justified conflicts with current", func(t *testing.T) {
		otherRoot := bytesutil.PadTo([]byte{'o', 't', 'h', 'e', 'r'}, 32)
		service.justifiedCheckpt = &ethpb.Checkpoint{Epoch: 0, Root: otherRoot}
		update, err := service.shouldUpdateCurrentJustified(ctx, &ethpb.Checkpoint{Epoch: 1, Root: blkRoot[:]})
		require.NoError(t, err)
		assert.Equal(t, false, update)
	})
}

func TestUpdateFinalized_PrunesForkChoice(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	cp := &ethpb.Checkpoint{Epoch: 1, Root: service.genesisRoot[:]}
	require.NoError(t, service.updateFinalized(ctx, cp))

	assert.Equal(t, types.Epoch(1), service.finalizedCheckpt.Epoch)
	assert.Equal(t, types.Epoch(0), service.prevFinalizedCheckpt.Epoch)
	saved, err := beaconDB.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Epoch(1), saved.Epoch)
}

func TestFillInForkChoiceMissingBlocks(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	// Chain of db blocks the fork choice store has never seen.
	blk1 := util.NewBeaconBlock()
	blk1.Block.Slot = 1
	blk1.Block.ParentRoot = service.genesisRoot[:]
	r1, err := blk1.Block.HashTreeRoot()
	require.NoError(t, err)
	require.NoError(t, beaconDB.SaveBlock(ctx, blk1))

	blk2 := util.NewBeaconBlock()
	blk2.Block.Slot = 2
	blk2.Block.ParentRoot = r1[:]
	r2, err := blk2.Block.HashTreeRoot()
	require.NoError(t, err)
	require.NoError(t, beaconDB.SaveBlock(ctx, blk2))

	blk3 := util.NewBeaconBlock()
	blk3.Block.Slot = 3
	blk3.Block.ParentRoot = r2[:]

	require.NoError(t, service.fillInForkChoiceMissingBlocks(ctx, blk3.Block, genesisState))

	assert.Equal(t, true, service.forkChoiceStore.HasNode(r1), "Missing ancestor was not inserted")
	assert.Equal(t, true, service.forkChoiceStore.HasNode(r2), "Missing parent was not inserted")
}

func TestAncestor_UsesDBWhenNotInForkChoice(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk := util.NewBeaconBlock()
	blk.Block.Slot = 5
	blk.Block.ParentRoot = service.genesisRoot[:]
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	require.NoError(t, beaconDB.SaveBlock(ctx, blk))

	got, err := service.ancestor(ctx, root[:], 0)
	require.NoError(t, err)
	assert.DeepEqual(t, service.genesisRoot[:], got)
}
