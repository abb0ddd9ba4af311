package blockchain

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	testDB "github.com/pharoslabs/pharos/beacon-chain/db/testing"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
)

func TestService_ReceiveBlock_CanProcess(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk, err := util.GenerateFullBlock(genesisState, privKeys, util.DefaultBlockGenConfig(), 1)
	require.NoError(t, err)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	events := make(chan *feed.Event, 4)
	sub := service.stateNotifier.StateFeed().Subscribe(events)
	defer sub.Unsubscribe()

	require.NoError(t, service.ReceiveBlock(ctx, blk, root))

	assert.Equal(t, true, beaconDB.HasBlock(ctx, root), "Block was not saved to db")
	headRoot, err := service.HeadRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root, bytesutil.ToBytes32(headRoot), "Head did not advance to the received block")

	select {
	case ev := <-events:
		require.Equal(t, statefeed.BlockProcessed, int(ev.Type))
		data, ok := ev.Data.(*statefeed.BlockProcessedData)
		require.Equal(t, true, ok)
		assert.Equal(t, root, data.BlockRoot)
		assert.Equal(t, true, data.Verified)
	default:
		t.Error("Expected a block processed event to be sent")
	}
}

func TestService_ReceiveBlock_UnknownParentQueued(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk := util.NewBeaconBlock()
	blk.Block.Slot = 1
	blk.Block.ParentRoot = bytesutil.PadTo([]byte{'m', 'i', 's', 's'}, 32)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	err = service.ReceiveBlock(ctx, blk, root)
	require.ErrorIs(t, ErrUnknownParent, err)
	assert.Equal(t, true, service.HasPendingBlock(root), "Block with unknown parent was not queued")
	assert.Equal(t, false, beaconDB.HasBlock(ctx, root))
}

func TestService_ReceiveBlock_RemovesAttestationsFromPool(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk, err := util.GenerateFullBlock(genesisState, privKeys, util.DefaultBlockGenConfig(), 1)
	require.NoError(t, err)
	require.Equal(t, true, len(blk.Block.Body.Attestations) > 0)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	// Seed the pool with the block's attestation, a processed block evicts it.
	require.NoError(t, service.attPool.SaveAggregatedAttestation(blk.Block.Body.Attestations[0]))
	require.Equal(t, 1, service.attPool.AggregatedAttestationCount())

	require.NoError(t, service.ReceiveBlock(ctx, blk, root))

	assert.Equal(t, 0, service.attPool.AggregatedAttestationCount(), "Included attestation was not removed from the pool")
	assert.Equal(t, len(blk.Block.Body.Attestations), len(service.attPool.BlockAttestations()), "Block attestations were not saved for fork choice")
}
