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

func TestFinalizedCheckpt_Nil(t *testing.T) {
	service := setupBeaconChain(t, testDB.SetupDB(t))
	cp := service.FinalizedCheckpt()
	assert.DeepEqual(t, params.BeaconConfig().ZeroHash[:], cp.Root)
}

func TestFinalizedCheckpt_GenesisRootSubstitution(t *testing.T) {
	service := setupBeaconChain(t, testDB.SetupDB(t))
	genesisRoot := [32]byte{'A'}
	service.genesisRoot = genesisRoot
	service.finalizedCheckpt = &ethpb.Checkpoint{Epoch: 5, Root: params.BeaconConfig().ZeroHash[:]}

	cp := service.FinalizedCheckpt()
	assert.DeepEqual(t, genesisRoot[:], cp.Root, "Zero hash root should resolve to the genesis root")
	assert.Equal(t, types.Epoch(5), cp.Epoch)
}

func TestJustifiedCheckpt_CanRetrieve(t *testing.T) {
	service := setupBeaconChain(t, testDB.SetupDB(t))
	cp := &ethpb.Checkpoint{Epoch: 6, Root: bytesutil.PadTo([]byte{'j'}, 32)}
	service.justifiedCheckpt = cp
	assert.Equal(t, types.Epoch(6), service.CurrentJustifiedCheckpt().Epoch)

	prev := &ethpb.Checkpoint{Epoch: 5, Root: bytesutil.PadTo([]byte{'p'}, 32)}
	service.prevJustifiedCheckpt = prev
	assert.Equal(t, types.Epoch(5), service.PreviousJustifiedCheckpt().Epoch)
}

func TestHeadSlot_CanRetrieve(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))
	assert.Equal(t, types.Slot(0), service.HeadSlot(), "No head should report slot zero")

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	assert.Equal(t, types.Slot(0), service.HeadSlot())
}

func TestHeadRoot_UsesDBWhenNoHead(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, beaconDB.SaveGenesisData(ctx, genesisState))
	genesisRoot, err := beaconDB.GenesisBlockRoot(ctx)
	require.NoError(t, err)

	// Head view never initialized, the db head block root is served instead.
	r, err := service.HeadRoot(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, genesisRoot[:], r)
}

func TestHeadState_CanRetrieve(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	headState, err := service.HeadState(ctx)
	require.NoError(t, err)
	require.Equal(t, false, headState.IsNil())
	assert.Equal(t, types.Slot(0), headState.Slot())
}

func TestCurrentFork_DefaultsToGenesisVersion(t *testing.T) {
	service := setupBeaconChain(t, testDB.SetupDB(t))
	f := service.CurrentFork()
	assert.DeepEqual(t, params.BeaconConfig().GenesisForkVersion, f.CurrentVersion)
}

func TestGenesisTimeAndCurrentSlot(t *testing.T) {
	service := setupBeaconChain(t, testDB.SetupDB(t))
	secondsPerSlot := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	service.genesisTime = time.Now().Add(-5 * secondsPerSlot)

	assert.Equal(t, service.genesisTime, service.GenesisTime())
	assert.Equal(t, types.Slot(5), service.CurrentSlot())
}

func TestIsCanonical(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	// Genesis is tracked by fork choice and canonical by definition.
	_, err := service.forkChoiceStore.Head(ctx, 0, service.genesisRoot, service.getJustifiedBalances(), 0)
	require.NoError(t, err)
	canonical, err := service.IsCanonical(ctx, service.genesisRoot)
	require.NoError(t, err)
	assert.Equal(t, true, canonical)

	// A root nobody has seen is not canonical.
	canonical, err = service.IsCanonical(ctx, [32]byte{'u', 'n', 'k', 'n', 'o', 'w', 'n'})
	require.NoError(t, err)
	assert.Equal(t, false, canonical)
}
