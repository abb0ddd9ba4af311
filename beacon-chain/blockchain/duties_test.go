package blockchain

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	opfeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/operation"
	testDB "github.com/pharoslabs/pharos/beacon-chain/db/testing"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/crypto/bls"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
)

func TestValidatorDuties_CurrentEpoch(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	pubKeys := [][48]byte{
		genesisState.PubkeyAtIndex(0),
		genesisState.PubkeyAtIndex(1),
	}
	result, dependentRoot, err := service.ValidatorDuties(ctx, 0, pubKeys)
	require.NoError(t, err)
	require.Equal(t, 2, len(result))
	assert.Equal(t, service.genesisRoot, dependentRoot, "Duties of the first epochs depend on genesis")

	for _, duty := range result {
		assert.Equal(t, true, len(duty.Committee) > 0, "Every validator has an attester assignment each epoch")
		found := false
		for i, member := range duty.Committee {
			if member == duty.ValidatorIndex {
				assert.Equal(t, uint64(i), duty.ValidatorCommitteeIndex)
				found = true
			}
		}
		assert.Equal(t, true, found, "Validator index missing from its own committee")
	}
}

func TestValidatorDuties_UnknownKeyOmitted(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	var unknown [48]byte
	unknown[0] = 0xff
	result, _, err := service.ValidatorDuties(ctx, 0, [][48]byte{unknown})
	require.NoError(t, err)
	assert.Equal(t, 0, len(result))
}

func TestValidatorDuties_BeyondLookahead(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))
	service.genesisTime = time.Now()

	_, _, err := service.ValidatorDuties(ctx, 2, [][48]byte{genesisState.PubkeyAtIndex(0)})
	require.ErrorIs(t, duties.ErrNotReady, err)
}

func TestAttestationData_AtGenesis(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	data, err := service.AttestationData(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Slot(0), data.Slot)
	assert.DeepEqual(t, service.genesisRoot[:], data.BeaconBlockRoot)
	assert.Equal(t, types.Epoch(0), data.Target.Epoch)
	assert.DeepEqual(t, service.genesisRoot[:], data.Target.Root)
	require.NotNil(t, data.Source)
}

func TestBuildBlock_OnGenesisParent(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, _ := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk, err := service.BuildBlock(ctx, 1, make([]byte, 96), []byte("pharos"))
	require.NoError(t, err)
	assert.Equal(t, types.Slot(1), blk.Slot)
	assert.DeepEqual(t, service.genesisRoot[:], blk.ParentRoot)
	require.Equal(t, 32, len(blk.StateRoot))
	assert.Equal(t, false, bytes.Equal(blk.StateRoot, make([]byte, 32)), "State root was not computed")
	assert.Equal(t, 32, len(blk.Body.Graffiti))
}

func TestSubmitBlock_SelfImports(t *testing.T) {
	ctx := context.Background()
	beaconDB := testDB.SetupDB(t)
	service := setupBeaconChain(t, beaconDB)

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	blk, err := util.GenerateFullBlock(genesisState, privKeys, util.DefaultBlockGenConfig(), 1)
	require.NoError(t, err)
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)

	require.NoError(t, service.SubmitBlock(ctx, blk))
	assert.Equal(t, true, beaconDB.HasBlock(ctx, root))
}

func TestSubmitAttestation_SavesToPoolAndNotifies(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	atts, err := util.GenerateAttestations(genesisState, privKeys, 1, 0, false)
	require.NoError(t, err)
	att := atts[0]

	events := make(chan *feed.Event, 1)
	sub := service.opNotifier.OperationFeed().Subscribe(events)
	defer sub.Unsubscribe()

	require.NoError(t, service.SubmitAttestation(ctx, att))

	assert.Equal(t, 1, service.attPool.ForkchoiceAttestationCount(), "Attestation was not saved for fork choice")
	select {
	case ev := <-events:
		require.Equal(t, opfeed.UnaggregatedAttReceived, int(ev.Type))
	default:
		t.Error("Expected an operation feed event")
	}
}

func TestSubmitSignedAggregateAndProof(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	genesisState, privKeys := util.DeterministicGenesisState(t, 64)
	require.NoError(t, service.initializeBeaconChain(ctx, genesisState))

	atts, err := util.GenerateAttestations(genesisState, privKeys, 1, 0, false)
	require.NoError(t, err)
	signed := &ethpb.SignedAggregateAttestationAndProof{
		Message: &ethpb.AggregateAttestationAndProof{
			AggregatorIndex: 0,
			Aggregate:       atts[0],
			SelectionProof:  make([]byte, 96),
		},
		Signature: make([]byte, 96),
	}

	events := make(chan *feed.Event, 1)
	sub := service.opNotifier.OperationFeed().Subscribe(events)
	defer sub.Unsubscribe()

	require.NoError(t, service.SubmitSignedAggregateAndProof(ctx, signed))

	assert.Equal(t, 1, service.attPool.AggregatedAttestationCount(), "Aggregate was not saved to the pool")
	select {
	case ev := <-events:
		require.Equal(t, opfeed.AggregatedAttReceived, int(ev.Type))
	default:
		t.Error("Expected an operation feed event")
	}
}

func TestBestAggregate_PicksMostBits(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	priv, err := bls.RandKey()
	require.NoError(t, err)
	sig := priv.Sign([]byte("dummy_test_data"))

	// Two unaggregated attestations share a bit pattern origin and merge into a
	// two-bit aggregate, the three-bit aggregate saved directly must win.
	unaggregated := []*ethpb.Attestation{
		util.HydrateAttestation(&ethpb.Attestation{Data: &ethpb.AttestationData{Slot: 1}, AggregationBits: bitfield.Bitlist{0b10001}, Signature: sig.Marshal()}),
		util.HydrateAttestation(&ethpb.Attestation{Data: &ethpb.AttestationData{Slot: 1}, AggregationBits: bitfield.Bitlist{0b10010}, Signature: sig.Marshal()}),
	}
	require.NoError(t, service.attPool.SaveUnaggregatedAttestations(unaggregated))
	best := util.HydrateAttestation(&ethpb.Attestation{Data: &ethpb.AttestationData{Slot: 1}, AggregationBits: bitfield.Bitlist{0b11101}, Signature: sig.Marshal()})
	require.NoError(t, service.attPool.SaveAggregatedAttestation(best))

	got, err := service.BestAggregate(ctx, 1, 0)
	require.NoError(t, err)
	assert.DeepEqual(t, bitfield.Bitlist{0b11101}, got.AggregationBits)
}

func TestBestAggregate_EmptyPool(t *testing.T) {
	ctx := context.Background()
	service := setupBeaconChain(t, testDB.SetupDB(t))

	_, err := service.BestAggregate(ctx, 1, 0)
	require.ErrorContains(t, "no attestations found to aggregate", err)
}
