package client

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
	logTest "github.com/sirupsen/logrus/hooks/test"
)

func bestAggregateForTest(slot types.Slot, committeeIndex types.CommitteeIndex) *ethpb.Attestation {
	return &ethpb.Attestation{
		AggregationBits: bitfield.Bitlist{0b1101},
		Data: &ethpb.AttestationData{
			Slot:            slot,
			CommitteeIndex:  committeeIndex,
			BeaconBlockRoot: make([]byte, 32),
			Source:          &ethpb.Checkpoint{Root: make([]byte, 32)},
			Target:          &ethpb.Checkpoint{Root: make([]byte, 32)},
		},
		Signature: make([]byte, 96),
	}
}

func TestSubmitAggregateAndProof_OK(t *testing.T) {
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)
	// A committee of one always selects the validator as aggregator.
	setDuty(v, keys[0], &duties.Duty{
		ValidatorIndex: 5,
		Committee:      []types.ValidatorIndex{5},
		CommitteeIndex: 1,
		AttesterSlot:   2,
	})
	chain.BestAggregateAtt = bestAggregateForTest(2, 1)

	v.SubmitAggregateAndProof(ctx, 2, keys[0])

	require.Equal(t, 1, len(chain.SubmittedAggregates))
	msg := chain.SubmittedAggregates[0].Message
	assert.Equal(t, types.ValidatorIndex(5), msg.AggregatorIndex)
	assert.DeepEqual(t, chain.BestAggregateAtt, msg.Aggregate)
	assert.Equal(t, 96, len(msg.SelectionProof))
	assert.Equal(t, 96, len(chain.SubmittedAggregates[0].Signature))
}

func TestSubmitAggregateAndProof_DeduplicatesSlotAndCommittee(t *testing.T) {
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)
	setDuty(v, keys[0], &duties.Duty{
		ValidatorIndex: 5,
		Committee:      []types.ValidatorIndex{5},
		CommitteeIndex: 1,
		AttesterSlot:   2,
	})
	chain.BestAggregateAtt = bestAggregateForTest(2, 1)

	v.SubmitAggregateAndProof(ctx, 2, keys[0])
	v.SubmitAggregateAndProof(ctx, 2, keys[0])

	assert.Equal(t, 1, len(chain.SubmittedAggregates))
}

func TestSubmitAggregateAndProof_EmptyPool(t *testing.T) {
	hook := logTest.NewGlobal()
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)
	setDuty(v, keys[0], &duties.Duty{
		ValidatorIndex: 5,
		Committee:      []types.ValidatorIndex{5},
		CommitteeIndex: 1,
		AttesterSlot:   2,
	})

	v.SubmitAggregateAndProof(ctx, 2, keys[0])

	require.LogsContain(t, hook, "Could not get best aggregate from attestation pool")
	assert.Equal(t, 0, len(chain.SubmittedAggregates))
}

func TestSubmitAggregateAndProof_NoDuty(t *testing.T) {
	hook := logTest.NewGlobal()
	ctx := context.Background()
	v, chain, keys := setupValidator(t, 1)

	v.SubmitAggregateAndProof(ctx, 2, keys[0])

	require.LogsContain(t, hook, "Could not fetch validator assignment")
	assert.Equal(t, 0, len(chain.SubmittedAggregates))
}
