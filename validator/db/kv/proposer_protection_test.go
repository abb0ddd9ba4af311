package kv

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	types "github.com/prysmaticlabs/eth2-types"
)

func TestProposalHistoryForSlot_InitializesNewPubKeys(t *testing.T) {
	pubKeys := [][48]byte{{30}, {25}, {20}}
	db := setupDB(t, pubKeys)

	for _, pub := range pubKeys {
		signingRoot, proposalExists, err := db.ProposalHistoryForSlot(context.Background(), pub, 0)
		require.NoError(t, err)
		assert.Equal(t, false, proposalExists)
		assert.Equal(t, [32]byte{}, signingRoot)
	}
}

func TestSaveProposalHistoryForSlot_ReadAndWrite(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{3}
	db := setupDB(t, [][48]byte{pubKey})

	slot := types.Slot(2)
	root := [32]byte{1}
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, slot, root[:]))

	signingRoot, proposalExists, err := db.ProposalHistoryForSlot(ctx, pubKey, slot)
	require.NoError(t, err)
	require.Equal(t, true, proposalExists)
	assert.Equal(t, root, signingRoot)

	// A different slot has no proposal recorded.
	_, proposalExists, err = db.ProposalHistoryForSlot(ctx, pubKey, slot+1)
	require.NoError(t, err)
	assert.Equal(t, false, proposalExists)
}

func TestSlashableProposalCheck_RejectsDoubleProposal(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{3}
	db := setupDB(t, [][48]byte{pubKey})

	require.NoError(t, db.SlashableProposalCheck(ctx, pubKey, 5, [32]byte{1}))

	// Same slot and signing root passes, a re-sign of the same block.
	require.NoError(t, db.SlashableProposalCheck(ctx, pubKey, 5, [32]byte{1}))

	// Same slot with a different signing root is a double proposal.
	err := db.SlashableProposalCheck(ctx, pubKey, 5, [32]byte{2})
	require.ErrorContains(t, "double proposal", err)

	// The original record survives.
	signingRoot, proposalExists, err := db.ProposalHistoryForSlot(ctx, pubKey, 5)
	require.NoError(t, err)
	require.Equal(t, true, proposalExists)
	assert.Equal(t, [32]byte{1}, signingRoot)
}

func TestLowestAndHighestSignedProposal(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{3}
	db := setupDB(t, [][48]byte{pubKey})

	_, exists, err := db.LowestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, false, exists)
	_, exists, err = db.HighestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, false, exists)

	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, 5, []byte{1}))
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, 3, []byte{2}))
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, 9, []byte{3}))

	lowest, exists, err := db.LowestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, types.Slot(3), lowest)

	highest, exists, err := db.HighestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, types.Slot(9), highest)
}

func TestProposalHistoryForPubKey_ReturnsAllSlots(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{3}
	db := setupDB(t, [][48]byte{pubKey})

	proposals, err := db.ProposalHistoryForPubKey(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, 0, len(proposals))

	root1 := [32]byte{1}
	root2 := [32]byte{2}
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, 1, root1[:]))
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, 5, root2[:]))

	proposals, err = db.ProposalHistoryForPubKey(ctx, pubKey)
	require.NoError(t, err)
	wanted := []*Proposal{
		{Slot: 1, SigningRoot: root1[:]},
		{Slot: 5, SigningRoot: root2[:]},
	}
	assert.DeepEqual(t, wanted, proposals)
}

func TestProposedPublicKeys(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{9}
	db := setupDB(t, [][48]byte{pubKey})

	keys, err := db.ProposedPublicKeys(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, [][48]byte{pubKey}, keys)
}

func TestPruneProposalHistoryBySlot(t *testing.T) {
	ctx := context.Background()
	pubKey := [48]byte{3}
	db := setupDB(t, [][48]byte{pubKey})

	// A proposal at slot 0 followed by one beyond the weak subjectivity
	// horizon prunes the old record.
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, 0, []byte{1}))

	wsPeriod := uint64(54000)
	slotsPerEpoch := uint64(32)
	farSlot := types.Slot((wsPeriod + 1) * slotsPerEpoch)
	require.NoError(t, db.SaveProposalHistoryForSlot(ctx, pubKey, farSlot, []byte{2}))

	_, proposalExists, err := db.ProposalHistoryForSlot(ctx, pubKey, 0)
	require.NoError(t, err)
	assert.Equal(t, false, proposalExists, "Expected stale proposal to be pruned")

	_, proposalExists, err = db.ProposalHistoryForSlot(ctx, pubKey, farSlot)
	require.NoError(t, err)
	assert.Equal(t, true, proposalExists)
}
