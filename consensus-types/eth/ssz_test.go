package eth_test

import (
	"testing"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/container/trie"
	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/encoding/ssz"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
)

func TestCheckpoint_HashTreeRoot_Zero(t *testing.T) {
	cp := &ethpb.Checkpoint{Root: make([]byte, 32)}
	root, err := cp.HashTreeRoot()
	require.NoError(t, err)
	// Two zero chunks merkleize to the depth-1 zero hash.
	assert.Equal(t, trie.ZeroHashes[1], root)
}

func TestCheckpoint_HashTreeRoot_MatchesGenericSSZ(t *testing.T) {
	cp := &ethpb.Checkpoint{Epoch: 1234567890, Root: bytes()}
	root, err := cp.HashTreeRoot()
	require.NoError(t, err)
	generic, err := ssz.CheckpointRoot(hash.CustomSHA256Hasher(), cp)
	require.NoError(t, err)
	assert.Equal(t, generic, root)
}

func TestFork_HashTreeRoot_MatchesGenericSSZ(t *testing.T) {
	fork := &ethpb.Fork{
		PreviousVersion: []byte{1, 2, 3, 4},
		CurrentVersion:  []byte{5, 6, 7, 8},
		Epoch:           100,
	}
	root, err := fork.HashTreeRoot()
	require.NoError(t, err)
	generic, err := ssz.ForkRoot(fork)
	require.NoError(t, err)
	assert.Equal(t, generic, root)
}

func TestSignedBeaconBlock_HashTreeRoot_Deterministic(t *testing.T) {
	blk := genSignedBeaconBlock()
	r1, err := blk.HashTreeRoot()
	require.NoError(t, err)
	r2, err := blk.Copy().HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	// Any field change must move the root.
	blk.Block.Slot++
	r3, err := blk.HashTreeRoot()
	require.NoError(t, err)
	assert.NotEqual(t, r1, r3)
}

func TestAttestation_HashTreeRoot_EmptyBitsRejected(t *testing.T) {
	att := genAttestation()
	att.AggregationBits = nil
	_, err := att.HashTreeRoot()
	require.NotNil(t, err)
}

func TestBeaconBlockHeader_HashTreeRoot_MatchesBlock(t *testing.T) {
	blk := genBeaconBlock()
	bodyRoot, err := blk.Body.HashTreeRoot()
	require.NoError(t, err)
	header := &ethpb.BeaconBlockHeader{
		Slot:          blk.Slot,
		ProposerIndex: blk.ProposerIndex,
		ParentRoot:    blk.ParentRoot,
		StateRoot:     blk.StateRoot,
		BodyRoot:      bodyRoot[:],
	}
	blockRoot, err := blk.HashTreeRoot()
	require.NoError(t, err)
	headerRoot, err := header.HashTreeRoot()
	require.NoError(t, err)
	// A block and its header hash identically once the body is rooted.
	assert.Equal(t, blockRoot, headerRoot)
}
