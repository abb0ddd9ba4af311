package trie_test

import (
	"testing"

	"github.com/pharoslabs/pharos/container/trie"
	"github.com/pharoslabs/pharos/testing/require"
)

func FuzzSparseMerkleTrie_VerifyProof(f *testing.F) {
	f.Add([]byte("buzz"), uint8(3))
	f.Add([]byte("A"), uint8(0))

	f.Fuzz(func(t *testing.T, item []byte, index uint8) {
		items := [][]byte{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
		depth := uint64(16)
		m, err := trie.GenerateTrieFromItems(items, depth)
		require.NoError(t, err)
		idx := int(index)
		require.NoError(t, m.Insert(item, idx))
		proof, err := m.MerkleProof(idx)
		require.NoError(t, err)
		root, err := m.HashTreeRoot()
		require.NoError(t, err)
		if !trie.VerifyMerkleProofWithDepth(root[:], item, uint64(idx), proof, depth) {
			t.Error("Merkle proof did not verify")
		}
	})
}
