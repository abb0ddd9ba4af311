// Package trie implements the sparse Merkle trie used for the deposit
// contract root and proofs of inclusion against it.
package trie

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/math"
)

// SparseMerkleTrie is a fixed-depth Merkle trie where absent subtrees are
// represented by precomputed zero hashes.
type SparseMerkleTrie struct {
	depth         uint
	branches      [][][]byte
	originalItems [][]byte // items as provided, before leaf packing.
}

// NewTrie returns an empty trie of the given depth, seeded with a single
// zero leaf.
func NewTrie(depth uint64) (*SparseMerkleTrie, error) {
	var zeroBytes [32]byte
	return GenerateTrieFromItems([][]byte{zeroBytes[:]}, depth)
}

// GenerateTrieFromItems builds a trie of the given depth over the items.
func GenerateTrieFromItems(items [][]byte, depth uint64) (*SparseMerkleTrie, error) {
	if len(items) == 0 {
		return nil, errors.New("no items provided to generate Merkle trie")
	}
	if depth >= 64 {
		return nil, errors.New("depth exceeds 64") // PowerOf2 would overflow.
	}
	layers := make([][][]byte, depth+1)
	layers[0] = make([][]byte, len(items))
	for i := range items {
		leaf := bytesutil.ToBytes32(items[i])
		layers[0][i] = leaf[:]
	}
	for i := uint64(0); i < depth; i++ {
		if len(layers[i])%2 == 1 {
			layers[i] = append(layers[i], ZeroHashes[i][:])
		}
		parents := make([][]byte, 0, len(layers[i])/2)
		for j := 0; j < len(layers[i]); j += 2 {
			parent := hash.Hash(append(layers[i][j], layers[i][j+1]...))
			parents = append(parents, parent[:])
		}
		layers[i+1] = parents
	}
	return &SparseMerkleTrie{
		depth:         uint(depth),
		branches:      layers,
		originalItems: items,
	}, nil
}

// Items returns the original items the trie was built over.
func (m *SparseMerkleTrie) Items() [][]byte {
	return m.originalItems
}

// HashTreeRoot mixes the item count into the trie root the way the deposit
// contract does:
//  sha256(concat(node, self.to_little_endian_64(self.deposit_count), slice(zero_bytes32, start=0, len=24)))
func (m *SparseMerkleTrie) HashTreeRoot() ([32]byte, error) {
	enc := [32]byte{}
	binary.LittleEndian.PutUint64(enc[:], uint64(m.NumOfItems()))
	return hash.Hash(append(m.branches[len(m.branches)-1][0], enc[:]...)), nil
}

// Insert places an item at the given leaf index and recomputes the branch
// up to the root.
func (m *SparseMerkleTrie) Insert(item []byte, index int) error {
	if index < 0 {
		return errors.Errorf("negative index provided: %d", index)
	}
	for index >= len(m.branches[0]) {
		m.branches[0] = append(m.branches[0], ZeroHashes[0][:])
	}
	leaf := bytesutil.ToBytes32(item)
	m.branches[0][index] = leaf[:]
	if index >= len(m.originalItems) {
		m.originalItems = append(m.originalItems, leaf[:])
	} else {
		m.originalItems[index] = leaf[:]
	}

	node := leaf
	currentIndex := index
	for i := 0; i < int(m.depth); i++ {
		neighborIdx := currentIndex ^ 1
		neighbor := ZeroHashes[i][:]
		if neighborIdx < len(m.branches[i]) {
			neighbor = m.branches[i][neighborIdx]
		}
		if currentIndex%2 == 0 {
			node = hash.Hash(append(node[:], neighbor...))
		} else {
			node = hash.Hash(append(neighbor, node[:]...))
		}
		parentIdx := currentIndex / 2
		if parentIdx >= len(m.branches[i+1]) {
			parent := node
			m.branches[i+1] = append(m.branches[i+1], parent[:])
		} else {
			parent := node
			m.branches[i+1][parentIdx] = parent[:]
		}
		currentIndex = parentIdx
	}
	return nil
}

// MerkleProof returns the inclusion branch for the leaf at the given index,
// with the length mix-in as the final proof element.
func (m *SparseMerkleTrie) MerkleProof(index int) ([][]byte, error) {
	if index < 0 {
		return nil, errors.Errorf("merkle index is negative: %d", index)
	}
	leaves := m.branches[0]
	if index >= len(leaves) {
		return nil, errors.Errorf("merkle index out of range in trie, max range: %d, received: %d", len(leaves), index)
	}
	proof := make([][]byte, m.depth+1)
	for i := uint(0); i < m.depth; i++ {
		subIndex := (uint(index) / (1 << i)) ^ 1
		if subIndex < uint(len(m.branches[i])) {
			item := bytesutil.ToBytes32(m.branches[i][subIndex])
			proof[i] = item[:]
		} else {
			proof[i] = ZeroHashes[i][:]
		}
	}
	enc := [32]byte{}
	binary.LittleEndian.PutUint64(enc[:], uint64(len(m.originalItems)))
	proof[len(proof)-1] = enc[:]
	return proof, nil
}

// VerifyMerkleProofWithDepth checks an inclusion branch of the given depth
// against the trie root.
func VerifyMerkleProofWithDepth(root, item []byte, merkleIndex uint64, proof [][]byte, depth uint64) bool {
	if uint64(len(proof)) != depth+1 {
		return false
	}
	if depth >= 64 {
		return false // PowerOf2 would overflow.
	}
	node := bytesutil.ToBytes32(item)
	for i := uint64(0); i <= depth; i++ {
		if (merkleIndex / math.PowerOf2(i) % 2) != 0 {
			node = hash.Hash(append(proof[i], node[:]...))
		} else {
			node = hash.Hash(append(node[:], proof[i]...))
		}
	}
	return bytes.Equal(root, node[:])
}

// VerifyMerkleProof checks an inclusion branch whose depth is implied by the
// proof length.
func VerifyMerkleProof(root, item []byte, merkleIndex uint64, proof [][]byte) bool {
	if len(proof) == 0 {
		return false
	}
	return VerifyMerkleProofWithDepth(root, item, merkleIndex, proof, uint64(len(proof)-1))
}

// Copy returns a deep copy of the trie.
func (m *SparseMerkleTrie) Copy() *SparseMerkleTrie {
	branches := make([][][]byte, len(m.branches))
	for i, layer := range m.branches {
		branches[i] = bytesutil.SafeCopy2dBytes(layer)
	}
	return &SparseMerkleTrie{
		depth:         m.depth,
		branches:      branches,
		originalItems: bytesutil.SafeCopy2dBytes(m.originalItems),
	}
}

// NumOfItems returns the number of stored items, treating a lone zero leaf
// as an empty trie.
func (m *SparseMerkleTrie) NumOfItems() int {
	var zeroBytes [32]byte
	if len(m.originalItems) == 1 && bytes.Equal(m.originalItems[0], zeroBytes[:]) {
		return 0
	}
	return len(m.originalItems)
}
