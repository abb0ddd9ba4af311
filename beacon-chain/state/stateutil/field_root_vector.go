// Package stateutil defines utility functions to compute the hash tree
// roots of the individual fields that make up the beacon state.
package stateutil

import (
	"github.com/pharoslabs/pharos/encoding/ssz"
)

// ArraysRoot computes the Merkle root of a fixed size root vector such
// as the state's block roots, state roots, or randao mixes.
func ArraysRoot(input [][]byte, length uint64) ([32]byte, error) {
	leaves := make([][32]byte, length)
	for i, chunk := range input {
		copy(leaves[i][:], chunk)
	}
	return ssz.MerkleizeVector(leaves, length), nil
}
