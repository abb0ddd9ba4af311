// Package utils provides hierarchical key derivation for BLS12-381
// secret keys following EIP-2333 and the EIP-2334 path format. It is
// a thin wrapper over the wealdtech HD key library so that derived
// keymanagers and account recovery share a single, well-tested
// derivation routine.
package utils

import (
	"math/big"

	e2types "github.com/wealdtech/go-eth2-types/v2"
	util "github.com/wealdtech/go-eth2-util"
)

// PrivateKeyFromSeedAndPath derives the BLS secret key for an
// EIP-2334 path such as m/12381/3600/0/0 from the given seed.
func PrivateKeyFromSeedAndPath(seed []byte, path string) (*e2types.BLSPrivateKey, error) {
	return util.PrivateKeyFromSeedAndPath(seed, path)
}

// DeriveMasterSK derives the EIP-2333 master secret key from a seed.
// The seed must be at least 128 bits.
func DeriveMasterSK(seed []byte) (*big.Int, error) {
	return util.DeriveMasterSK(seed)
}

// DeriveChildSK derives the child secret key at the given index from
// a parent secret key.
func DeriveChildSK(parentSK *big.Int, index uint32) (*big.Int, error) {
	return util.DeriveChildSK(parentSK, index)
}
