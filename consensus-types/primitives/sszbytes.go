package types

import (
	fssz "github.com/ferranbt/fastssz"
)

var _ fssz.HashRoot = (*SSZBytes)(nil)

// SSZBytes is a bytes slice with an ssz hash tree root.
type SSZBytes []byte

// HashTreeRoot returns the hash tree root of the bytes.
func (b *SSZBytes) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith hashes the bytes with the given hasher.
func (b *SSZBytes) HashTreeRootWith(hh *fssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(*b)
	hh.Merkleize(indx)
	return nil
}
