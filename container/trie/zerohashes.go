package trie

import (
	"github.com/pharoslabs/pharos/crypto/hash"
)

// ZeroHashes is a representation of all the zero hashes of every depth till depth 64.
var ZeroHashes [][32]byte

func init() {
	ZeroHashes = make([][32]byte, 65)
	for i := 0; i < 64; i++ {
		ZeroHashes[i+1] = hash.Hash(append(ZeroHashes[i][:], ZeroHashes[i][:]...))
	}
}
