package protoarray

import (
	"context"
	"encoding/binary"

	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/crypto/hash"
	types "github.com/prysmaticlabs/eth2-types"
)

// Returns a fork choice with the genesis node inserted.
func setup(justifiedEpoch, finalizedEpoch types.Epoch) *ForkChoice {
	f := New(justifiedEpoch, finalizedEpoch, params.BeaconConfig().ZeroHash)
	if err := f.ProcessBlock(context.Background(), 0, params.BeaconConfig().ZeroHash, [32]byte{}, justifiedEpoch, finalizedEpoch); err != nil {
		panic(err)
	}
	return f
}

// Returns a unique block root derived from the input index.
func indexToHash(i uint64) [32]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], i)
	return hash.Hash(b[:])
}
