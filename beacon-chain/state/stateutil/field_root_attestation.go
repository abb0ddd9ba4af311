package stateutil

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	fieldparams "github.com/pharoslabs/pharos/config/fieldparams"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/encoding/ssz"
)

// EpochAttestationsRoot computes the HashTreeRoot Merkleization of
// a list of pending attestation structs according to the Ethereum
// Simple Serialize specification.
func EpochAttestationsRoot(atts []*ethpb.PendingAttestation) ([32]byte, error) {
	max := uint64(fieldparams.CurrentEpochAttestationsLength)
	if uint64(len(atts)) > max {
		return [32]byte{}, fmt.Errorf("epoch attestation exceeds max length %d", max)
	}

	hasher := hash.CustomSHA256Hasher()
	roots := make([][]byte, len(atts))
	for i := 0; i < len(atts); i++ {
		pendingRoot, err := PendingAttRootWithHasher(hasher, atts[i])
		if err != nil {
			return [32]byte{}, errors.Wrap(err, "could not compute pending attestation merkleization")
		}
		roots[i] = pendingRoot[:]
	}

	attsRootsRoot, err := ssz.BitwiseMerkleize(
		hasher,
		roots,
		uint64(len(roots)),
		fieldparams.CurrentEpochAttestationsLength,
	)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute epoch attestations merkleization")
	}
	attsLenBuf := new(bytes.Buffer)
	if err := binary.Write(attsLenBuf, binary.LittleEndian, uint64(len(atts))); err != nil {
		return [32]byte{}, errors.Wrap(err, "could not marshal epoch attestations length")
	}
	// We need to mix in the length of the slice.
	attsLenRoot := make([]byte, 32)
	copy(attsLenRoot, attsLenBuf.Bytes())
	return ssz.MixInLength(attsRootsRoot, attsLenRoot), nil
}
