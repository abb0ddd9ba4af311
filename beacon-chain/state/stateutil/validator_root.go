package stateutil

import (
	"encoding/binary"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/encoding/ssz"
	"github.com/pkg/errors"
)

// ValidatorRootWithHasher computes the HashTreeRoot Merkleization of
// a Validator struct according to the Ethereum
// Simple Serialize specification.
func ValidatorRootWithHasher(hasher ssz.HashFn, validator *ethpb.Validator) ([32]byte, error) {
	if validator == nil {
		return [32]byte{}, errors.New("nil validator")
	}

	pubkey := bytesutil.ToBytes48(validator.PublicKey)
	withdrawCreds := bytesutil.ToBytes32(validator.WithdrawalCredentials)
	effectiveBalanceBuf := [32]byte{}
	binary.LittleEndian.PutUint64(effectiveBalanceBuf[:8], validator.EffectiveBalance)
	// Slashed.
	slashBuf := [32]byte{}
	if validator.Slashed {
		slashBuf[0] = uint8(1)
	} else {
		slashBuf[0] = uint8(0)
	}
	activationEligibilityBuf := [32]byte{}
	binary.LittleEndian.PutUint64(activationEligibilityBuf[:8], uint64(validator.ActivationEligibilityEpoch))

	activationBuf := [32]byte{}
	binary.LittleEndian.PutUint64(activationBuf[:8], uint64(validator.ActivationEpoch))

	exitBuf := [32]byte{}
	binary.LittleEndian.PutUint64(exitBuf[:8], uint64(validator.ExitEpoch))

	withdrawalBuf := [32]byte{}
	binary.LittleEndian.PutUint64(withdrawalBuf[:8], uint64(validator.WithdrawableEpoch))

	// Public key.
	pubKeyChunks, err := ssz.Pack([][]byte{pubkey[:]})
	if err != nil {
		return [32]byte{}, err
	}
	pubKeyRoot, err := ssz.BitwiseMerkleize(hasher, pubKeyChunks, uint64(len(pubKeyChunks)), uint64(len(pubKeyChunks)))
	if err != nil {
		return [32]byte{}, err
	}

	fieldRoots := [][]byte{
		pubKeyRoot[:],
		withdrawCreds[:],
		effectiveBalanceBuf[:],
		slashBuf[:],
		activationEligibilityBuf[:],
		activationBuf[:],
		exitBuf[:],
		withdrawalBuf[:],
	}
	return ssz.BitwiseMerkleize(hasher, fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}
