package stateutil_test

import (
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/state/stateutil"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
)

func TestValidatorRootWithHasher(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	val := &ethpb.Validator{
		PublicKey:                  bytesutil.PadTo([]byte("pubkey"), 48),
		WithdrawalCredentials:      bytesutil.PadTo([]byte("withdrawalcreds"), 32),
		EffectiveBalance:           params.BeaconConfig().MaxEffectiveBalance,
		Slashed:                    true,
		ActivationEligibilityEpoch: 2,
		ActivationEpoch:            3,
		ExitEpoch:                  4,
		WithdrawableEpoch:          5,
	}
	root, err := stateutil.ValidatorRootWithHasher(hasher, val)
	require.NoError(t, err)
	genericRoot, err := val.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, genericRoot, root)
}

func TestValidatorRootWithHasher_NilValidator(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	_, err := stateutil.ValidatorRootWithHasher(hasher, nil)
	require.ErrorContains(t, "nil validator", err)
}

func TestEth1Root(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	eth1Data := &ethpb.Eth1Data{
		DepositRoot:  bytesutil.PadTo([]byte("depositroot"), 32),
		DepositCount: 100,
		BlockHash:    bytesutil.PadTo([]byte("blockhash"), 32),
	}
	root, err := stateutil.Eth1Root(hasher, eth1Data)
	require.NoError(t, err)
	genericRoot, err := eth1Data.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, genericRoot, root)
}

func TestEth1Root_NilData(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	_, err := stateutil.Eth1Root(hasher, nil)
	require.ErrorContains(t, "nil eth1 data", err)
}

func TestBlockHeaderRoot(t *testing.T) {
	header := &ethpb.BeaconBlockHeader{
		Slot:          10,
		ProposerIndex: 3,
		ParentRoot:    bytesutil.PadTo([]byte("parentroot"), 32),
		StateRoot:     bytesutil.PadTo([]byte("stateroot"), 32),
		BodyRoot:      bytesutil.PadTo([]byte("bodyroot"), 32),
	}
	root, err := stateutil.BlockHeaderRoot(header)
	require.NoError(t, err)
	genericRoot, err := header.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, genericRoot, root)
}

func TestPendingAttRootWithHasher(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	bits := bitfield.NewBitlist(128)
	bits.SetBitAt(5, true)
	bits.SetBitAt(100, true)
	att := &ethpb.PendingAttestation{
		AggregationBits: bits,
		Data: &ethpb.AttestationData{
			Slot:            5,
			CommitteeIndex:  2,
			BeaconBlockRoot: bytesutil.PadTo([]byte("beaconblockroot"), 32),
			Source: &ethpb.Checkpoint{
				Epoch: 0,
				Root:  bytesutil.PadTo([]byte("sourceroot"), 32),
			},
			Target: &ethpb.Checkpoint{
				Epoch: 1,
				Root:  bytesutil.PadTo([]byte("targetroot"), 32),
			},
		},
		InclusionDelay: 1,
		ProposerIndex:  4,
	}
	root, err := stateutil.PendingAttRootWithHasher(hasher, att)
	require.NoError(t, err)
	genericRoot, err := att.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, genericRoot, root)
}

func TestArraysRoot(t *testing.T) {
	l0 := bytesutil.ToBytes32([]byte("first"))
	l1 := bytesutil.ToBytes32([]byte("second"))
	root, err := stateutil.ArraysRoot([][]byte{l0[:], l1[:]}, 2)
	require.NoError(t, err)
	want := hash.Hash(append(l0[:], l1[:]...))
	assert.Equal(t, want, root)
}

func TestArraysRoot_PadsToLength(t *testing.T) {
	l0 := bytesutil.ToBytes32([]byte("first"))
	l1 := bytesutil.ToBytes32([]byte("second"))
	zero := [32]byte{}

	left := hash.Hash(append(l0[:], l1[:]...))
	right := hash.Hash(append(zero[:], zero[:]...))
	want := hash.Hash(append(left[:], right[:]...))

	root, err := stateutil.ArraysRoot([][]byte{l0[:], l1[:]}, 4)
	require.NoError(t, err)
	assert.Equal(t, want, root)
}

func TestValidatorIndexMap(t *testing.T) {
	vals := []*ethpb.Validator{
		{PublicKey: bytesutil.PadTo([]byte{'A'}, 48)},
		{PublicKey: bytesutil.PadTo([]byte{'B'}, 48)},
		nil,
		{PublicKey: bytesutil.PadTo([]byte{'C'}, 48)},
	}
	m := stateutil.ValidatorIndexMap(vals)
	assert.Equal(t, 3, len(m))
	idx, ok := m[bytesutil.ToBytes48(bytesutil.PadTo([]byte{'B'}, 48))]
	require.Equal(t, true, ok)
	assert.Equal(t, types.ValidatorIndex(1), idx)
}

func TestValMapHandler_Copy(t *testing.T) {
	vals := []*ethpb.Validator{
		{PublicKey: bytesutil.PadTo([]byte{'A'}, 48)},
	}
	handler := stateutil.NewValMapHandler(vals)
	nHandler := handler.Copy()
	require.Equal(t, false, nHandler.IsNil())

	newKey := bytesutil.ToBytes48(bytesutil.PadTo([]byte{'Z'}, 48))
	nHandler.ValidatorIndexMap()[newKey] = types.ValidatorIndex(100)

	_, ok := handler.ValidatorIndexMap()[newKey]
	assert.Equal(t, false, ok)
}
