package v1

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/beacon-chain/state/stateutil"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/encoding/ssz"
	"go.opencensus.io/trace"
)

// InitializeFromProto the beacon state from a protobuf representation.
func InitializeFromProto(st *ethpb.BeaconState) (*BeaconState, error) {
	return InitializeFromProtoUnsafe(st.Copy())
}

// InitializeFromProtoUnsafe directly uses the beacon state protobuf object, without copying,
// and sets it as the inner state of the BeaconState type.
func InitializeFromProtoUnsafe(st *ethpb.BeaconState) (*BeaconState, error) {
	if st == nil {
		return nil, errors.New("received nil state")
	}

	b := &BeaconState{
		state:         st,
		valMapHandler: stateutil.NewValMapHandler(st.Validators),
	}
	return b, nil
}

// Copy returns a deep copy of the beacon state.
func (b *BeaconState) Copy() state.BeaconState {
	if !b.hasInnerState() {
		return nil
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	return &BeaconState{
		state:         b.state.Copy(),
		valMapHandler: b.valMapHandler.Copy(),
	}
}

// HashTreeRoot of the beacon state retrieves the Merkle root of the trie
// representation of the beacon state based on the Ethereum Simple Serialize specification.
func (b *BeaconState) HashTreeRoot(ctx context.Context) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "beaconState.HashTreeRoot")
	defer span.End()

	if !b.hasInnerState() {
		return [32]byte{}, ErrNilInnerState
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	fieldRoots, err := computeFieldRoots(ctx, b.state)
	if err != nil {
		return [32]byte{}, err
	}
	return ssz.BitwiseMerkleize(hash.CustomSHA256Hasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}
