package v1

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/beacon-chain/state/stateutil"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
)

// Ensure type BeaconState below implements BeaconState interface.
var _ state.BeaconState = (*BeaconState)(nil)

// ErrNilInnerState returns when the inner state is nil and no copy set or get
// operations can be performed on state.
var ErrNilInnerState = errors.New("nil inner state")

// BeaconState defines a struct containing utilities for the Ethereum Beacon Chain state, defining
// getters and setters for its respective values and helpful functions such as HashTreeRoot().
type BeaconState struct {
	state         *ethpb.BeaconState
	lock          sync.RWMutex
	valMapHandler *stateutil.ValidatorMapHandler
}
