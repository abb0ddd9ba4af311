package v1

import (
	"fmt"

	types "github.com/prysmaticlabs/eth2-types"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
)

// SetGenesisTime for the beacon state.
func (b *BeaconState) SetGenesisTime(val uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.GenesisTime = val
	return nil
}

// SetGenesisValidatorsRoot for the beacon state.
func (b *BeaconState) SetGenesisValidatorsRoot(val []byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.GenesisValidatorsRoot = bytesutil.SafeCopyBytes(val)
	return nil
}

// SetSlot for the beacon state.
func (b *BeaconState) SetSlot(val types.Slot) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Slot = val
	return nil
}

// SetFork version for the beacon chain.
func (b *BeaconState) SetFork(val *ethpb.Fork) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Fork = val.Copy()
	return nil
}

// SetLatestBlockHeader in the beacon state.
func (b *BeaconState) SetLatestBlockHeader(val *ethpb.BeaconBlockHeader) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.LatestBlockHeader = val.Copy()
	return nil
}

// SetBlockRoots for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetBlockRoots(val [][]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.BlockRoots = bytesutil.SafeCopy2dBytes(val)
	return nil
}

// UpdateBlockRootAtIndex for the beacon state. Updates the block root
// at a specific index to a new value.
func (b *BeaconState) UpdateBlockRootAtIndex(idx uint64, blockRoot [32]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}
	if uint64(len(b.state.BlockRoots)) <= idx {
		return fmt.Errorf("invalid index provided %d", idx)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.BlockRoots[idx] = blockRoot[:]
	return nil
}

// SetStateRoots for the beacon state. Updates the state roots
// to a new value by overwriting the previous one.
func (b *BeaconState) SetStateRoots(val [][]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.StateRoots = bytesutil.SafeCopy2dBytes(val)
	return nil
}

// UpdateStateRootAtIndex to the beacon state. This PR updates the randao mixes
// at a specific index to a new value.
func (b *BeaconState) UpdateStateRootAtIndex(idx uint64, stateRoot [32]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}
	if uint64(len(b.state.StateRoots)) <= idx {
		return fmt.Errorf("invalid index provided %d", idx)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.StateRoots[idx] = stateRoot[:]
	return nil
}

// SetHistoricalRoots for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetHistoricalRoots(val [][]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.HistoricalRoots = bytesutil.SafeCopy2dBytes(val)
	return nil
}

// AppendHistoricalRoots for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendHistoricalRoots(root [32]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.HistoricalRoots = append(b.state.HistoricalRoots, root[:])
	return nil
}
