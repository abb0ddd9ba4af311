package v1

import (
	"fmt"

	"github.com/pharoslabs/pharos/encoding/bytesutil"
)

// SetRandaoMixes for the beacon state. Updates the entire
// randao mixes to a new value by overwriting the previous one.
func (b *BeaconState) SetRandaoMixes(val [][]byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.RandaoMixes = bytesutil.SafeCopy2dBytes(val)
	return nil
}

// UpdateRandaoMixesAtIndex for the beacon state. Updates the randao mixes
// at a specific index to a new value.
func (b *BeaconState) UpdateRandaoMixesAtIndex(idx uint64, val []byte) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}
	if uint64(len(b.state.RandaoMixes)) <= idx {
		return fmt.Errorf("invalid index provided %d", idx)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.RandaoMixes[idx] = bytesutil.SafeCopyBytes(val)
	return nil
}
