package v1

import (
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
)

// SetEth1Data for the beacon state.
func (b *BeaconState) SetEth1Data(val *ethpb.Eth1Data) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Eth1Data = val.Copy()
	return nil
}

// SetEth1DataVotes for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetEth1DataVotes(val []*ethpb.Eth1Data) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	votes := make([]*ethpb.Eth1Data, len(val))
	for i := 0; i < len(votes); i++ {
		votes[i] = val[i].Copy()
	}
	b.state.Eth1DataVotes = votes
	return nil
}

// AppendEth1DataVotes for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendEth1DataVotes(val *ethpb.Eth1Data) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Eth1DataVotes = append(b.state.Eth1DataVotes, val.Copy())
	return nil
}

// SetEth1DepositIndex for the beacon state.
func (b *BeaconState) SetEth1DepositIndex(val uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Eth1DepositIndex = val
	return nil
}
