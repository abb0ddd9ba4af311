package v1

import (
	"fmt"

	fieldparams "github.com/pharoslabs/pharos/config/fieldparams"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
)

// RotateAttestations sets the previous epoch attestations to the current epoch attestations and
// then clears the current epoch attestations.
func (b *BeaconState) RotateAttestations() error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.PreviousEpochAttestations = b.state.CurrentEpochAttestations
	b.state.CurrentEpochAttestations = []*ethpb.PendingAttestation{}
	return nil
}

// SetPreviousEpochAttestations for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetPreviousEpochAttestations(val []*ethpb.PendingAttestation) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.PreviousEpochAttestations = val
	return nil
}

// SetCurrentEpochAttestations for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetCurrentEpochAttestations(val []*ethpb.PendingAttestation) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.CurrentEpochAttestations = val
	return nil
}

// AppendPreviousEpochAttestations for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendPreviousEpochAttestations(val *ethpb.PendingAttestation) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	atts := b.state.PreviousEpochAttestations
	max := uint64(fieldparams.PreviousEpochAttestationsLength)
	if uint64(len(atts)) >= max {
		return fmt.Errorf("previous pending attestation exceeds max length %d", max)
	}

	b.state.PreviousEpochAttestations = append(atts, val)
	return nil
}

// AppendCurrentEpochAttestations for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendCurrentEpochAttestations(val *ethpb.PendingAttestation) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	atts := b.state.CurrentEpochAttestations
	max := uint64(fieldparams.CurrentEpochAttestationsLength)
	if uint64(len(atts)) >= max {
		return fmt.Errorf("current pending attestation exceeds max length %d", max)
	}

	b.state.CurrentEpochAttestations = append(atts, val)
	return nil
}
