package v1

import (
	"fmt"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/pharoslabs/pharos/beacon-chain/state/stateutil"
	fieldparams "github.com/pharoslabs/pharos/config/fieldparams"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
)

// SetValidators for the beacon state. Updates the entire
// to a new value by overwriting the previous one.
func (b *BeaconState) SetValidators(val []*ethpb.Validator) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	vals := make([]*ethpb.Validator, len(val))
	for i := 0; i < len(vals); i++ {
		vals[i] = val[i].Copy()
	}
	b.state.Validators = vals
	b.valMapHandler = stateutil.NewValMapHandler(b.state.Validators)
	return nil
}

// ApplyToEveryValidator applies the provided callback function to each validator in the
// validator registry.
func (b *BeaconState) ApplyToEveryValidator(f func(idx int, val *ethpb.Validator) (bool, *ethpb.Validator, error)) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	for i, val := range b.state.Validators {
		changed, newVal, err := f(i, val)
		if err != nil {
			return err
		}
		if changed {
			b.state.Validators[i] = newVal
		}
	}
	return nil
}

// UpdateValidatorAtIndex for the beacon state. Updates the validator
// at a specific index to a new value.
func (b *BeaconState) UpdateValidatorAtIndex(idx types.ValidatorIndex, val *ethpb.Validator) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}
	if uint64(len(b.state.Validators)) <= uint64(idx) {
		return fmt.Errorf("invalid index provided %d", idx)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Validators[idx] = val.Copy()
	return nil
}

// SetValidatorIndexByPubkey updates the validator index mapping maintained internally to
// a given input 48-byte, public key.
func (b *BeaconState) SetValidatorIndexByPubkey(pubKey [fieldparams.BLSPubkeyLength]byte, validatorIndex types.ValidatorIndex) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.valMapHandler.Set(pubKey, validatorIndex)
}

// AppendValidator for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendValidator(val *ethpb.Validator) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Validators = append(b.state.Validators, val.Copy())
	valIdx := types.ValidatorIndex(len(b.state.Validators) - 1)
	b.valMapHandler.Set(bytesutil.ToBytes48(val.PublicKey), valIdx)
	return nil
}

// SetBalances for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetBalances(val []uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	bals := make([]uint64, len(val))
	copy(bals, val)
	b.state.Balances = bals
	return nil
}

// UpdateBalancesAtIndex for the beacon state. This method updates the balance
// at a specific index to a new value.
func (b *BeaconState) UpdateBalancesAtIndex(idx types.ValidatorIndex, val uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}
	if uint64(len(b.state.Balances)) <= uint64(idx) {
		return fmt.Errorf("invalid index provided %d", idx)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Balances[idx] = val
	return nil
}

// AppendBalance for the beacon state. Appends the new value
// to the end of list.
func (b *BeaconState) AppendBalance(bal uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Balances = append(b.state.Balances, bal)
	return nil
}

// SetSlashings for the beacon state. Updates the entire
// list to a new value by overwriting the previous one.
func (b *BeaconState) SetSlashings(val []uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	s := make([]uint64, len(val))
	copy(s, val)
	b.state.Slashings = s
	return nil
}

// UpdateSlashingsAtIndex for the beacon state. Updates the slashings
// at a specific index to a new value.
func (b *BeaconState) UpdateSlashingsAtIndex(idx, val uint64) error {
	if !b.hasInnerState() {
		return ErrNilInnerState
	}
	if uint64(len(b.state.Slashings)) <= idx {
		return fmt.Errorf("invalid index provided %d", idx)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.state.Slashings[idx] = val
	return nil
}
