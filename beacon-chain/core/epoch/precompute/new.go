package precompute

import (
	"context"

	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/config/params"
	"go.opencensus.io/trace"
)

// New gets called at the beginning of process epoch cycle to return
// pre computed instances of validators attesting records and total
// balances attested in an epoch.
func New(ctx context.Context, s state.BeaconState) ([]*Validator, *Balance, error) {
	ctx, span := trace.StartSpan(ctx, "precomputeEpoch.New")
	defer span.End()

	pValidators := make([]*Validator, s.NumValidators())
	pBal := &Balance{}

	currentEpoch := helpers.CurrentEpoch(s)
	prevEpoch := helpers.PrevEpoch(s)

	if err := s.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		// Was validator withdrawable or slashed
		withdrawable := currentEpoch >= val.WithdrawableEpoch()
		pVal := &Validator{
			IsSlashed:                    val.Slashed(),
			IsWithdrawableCurrentEpoch:   withdrawable,
			CurrentEpochEffectiveBalance: val.EffectiveBalance(),
			InclusionDistance:            params.BeaconConfig().FarFutureSlot,
			InclusionSlot:                params.BeaconConfig().FarFutureSlot,
		}
		// Was validator active current epoch
		if helpers.IsActiveValidatorUsingTrie(val, currentEpoch) {
			pVal.IsActiveCurrentEpoch = true
			pBal.ActiveCurrentEpoch += val.EffectiveBalance()
		}
		// Was validator active previous epoch
		if helpers.IsActiveValidatorUsingTrie(val, prevEpoch) {
			pVal.IsActivePrevEpoch = true
			pBal.ActivePrevEpoch += val.EffectiveBalance()
		}

		pValidators[idx] = pVal
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return pValidators, pBal, nil
}

// EnsureBalancesLowerBound ensures that the totals of the balance
// object are at least one effective balance increment, the lower
// bound used by quotient computations.
func EnsureBalancesLowerBound(pBal *Balance) *Balance {
	ebi := params.BeaconConfig().EffectiveBalanceIncrement
	if ebi > pBal.ActiveCurrentEpoch {
		pBal.ActiveCurrentEpoch = ebi
	}
	if ebi > pBal.ActivePrevEpoch {
		pBal.ActivePrevEpoch = ebi
	}
	if ebi > pBal.CurrentEpochAttested {
		pBal.CurrentEpochAttested = ebi
	}
	if ebi > pBal.CurrentEpochTargetAttested {
		pBal.CurrentEpochTargetAttested = ebi
	}
	if ebi > pBal.PrevEpochAttested {
		pBal.PrevEpochAttested = ebi
	}
	if ebi > pBal.PrevEpochTargetAttested {
		pBal.PrevEpochTargetAttested = ebi
	}
	if ebi > pBal.PrevEpochHeadAttested {
		pBal.PrevEpochHeadAttested = ebi
	}
	return pBal
}
