package protoarray

import (
	"context"

	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

// computeDeltas returns the changes in validator balances as a list of deltas and
// the updated validator votes. The delta is calculated between the old and the new
// balances. The votes are compared and mapped to the fork choice node indices.
func computeDeltas(
	ctx context.Context,
	blockIndices map[[32]byte]uint64,
	votes []Vote,
	oldBalances, newBalances []uint64,
	slashedIndices map[types.ValidatorIndex]bool,
) ([]int, []Vote, error) {
	_, span := trace.StartSpan(ctx, "protoArrayForkChoice.computeDeltas")
	defer span.End()

	deltas := make([]int, len(blockIndices))

	for validatorIndex, vote := range votes {
		oldBalance := uint64(0)
		newBalance := uint64(0)

		// Skip if validator has been slashed.
		if slashedIndices[types.ValidatorIndex(validatorIndex)] {
			continue
		}
		// If the validator index did not exist in `oldBalances` or `newBalances` list above, the balance is just 0.
		if validatorIndex < len(oldBalances) {
			oldBalance = oldBalances[validatorIndex]
		}
		if validatorIndex < len(newBalances) {
			newBalance = newBalances[validatorIndex]
		}

		// Perform delta only if the validator's balance or vote has changed.
		if vote.currentRoot != vote.nextRoot || oldBalance != newBalance {
			// Ignore the vote if the root is not in fork choice store, that means we have not seen the block before.
			nextDeltaIndex, ok := blockIndices[vote.nextRoot]
			if ok {
				// Protection against out of bound, the `nextDeltaIndex` which defines
				// the block location in the dag can not exceed the total `delta` length.
				if nextDeltaIndex >= uint64(len(deltas)) {
					return nil, nil, errInvalidNodeDelta
				}
				deltas[nextDeltaIndex] += int(newBalance)
			}

			currentDeltaIndex, ok := blockIndices[vote.currentRoot]
			if ok {
				// Protection against out of bound (same as above) but for current delta index.
				if currentDeltaIndex >= uint64(len(deltas)) {
					return nil, nil, errInvalidNodeDelta
				}
				deltas[currentDeltaIndex] -= int(oldBalance)
			}
		}

		// Rotate the validator vote.
		vote.currentRoot = vote.nextRoot
		votes[validatorIndex] = vote
	}

	return deltas, votes, nil
}
