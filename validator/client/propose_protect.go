package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

var failedBlockSignLocalErr = "attempted to sign a double proposal, rejected by local slashing protection"

// slashableProposalCheck checks if a block proposal is slashable by comparing it
// with the recorded signing history for the public key. The database performs the
// check and records the proposal in one transaction, so a rejected proposal leaves
// the history untouched.
func (v *validator) slashableProposalCheck(
	ctx context.Context,
	pubKey [48]byte,
	slot types.Slot,
	signingRoot [32]byte,
) error {
	ctx, span := trace.StartSpan(ctx, "validator.slashableProposalCheck")
	defer span.End()

	fmtKey := fmt.Sprintf("%#x", pubKey[:])
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "context canceled before committing protection record")
	}
	if err := v.db.SlashableProposalCheck(ctx, pubKey, slot, signingRoot); err != nil {
		if v.emitAccountMetrics {
			ValidatorProposeFailVec.WithLabelValues(fmtKey).Inc()
		}
		return errors.Wrap(err, failedBlockSignLocalErr)
	}
	return nil
}
