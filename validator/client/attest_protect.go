package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/validator/db/kv"
	"go.opencensus.io/trace"
)

var failedAttLocalProtectionErr = "attempted to make slashable attestation, rejected by local slashing protection"

// slashableAttestationCheck runs the attestation through the local slashing
// protection database. The database checks the attestation against every prior
// record for the public key and records it inside the same transaction, so a
// rejected attestation leaves no trace and an accepted one is committed before
// the signature leaves the client.
func (v *validator) slashableAttestationCheck(
	ctx context.Context,
	indexedAtt *ethpb.IndexedAttestation,
	pubKey [48]byte,
	signingRoot [32]byte,
) error {
	ctx, span := trace.StartSpan(ctx, "validator.slashableAttestationCheck")
	defer span.End()

	fmtKey := fmt.Sprintf("%#x", pubKey[:])

	// A validator refuses to sign any attestation with source epoch less than the
	// minimum source epoch present in that signer's history.
	lowestSourceEpoch, exists, err := v.db.LowestSignedSourceEpoch(ctx, pubKey)
	if err != nil {
		return err
	}
	if exists && lowestSourceEpoch > indexedAtt.Data.Source.Epoch {
		return fmt.Errorf(
			"could not sign attestation lower than lowest source epoch in db, %d > %d",
			lowestSourceEpoch, indexedAtt.Data.Source.Epoch,
		)
	}
	// A validator refuses to sign any attestation with target epoch less than or
	// equal to the minimum target epoch present in that signer's history.
	lowestTargetEpoch, exists, err := v.db.LowestSignedTargetEpoch(ctx, pubKey)
	if err != nil {
		return err
	}
	if exists && lowestTargetEpoch >= indexedAtt.Data.Target.Epoch {
		return fmt.Errorf(
			"could not sign attestation lower than lowest target epoch in db, %d >= %d",
			lowestTargetEpoch, indexedAtt.Data.Target.Epoch,
		)
	}
	// A canceled duty, for example after a reorg at the attesting slot, must not
	// commit a protection record for a signature that will never be broadcast.
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "context canceled before committing protection record")
	}

	slashingKind, err := v.db.SaveAttestationForPubKey(ctx, pubKey, signingRoot, indexedAtt)
	if err != nil {
		if v.emitAccountMetrics {
			ValidatorAttestFailVec.WithLabelValues(fmtKey).Inc()
		}
		switch slashingKind {
		case kv.DoubleVote:
			log.Warn("Attestation is slashable as it is a double vote")
		case kv.SurroundingVote:
			log.Warn("Attestation is slashable as it is surrounding a previous attestation")
		case kv.SurroundedVote:
			log.Warn("Attestation is slashable as it is surrounded by a previous attestation")
		}
		return errors.Wrap(err, failedAttLocalProtectionErr)
	}
	return nil
}
