package client

import (
	"context"
	"fmt"
	"time"

	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/core/signing"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	prim "github.com/pharoslabs/pharos/consensus-types/primitives"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	pharosTime "github.com/pharoslabs/pharos/time"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pharoslabs/pharos/validator/keymanager"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// SubmitAggregateAndProof completes the aggregator responsibility at the given slot.
// The validator signs the slot with the selection proof domain to determine whether it
// is an aggregator for its committee, and if so waits until two-thirds of the slot,
// wraps the best aggregate from the attestation pool in an aggregate-and-proof message,
// signs it and submits it to the chain.
func (v *validator) SubmitAggregateAndProof(ctx context.Context, slot types.Slot, pubKey [48]byte) {
	ctx, span := trace.StartSpan(ctx, "validator.SubmitAggregateAndProof")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("validator", fmt.Sprintf("%#x", pubKey)))

	fmtKey := fmt.Sprintf("%#x", pubKey[:])
	log := log.WithField("pubKey", fmt.Sprintf("%#x", bytesutil.Trunc(pubKey[:])))

	duty, err := v.duty(pubKey)
	if err != nil {
		log.WithError(err).Error("Could not fetch validator assignment")
		if v.emitAccountMetrics {
			ValidatorAggFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	// Avoid duplicated aggregation requests for the same slot and committee.
	k := fmt.Sprintf("%d_%d", slot, duty.CommitteeIndex)
	v.aggregatedSlotCommitteeIDCacheLock.Lock()
	if v.aggregatedSlotCommitteeIDCache[k] {
		v.aggregatedSlotCommitteeIDCacheLock.Unlock()
		return
	}
	v.aggregatedSlotCommitteeIDCache[k] = true
	v.aggregatedSlotCommitteeIDCacheLock.Unlock()

	slotSig, err := v.signSlotWithSelectionProof(ctx, pubKey, slot)
	if err != nil {
		log.WithError(err).Error("Could not sign slot")
		if v.emitAccountMetrics {
			ValidatorAggFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	isAggregator, err := helpers.IsAggregator(uint64(len(duty.Committee)), slotSig)
	if err != nil {
		log.WithError(err).Error("Could not check whether validator is an aggregator")
		if v.emitAccountMetrics {
			ValidatorAggFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}
	if !isAggregator {
		return
	}

	// An aggregator waits until two-thirds of the way through the slot so
	// attestations from the slot have time to arrive in the pool before the best
	// aggregate is chosen.
	v.waitToSlotTwoThirds(ctx, slot)

	aggregate, err := v.chain.BestAggregate(ctx, slot, duty.CommitteeIndex)
	if err != nil {
		log.WithError(err).Error("Could not get best aggregate from attestation pool")
		if v.emitAccountMetrics {
			ValidatorAggFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	message := &ethpb.AggregateAttestationAndProof{
		AggregatorIndex: duty.ValidatorIndex,
		Aggregate:       aggregate,
		SelectionProof:  slotSig,
	}
	sig, err := v.signAggregateAndProof(ctx, pubKey, message)
	if err != nil {
		log.WithError(err).Error("Could not sign aggregate and proof")
		if v.emitAccountMetrics {
			ValidatorAggFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}
	signed := &ethpb.SignedAggregateAttestationAndProof{
		Message:   message,
		Signature: sig,
	}
	if err := v.chain.SubmitSignedAggregateAndProof(ctx, signed); err != nil {
		log.WithError(err).Error("Could not submit signed aggregate and proof")
		if v.emitAccountMetrics {
			ValidatorAggFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	if err := v.saveAggregatorIndexToData(aggregate.Data, duty.ValidatorIndex); err != nil {
		log.WithError(err).Error("Could not save aggregator index for logging")
	}
	if v.emitAccountMetrics {
		ValidatorAggSuccessVec.WithLabelValues(fmtKey).Inc()
	}

	log.WithFields(logrus.Fields{
		"slot":           slot,
		"committeeIndex": duty.CommitteeIndex,
		"aggregatedBits": fmt.Sprintf("%#x", aggregate.AggregationBits),
	}).Debug("Submitted aggregate and proof")
}

// signSlotWithSelectionProof returns the signature of the slot under the
// selection proof domain, the proof deciding aggregator selection.
func (v *validator) signSlotWithSelectionProof(ctx context.Context, pubKey [48]byte, slot types.Slot) ([]byte, error) {
	domain, err := v.domainData(slots.ToEpoch(slot), params.BeaconConfig().DomainSelectionProof)
	if err != nil {
		return nil, err
	}
	sszSlot := prim.SSZUint64(slot)
	root, err := signing.ComputeSigningRoot(&sszSlot, domain)
	if err != nil {
		return nil, err
	}
	sig, err := v.keyManager.Sign(ctx, &keymanager.SignRequest{
		PublicKey:       pubKey[:],
		SigningRoot:     root[:],
		SignatureDomain: domain,
		Object:          &sszSlot,
	})
	if err != nil {
		return nil, err
	}
	return sig.Marshal(), nil
}

// signAggregateAndProof signs the aggregate and proof message itself.
func (v *validator) signAggregateAndProof(ctx context.Context, pubKey [48]byte, agg *ethpb.AggregateAttestationAndProof) ([]byte, error) {
	domain, err := v.domainData(slots.ToEpoch(agg.Aggregate.Data.Slot), params.BeaconConfig().DomainAggregateAndProof)
	if err != nil {
		return nil, err
	}
	root, err := signing.ComputeSigningRoot(agg, domain)
	if err != nil {
		return nil, err
	}
	sig, err := v.keyManager.Sign(ctx, &keymanager.SignRequest{
		PublicKey:       pubKey[:],
		SigningRoot:     root[:],
		SignatureDomain: domain,
		Object:          agg,
	})
	if err != nil {
		return nil, err
	}
	return sig.Marshal(), nil
}

// waitToSlotTwoThirds waits until two-thirds through the current slot period
// such that any attestations from this slot have time to reach the beacon node
// before creating the aggregated attestation.
func (v *validator) waitToSlotTwoThirds(ctx context.Context, slot types.Slot) {
	_, span := trace.StartSpan(ctx, "validator.waitToSlotTwoThirds")
	defer span.End()

	twoThird := slots.DivideSlotBy(3 /* one third of slot duration */) * 2
	startTime := slots.StartTime(v.genesisTime, slot)
	finalTime := startTime.Add(twoThird)
	wait := pharosTime.Until(finalTime)
	if wait <= 0 {
		return
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// isAggregator signs the slot with the selection proof domain and applies the
// aggregator modulo check for the committee size.
func (v *validator) isAggregator(ctx context.Context, duty *duties.Duty, slot types.Slot) (bool, error) {
	slotSig, err := v.signSlotWithSelectionProof(ctx, duty.PublicKey, slot)
	if err != nil {
		return false, err
	}
	return helpers.IsAggregator(uint64(len(duty.Committee)), slotSig)
}

// saveAggregatorIndexToData collects aggregator indices of identical attestation
// data for the batched submission log.
func (v *validator) saveAggregatorIndexToData(data *ethpb.AttestationData, index types.ValidatorIndex) error {
	v.attLogsLock.Lock()
	defer v.attLogsLock.Unlock()

	h, err := data.HashTreeRoot()
	if err != nil {
		return err
	}
	if v.attLogs[h] == nil {
		v.attLogs[h] = &attSubmitted{data: data}
	}
	v.attLogs[h].aggregatorIndices = append(v.attLogs[h].aggregatorIndices, index)
	return nil
}
