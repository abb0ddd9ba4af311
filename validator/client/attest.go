package client

import (
	"context"
	"fmt"
	"time"

	"github.com/pharoslabs/pharos/beacon-chain/core/signing"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	pharosTime "github.com/pharoslabs/pharos/time"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pharoslabs/pharos/validator/keymanager"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
	"go.opencensus.io/trace"
)

// SubmitAttestation completes the validator client's attester responsibility at a given slot.
// It fetches the attestation data to sign from the beacon chain head, runs the signing
// root through local slashing protection, and hands the signed attestation back to the
// chain for aggregation and fork choice.
func (v *validator) SubmitAttestation(ctx context.Context, slot types.Slot, pubKey [48]byte) {
	ctx, span := trace.StartSpan(ctx, "validator.SubmitAttestation")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("validator", fmt.Sprintf("%#x", pubKey)))

	fmtKey := fmt.Sprintf("%#x", pubKey[:])
	log := log.WithField("pubKey", fmt.Sprintf("%#x", bytesutil.Trunc(pubKey[:])))

	duty, err := v.duty(pubKey)
	if err != nil {
		log.WithError(err).Error("Could not fetch validator assignment")
		if v.emitAccountMetrics {
			ValidatorAttestFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	// An attester waits until one-third of the way through the slot so any block
	// proposed at the slot has had time to arrive, then attests to the head.
	v.waitOneThirdOfSlot(ctx, slot)

	data, err := v.chain.AttestationData(ctx, slot, duty.CommitteeIndex)
	if err != nil {
		log.WithError(err).Errorf("Could not request attestation to sign at slot %d", slot)
		if v.emitAccountMetrics {
			ValidatorAttestFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	sig, signingRoot, err := v.signAtt(ctx, pubKey, data)
	if err != nil {
		log.WithError(err).Error("Could not sign attestation")
		if v.emitAccountMetrics {
			ValidatorAttestFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	indexedAtt := &ethpb.IndexedAttestation{
		AttestingIndices: []uint64{uint64(duty.ValidatorIndex)},
		Data:             data,
		Signature:        sig,
	}
	if err := v.slashableAttestationCheck(ctx, indexedAtt, pubKey, signingRoot); err != nil {
		log.WithError(err).Error("Failed attestation slashing protection check")
		return
	}

	aggregationBitfield := bitfield.NewBitlist(uint64(len(duty.Committee)))
	aggregationBitfield.SetBitAt(duty.ValidatorCommitteeIndex, true)
	attestation := &ethpb.Attestation{
		Data:            data,
		AggregationBits: aggregationBitfield,
		Signature:       sig,
	}
	if err := v.chain.SubmitAttestation(ctx, attestation); err != nil {
		log.WithError(err).Error("Could not submit attestation to beacon node")
		if v.emitAccountMetrics {
			ValidatorAttestFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	if err := v.saveAttesterIndexToData(data, duty.ValidatorIndex); err != nil {
		log.WithError(err).Error("Could not save validator index for logging")
	}
	if v.emitAccountMetrics {
		ValidatorAttestSuccessVec.WithLabelValues(fmtKey).Inc()
	}

	span.AddAttributes(
		trace.Int64Attribute("slot", int64(slot)),
		trace.StringAttribute("blockRoot", fmt.Sprintf("%#x", data.BeaconBlockRoot)),
		trace.Int64Attribute("justifiedEpoch", int64(data.Source.Epoch)),
		trace.Int64Attribute("targetEpoch", int64(data.Target.Epoch)),
		trace.StringAttribute("bitfield", fmt.Sprintf("%#x", aggregationBitfield)),
	)
}

// waitOneThirdOfSlot waits until one-third of the way through the slot
// such that any blocks from this slot have time to reach the beacon node
// before creating the attestation.
func (v *validator) waitOneThirdOfSlot(ctx context.Context, slot types.Slot) {
	_, span := trace.StartSpan(ctx, "validator.waitOneThirdOfSlot")
	defer span.End()

	oneThird := slots.DivideSlotBy(3 /* one third of slot duration */)
	delay := oneThird
	if oneThird == 0 {
		delay = 500 * time.Millisecond
	}
	startTime := slots.StartTime(v.genesisTime, slot)
	finalTime := startTime.Add(delay)
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

// signAtt returns the signature of an attestation data and its signing root.
func (v *validator) signAtt(ctx context.Context, pubKey [48]byte, data *ethpb.AttestationData) ([]byte, [32]byte, error) {
	domain, err := v.domainData(data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester)
	if err != nil {
		return nil, [32]byte{}, err
	}
	root, err := signing.ComputeSigningRoot(data, domain)
	if err != nil {
		return nil, [32]byte{}, err
	}
	sig, err := v.keyManager.Sign(ctx, &keymanager.SignRequest{
		PublicKey:       pubKey[:],
		SigningRoot:     root[:],
		SignatureDomain: domain,
		Object:          data,
	})
	if err != nil {
		return nil, [32]byte{}, err
	}
	return sig.Marshal(), root, nil
}

// saveAttesterIndexToData collects the attesting indices of identical attestation
// data so LogAttestationsSubmitted can emit one line per distinct vote.
func (v *validator) saveAttesterIndexToData(data *ethpb.AttestationData, index types.ValidatorIndex) error {
	v.attLogsLock.Lock()
	defer v.attLogsLock.Unlock()

	h, err := data.HashTreeRoot()
	if err != nil {
		return err
	}
	if v.attLogs[h] == nil {
		v.attLogs[h] = &attSubmitted{data: data}
	}
	v.attLogs[h].attesterIndices = append(v.attLogs[h].attesterIndices, index)
	return nil
}
