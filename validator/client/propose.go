package client

// Validator client proposer functions.
import (
	"context"
	"fmt"

	"github.com/pharoslabs/pharos/beacon-chain/core/signing"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	prim "github.com/pharoslabs/pharos/consensus-types/primitives"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pharoslabs/pharos/validator/keymanager"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// ProposeBlock proposes a new beacon block for a given slot. This method requests a block
// built on the current head from the beacon chain, gates the signing root through the
// proposal history, signs the block and submits it back to the chain for import.
func (v *validator) ProposeBlock(ctx context.Context, slot types.Slot, pubKey [48]byte) {
	if slot == 0 {
		log.Debug("Assigned to genesis slot, skipping proposal")
		return
	}
	ctx, span := trace.StartSpan(ctx, "validator.ProposeBlock")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("validator", fmt.Sprintf("%#x", pubKey)))

	fmtKey := fmt.Sprintf("%#x", pubKey[:])
	log := log.WithField("pubKey", fmt.Sprintf("%#x", bytesutil.Trunc(pubKey[:])))

	randaoReveal, err := v.signRandaoReveal(ctx, pubKey, slots.ToEpoch(slot))
	if err != nil {
		log.WithError(err).Error("Could not sign randao reveal")
		if v.emitAccountMetrics {
			ValidatorProposeFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	blk, err := v.chain.BuildBlock(ctx, slot, randaoReveal, v.graffiti)
	if err != nil {
		log.WithError(err).Error("Could not request block from beacon node")
		if v.emitAccountMetrics {
			ValidatorProposeFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	sig, signingRoot, err := v.signBlock(ctx, pubKey, blk)
	if err != nil {
		log.WithError(err).Error("Could not sign block")
		if v.emitAccountMetrics {
			ValidatorProposeFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}

	if err := v.slashableProposalCheck(ctx, pubKey, blk.Slot, signingRoot); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"slot":        blk.Slot,
			"signingRoot": fmt.Sprintf("%#x", signingRoot),
		}).Error("Failed block slashing protection check")
		return
	}

	signed := &ethpb.SignedBeaconBlock{
		Block:     blk,
		Signature: sig,
	}
	if err := v.chain.SubmitBlock(ctx, signed); err != nil {
		log.WithError(err).Error("Could not propose block")
		if v.emitAccountMetrics {
			ValidatorProposeFailVec.WithLabelValues(fmtKey).Inc()
		}
		return
	}
	if v.emitAccountMetrics {
		ValidatorProposeSuccessVec.WithLabelValues(fmtKey).Inc()
	}

	blkRoot, err := blk.HashTreeRoot()
	if err != nil {
		log.WithError(err).Error("Could not hash proposed block")
		return
	}
	span.AddAttributes(
		trace.StringAttribute("blockRoot", fmt.Sprintf("%#x", blkRoot)),
		trace.Int64Attribute("numAttestations", int64(len(blk.Body.Attestations))),
	)
	log.WithFields(logrus.Fields{
		"slot":            blk.Slot,
		"blockRoot":       fmt.Sprintf("%#x", bytesutil.Trunc(blkRoot[:])),
		"numAttestations": len(blk.Body.Attestations),
		"graffiti":        string(blk.Body.Graffiti),
	}).Info("Submitted new block")
}

// signRandaoReveal returns the signature of the proposal epoch under the randao
// domain, used by the chain to mix new randomness into the state.
func (v *validator) signRandaoReveal(ctx context.Context, pubKey [48]byte, epoch types.Epoch) ([]byte, error) {
	domain, err := v.domainData(epoch, params.BeaconConfig().DomainRandao)
	if err != nil {
		return nil, err
	}
	sszEpoch := prim.SSZUint64(epoch)
	root, err := signing.ComputeSigningRoot(&sszEpoch, domain)
	if err != nil {
		return nil, err
	}
	sig, err := v.keyManager.Sign(ctx, &keymanager.SignRequest{
		PublicKey:       pubKey[:],
		SigningRoot:     root[:],
		SignatureDomain: domain,
		Object:          &sszEpoch,
	})
	if err != nil {
		return nil, err
	}
	return sig.Marshal(), nil
}

// signBlock returns the block signature and the signing root the proposal
// history is keyed by.
func (v *validator) signBlock(ctx context.Context, pubKey [48]byte, blk *ethpb.BeaconBlock) ([]byte, [32]byte, error) {
	domain, err := v.domainData(slots.ToEpoch(blk.Slot), params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return nil, [32]byte{}, err
	}
	root, err := signing.ComputeSigningRoot(blk, domain)
	if err != nil {
		return nil, [32]byte{}, err
	}
	sig, err := v.keyManager.Sign(ctx, &keymanager.SignRequest{
		PublicKey:       pubKey[:],
		SigningRoot:     root[:],
		SignatureDomain: domain,
		Object:          blk,
	})
	if err != nil {
		return nil, [32]byte{}, err
	}
	return sig.Marshal(), root, nil
}
