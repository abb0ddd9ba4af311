package blockchain

import (
	"context"

	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	opfeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/operation"
	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/core/transition"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
)

// ValidatorDuties returns the attester and proposer assignments of the given public
// keys for the requested epoch, together with the dependent root the assignments were
// computed against. Duties can be requested one epoch ahead at most, requests beyond
// the next epoch return duties.ErrNotReady.
//
// Public keys without a registered validator index are omitted from the result.
func (s *Service) ValidatorDuties(ctx context.Context, epoch types.Epoch, pubKeys [][48]byte) ([]*duties.Duty, [32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ValidatorDuties")
	defer span.End()

	currentEpoch := slots.ToEpoch(s.CurrentSlot())
	if epoch > currentEpoch+1 {
		return nil, [32]byte{}, duties.ErrNotReady
	}

	headState, err := s.HeadState(ctx)
	if err != nil {
		return nil, [32]byte{}, err
	}
	epochStartSlot, err := slots.EpochStart(epoch)
	if err != nil {
		return nil, [32]byte{}, err
	}
	// Assignments one epoch ahead of the state are computable without advancing,
	// anything further requires playing empty slots forward.
	if epoch > helpers.NextEpoch(headState) {
		headState, err = transition.ProcessSlots(ctx, headState, epochStartSlot)
		if err != nil {
			return nil, [32]byte{}, errors.Wrap(err, "could not advance state to requested epoch")
		}
	}

	headRoot, err := s.HeadRoot(ctx)
	if err != nil {
		return nil, [32]byte{}, err
	}
	dependentRoot, err := s.dutyDependentRoot(headState, bytesutil.ToBytes32(headRoot), epoch)
	if err != nil {
		return nil, [32]byte{}, err
	}

	assignments, proposerSlots, err := helpers.CommitteeAssignments(headState, epoch)
	if err != nil {
		return nil, [32]byte{}, errors.Wrap(err, "could not compute committee assignments")
	}

	result := make([]*duties.Duty, 0, len(pubKeys))
	for _, pk := range pubKeys {
		idx, ok := headState.ValidatorIndexByPubkey(pk)
		if !ok {
			continue
		}
		duty := &duties.Duty{
			PublicKey:      pk,
			ValidatorIndex: idx,
			ProposerSlots:  proposerSlots[idx],
		}
		if a, ok := assignments[idx]; ok {
			duty.Committee = a.Committee
			duty.CommitteeIndex = a.CommitteeIndex
			duty.AttesterSlot = a.AttesterSlot
			for i, member := range a.Committee {
				if member == idx {
					duty.ValidatorCommitteeIndex = uint64(i)
					break
				}
			}
		}
		result = append(result, duty)
	}
	return result, dependentRoot, nil
}

// dutyDependentRoot returns the block root the epoch's shuffling depends on, the
// last block root before the start of the previous epoch. Assignments stay valid
// as long as this root remains canonical.
func (s *Service) dutyDependentRoot(headState state.BeaconState, headRoot [32]byte, epoch types.Epoch) ([32]byte, error) {
	if epoch <= 1 {
		return s.genesisRoot, nil
	}
	prevEpochStart, err := slots.EpochStart(epoch - 1)
	if err != nil {
		return [32]byte{}, err
	}
	dependentSlot := prevEpochStart - 1
	if dependentSlot >= headState.Slot() {
		return headRoot, nil
	}
	root, err := helpers.BlockRootAtSlot(headState, dependentSlot)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not get duty dependent root")
	}
	return bytesutil.ToBytes32(root), nil
}

// AttestationData returns the data a validator must attest with at the given slot,
// built from the current head. The source checkpoint is the head state's current
// justified checkpoint and the target root is the head chain's epoch boundary root.
func (s *Service) AttestationData(ctx context.Context, slot types.Slot, committeeIndex types.CommitteeIndex) (*ethpb.AttestationData, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.AttestationData")
	defer span.End()

	headState, err := s.HeadState(ctx)
	if err != nil {
		return nil, err
	}
	headRoot, err := s.HeadRoot(ctx)
	if err != nil {
		return nil, err
	}
	if headState.Slot() < slot {
		headState, err = transition.ProcessSlots(ctx, headState, slot)
		if err != nil {
			return nil, errors.Wrap(err, "could not advance state to requested slot")
		}
	}

	targetEpoch := slots.ToEpoch(slot)
	epochStartSlot, err := slots.EpochStart(targetEpoch)
	if err != nil {
		return nil, err
	}
	var targetRoot []byte
	if epochStartSlot >= headState.Slot() {
		targetRoot = headRoot
	} else {
		targetRoot, err = helpers.BlockRootAtSlot(headState, epochStartSlot)
		if err != nil {
			return nil, errors.Wrap(err, "could not get target root")
		}
	}

	return &ethpb.AttestationData{
		Slot:            slot,
		CommitteeIndex:  committeeIndex,
		BeaconBlockRoot: headRoot,
		Source:          headState.CurrentJustifiedCheckpoint(),
		Target: &ethpb.Checkpoint{
			Epoch: targetEpoch,
			Root:  targetRoot,
		},
	}, nil
}

// BuildBlock assembles an unsigned block proposal on top of the current head for
// the given slot, packing attestations from the operations pool and computing the
// post state root.
func (s *Service) BuildBlock(ctx context.Context, slot types.Slot, randaoReveal, graffiti []byte) (*ethpb.BeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.BuildBlock")
	defer span.End()

	headState, err := s.HeadState(ctx)
	if err != nil {
		return nil, err
	}
	headRoot, err := s.HeadRoot(ctx)
	if err != nil {
		return nil, err
	}
	if headState.Slot() < slot {
		headState, err = transition.ProcessSlots(ctx, headState, slot)
		if err != nil {
			return nil, errors.Wrap(err, "could not advance state to proposal slot")
		}
	}

	proposerIdx, err := helpers.BeaconProposerIndex(headState)
	if err != nil {
		return nil, errors.Wrap(err, "could not get proposer index")
	}

	blk := &ethpb.BeaconBlock{
		Slot:          slot,
		ProposerIndex: proposerIdx,
		ParentRoot:    headRoot,
		StateRoot:     params.BeaconConfig().ZeroHash[:],
		Body: &ethpb.BeaconBlockBody{
			RandaoReveal:      bytesutil.SafeCopyBytes(randaoReveal),
			Eth1Data:          headState.Eth1Data(),
			Graffiti:          bytesutil.PadTo(graffiti, 32),
			ProposerSlashings: []*ethpb.ProposerSlashing{},
			AttesterSlashings: []*ethpb.AttesterSlashing{},
			Attestations:      s.packAttestations(slot),
			Deposits:          []*ethpb.Deposit{},
			VoluntaryExits:    []*ethpb.SignedVoluntaryExit{},
		},
	}

	// The state root is computed with a zeroed signature, signing happens after.
	stateRoot, err := transition.CalculateStateRoot(ctx, headState, &ethpb.SignedBeaconBlock{
		Block:     blk,
		Signature: make([]byte, 96),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not calculate state root")
	}
	blk.StateRoot = stateRoot[:]
	return blk, nil
}

// packAttestations selects aggregated attestations from the pool that are
// includable at the proposal slot, capped at the block's attestation limit.
func (s *Service) packAttestations(slot types.Slot) []*ethpb.Attestation {
	atts := s.attPool.AggregatedAttestations()
	cfg := params.BeaconConfig()
	packed := make([]*ethpb.Attestation, 0, len(atts))
	for _, att := range atts {
		if att.Data.Slot+cfg.MinAttestationInclusionDelay > slot {
			continue
		}
		if att.Data.Slot+cfg.SlotsPerEpoch < slot {
			continue
		}
		packed = append(packed, att)
		if uint64(len(packed)) >= cfg.MaxAttestations {
			break
		}
	}
	return packed
}

// BestAggregate returns the aggregate attestation with the most aggregated bits
// for the given slot and committee, aggregating any unaggregated pool entries
// first. Used by aggregator duties to pick the attestation worth broadcasting.
func (s *Service) BestAggregate(ctx context.Context, slot types.Slot, committeeIndex types.CommitteeIndex) (*ethpb.Attestation, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.BestAggregate")
	defer span.End()

	if err := s.attPool.AggregateUnaggregatedAttestationsBySlotIndex(ctx, slot, committeeIndex); err != nil {
		return nil, errors.Wrap(err, "could not aggregate unaggregated attestations")
	}
	aggregates := s.attPool.AggregatedAttestationsBySlotIndex(ctx, slot, committeeIndex)
	if len(aggregates) == 0 {
		return nil, errors.New("no attestations found to aggregate")
	}
	best := aggregates[0]
	for _, agg := range aggregates[1:] {
		if agg.AggregationBits.Count() > best.AggregationBits.Count() {
			best = agg
		}
	}
	return best, nil
}

// SubmitBlock imports a signed block produced by a local validator into the chain.
func (s *Service) SubmitBlock(ctx context.Context, signed *ethpb.SignedBeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.SubmitBlock")
	defer span.End()

	root, err := signed.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash block")
	}
	return s.ReceiveBlock(ctx, signed, root)
}

// SubmitAttestation accepts an attestation produced by a local validator, stores it
// in the operations pool for aggregation, block packing and fork choice, and notifies
// operation feed subscribers.
func (s *Service) SubmitAttestation(ctx context.Context, att *ethpb.Attestation) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.SubmitAttestation")
	defer span.End()

	if err := helpers.ValidateNilAttestation(att); err != nil {
		return err
	}
	if err := s.attPool.SaveForkchoiceAttestation(att.Copy()); err != nil {
		return errors.Wrap(err, "could not save fork choice attestation")
	}
	if helpers.IsAggregated(att) {
		if err := s.attPool.SaveAggregatedAttestation(att); err != nil {
			return errors.Wrap(err, "could not save aggregated attestation")
		}
	} else {
		if err := s.attPool.SaveUnaggregatedAttestation(att); err != nil {
			return errors.Wrap(err, "could not save unaggregated attestation")
		}
	}

	s.opNotifier.OperationFeed().Send(&feed.Event{
		Type: opfeed.UnaggregatedAttReceived,
		Data: &opfeed.UnAggregatedAttReceivedData{
			Attestation: att,
		},
	})
	return nil
}

// SubmitSignedAggregateAndProof accepts a signed aggregate and proof from a local
// aggregator, saves the aggregate for block packing and fork choice, and notifies
// operation feed subscribers.
func (s *Service) SubmitSignedAggregateAndProof(ctx context.Context, signed *ethpb.SignedAggregateAttestationAndProof) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.SubmitSignedAggregateAndProof")
	defer span.End()

	if signed == nil || signed.Message == nil {
		return errors.New("nil aggregate and proof")
	}
	agg := signed.Message.Aggregate
	if err := helpers.ValidateNilAttestation(agg); err != nil {
		return err
	}

	// Saving the aggregate for fork choice and for block packing are independent,
	// a failure of one should not block the other.
	var g errgroup.Group
	g.Go(func() error {
		if err := s.attPool.SaveForkchoiceAttestation(agg.Copy()); err != nil {
			return errors.Wrap(err, "could not save fork choice attestation")
		}
		return nil
	})
	g.Go(func() error {
		if err := s.attPool.SaveAggregatedAttestation(agg); err != nil {
			return errors.Wrap(err, "could not save aggregated attestation")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.opNotifier.OperationFeed().Send(&feed.Event{
		Type: opfeed.AggregatedAttReceived,
		Data: &opfeed.AggregatedAttReceivedData{
			Attestation: signed.Message,
		},
	})
	return nil
}
