package blockchain

import (
	"context"

	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	pharosTime "github.com/pharoslabs/pharos/time"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// onAttestation is called whenever an attestation is received, it updates validators latest vote,
// as well as the fork choice store struct.
//
// Spec pseudocode definition:
//   def on_attestation(store: Store, attestation: Attestation) -> None:
//    validate_on_attestation(store, attestation)
//    store_target_checkpoint_state(store, attestation.data.target)
//
//    # Get state at the `target` to fully validate attestation
//    target_state = store.checkpoint_states[attestation.data.target]
//    indexed_attestation = get_indexed_attestation(target_state, attestation)
//    assert is_valid_indexed_attestation(target_state, indexed_attestation)
//
//    # Update latest messages for attesting indices
//    update_latest_messages(store, indexed_attestation.attesting_indices, attestation)
func (s *Service) onAttestation(ctx context.Context, a *ethpb.Attestation) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.onAttestation")
	defer span.End()

	if err := helpers.ValidateNilAttestation(a); err != nil {
		return err
	}
	if err := helpers.ValidateSlotTargetEpoch(a.Data); err != nil {
		return err
	}
	tgt := a.Data.Target.Copy()

	// Verify beacon node has seen the target block before.
	if !s.beaconDB.HasBlock(ctx, bytesutil.ToBytes32(tgt.Root)) {
		return errors.New("target root does not exist in db")
	}

	// Verify attestation target is from current epoch or previous epoch.
	if err := s.verifyAttTargetEpoch(ctx, uint64(s.genesisTime.Unix()), uint64(pharosTime.Now().Unix()), tgt); err != nil {
		return err
	}

	// Retrieve attestation's data beacon block pre state. Advance pre state to latest epoch if necessary and
	// save it to the cache.
	baseState, err := s.getAttPreState(ctx, tgt)
	if err != nil {
		return err
	}

	// Verify attestation beacon block is known and not from the future.
	if err := s.verifyBeaconBlock(ctx, a.Data); err != nil {
		return errors.Wrap(err, "could not verify attestation beacon block")
	}

	// Verify LMD vote being consistent with FFG vote.
	if err := s.VerifyLmdFfgConsistency(ctx, a); err != nil {
		return errors.Wrap(err, "could not verify attestation beacon block")
	}

	// Verify attestations can only affect the fork choice of subsequent slots.
	if err := slots.VerifyTime(uint64(s.genesisTime.Unix()), a.Data.Slot+1, clockDisparity); err != nil {
		return err
	}

	// Use the target state to verify attesting indices are valid.
	committee, err := helpers.BeaconCommitteeFromState(baseState, a.Data.Slot, a.Data.CommitteeIndex)
	if err != nil {
		return err
	}
	indexedAtt, err := helpers.ConvertToIndexed(ctx, a, committee)
	if err != nil {
		return err
	}
	if err := helpers.IsValidAttestationIndices(ctx, indexedAtt); err != nil {
		return err
	}
	if err := helpers.VerifyIndexedAttestation(ctx, baseState, indexedAtt); err != nil {
		return errors.Wrap(err, "could not verify indexed attestation")
	}

	// Update forkchoice store with the new attestation for updating weight.
	s.forkChoiceStore.ProcessAttestation(ctx, indexedAtt.AttestingIndices, bytesutil.ToBytes32(a.Data.BeaconBlockRoot), tgt.Epoch)

	return nil
}
