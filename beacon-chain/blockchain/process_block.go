package blockchain

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/core/transition"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

// A clock disparity allowance when validating that a block or attestation
// is not from a future slot.
const clockDisparity = 500 * time.Millisecond

// onBlock is called when a gossip block is received. It runs regular state transition on the block.
//
// Spec pseudocode definition:
//   def on_block(store: Store, signed_block: SignedBeaconBlock) -> None:
//    block = signed_block.message
//    # Parent block must be known
//    assert block.parent_root in store.block_states
//    # Make a copy of the state to avoid mutability issues
//    pre_state = copy(store.block_states[block.parent_root])
//    # Blocks cannot be in the future. If they are, their consideration must be delayed until the are in the past.
//    assert get_current_slot(store) >= block.slot
//
//    # Check that block is later than the finalized epoch slot (optimization to reduce calls to get_ancestor)
//    finalized_slot = compute_start_slot_at_epoch(store.finalized_checkpoint.epoch)
//    assert block.slot > finalized_slot
//    # Check block is a descendant of the finalized block at the checkpoint finalized slot
//    assert get_ancestor(store, block.parent_root, finalized_slot) == store.finalized_checkpoint.root
//
//    # Check the block is valid and compute the post-state
//    state = pre_state.copy()
//    state_transition(state, signed_block, True)
//    # Add new block to the store
//    store.blocks[hash_tree_root(block)] = block
//    # Add new state for this block to the store
//    store.block_states[hash_tree_root(block)] = state
//
//    ...
//
//    # Update justified checkpoint
//    if state.current_justified_checkpoint.epoch > store.justified_checkpoint.epoch:
//        if state.current_justified_checkpoint.epoch > store.best_justified_checkpoint.epoch:
//            store.best_justified_checkpoint = state.current_justified_checkpoint
//        if should_update_justified_checkpoint(store, state.current_justified_checkpoint):
//            store.justified_checkpoint = state.current_justified_checkpoint
//
//    # Update finalized checkpoint
//    if state.finalized_checkpoint.epoch > store.finalized_checkpoint.epoch:
//        store.finalized_checkpoint = state.finalized_checkpoint
func (s *Service) onBlock(ctx context.Context, signed *ethpb.SignedBeaconBlock, blockRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.onBlock")
	defer span.End()

	if signed == nil || signed.Block == nil {
		return errors.New("nil block")
	}
	b := signed.Block

	preState, err := s.getBlockPreState(ctx, b)
	if err != nil {
		return err
	}

	postState, err := transition.ExecuteStateTransition(ctx, preState, signed)
	if err != nil {
		return err
	}

	if err := s.savePostStateInfo(ctx, blockRoot, signed, postState); err != nil {
		return err
	}

	if err := s.insertBlockAndAttestationsToForkChoiceStore(ctx, b, blockRoot, postState); err != nil {
		return errors.Wrapf(err, "could not insert block %d to fork choice store", b.Slot)
	}

	// Update justified check point.
	currJustifiedEpoch := s.justifiedCheckpt.Epoch
	if postState.CurrentJustifiedCheckpoint().Epoch > currJustifiedEpoch {
		if err := s.updateJustified(ctx, postState); err != nil {
			return err
		}
	}

	newFinalized := postState.FinalizedCheckpointEpoch() > s.finalizedCheckpt.Epoch
	if newFinalized {
		if err := s.updateFinalized(ctx, postState.FinalizedCheckpoint()); err != nil {
			return err
		}
		if err := s.cacheJustifiedStateBalances(ctx, s.ensureRootNotZeros(bytesutil.ToBytes32(s.justifiedCheckpt.Root))); err != nil {
			return err
		}
	}

	// Epoch boundary bookkeeping such as logging epoch summaries
	// and refreshing committee and proposer caches.
	if postState.Slot() >= s.nextEpochBoundarySlot {
		reportEpochMetrics(postState)
		var err error
		s.nextEpochBoundarySlot, err = slots.EpochStart(helpers.NextEpoch(postState))
		if err != nil {
			return err
		}

		// Update committee shuffling and proposer indices for the next epoch.
		if err := helpers.UpdateCommitteeCache(postState, helpers.CurrentEpoch(postState)); err != nil {
			return err
		}
		if err := helpers.UpdateProposerIndicesInCache(postState); err != nil {
			return err
		}
	}

	return nil
}

// This gets the pre state of the incoming block. The parent block must already be
// known for a pre state to exist, otherwise ErrUnknownParent is returned and the
// caller may queue the block for a retry.
func (s *Service) getBlockPreState(ctx context.Context, b *ethpb.BeaconBlock) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.getBlockPreState")
	defer span.End()

	if err := s.verifyBlkPreState(ctx, b); err != nil {
		return nil, err
	}

	preState, err := s.beaconDB.State(ctx, bytesutil.ToBytes32(b.ParentRoot))
	if err != nil {
		return nil, err
	}
	if preState == nil || preState.IsNil() {
		return nil, errors.Wrapf(ErrUnknownParent, "nil pre state for slot %d", b.Slot)
	}

	// Verify block slot time is not from the future.
	if err := slots.VerifyTime(uint64(s.genesisTime.Unix()), b.Slot, clockDisparity); err != nil {
		return nil, err
	}

	// Verify block is later than the finalized epoch slot.
	finalizedSlot, err := slots.EpochStart(s.finalizedCheckpt.Epoch)
	if err != nil {
		return nil, err
	}
	if finalizedSlot >= b.Slot {
		return nil, fmt.Errorf("block is equal or earlier than finalized block, slot %d < slot %d", b.Slot, finalizedSlot)
	}

	return preState, nil
}

// verifyBlkPreState validates input block has a valid pre-state.
func (s *Service) verifyBlkPreState(ctx context.Context, b *ethpb.BeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.verifyBlkPreState")
	defer span.End()

	parentRoot := bytesutil.ToBytes32(b.ParentRoot)
	if !s.beaconDB.HasBlock(ctx, parentRoot) {
		return errors.Wrapf(ErrUnknownParent, "parent %#x at slot %d", parentRoot, b.Slot)
	}
	if !s.beaconDB.HasState(ctx, parentRoot) {
		return errors.Wrapf(ErrUnknownParent, "no state for parent %#x at slot %d", parentRoot, b.Slot)
	}
	return nil
}

// This saves post state info to db. This also saves the new block to the db, so that
// the incoming block is always accessible once its state is saved.
func (s *Service) savePostStateInfo(ctx context.Context, r [32]byte, b *ethpb.SignedBeaconBlock, st state.BeaconState) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.savePostStateInfo")
	defer span.End()
	if err := s.beaconDB.SaveBlock(ctx, b); err != nil {
		return errors.Wrapf(err, "could not save block from slot %d", b.Block.Slot)
	}
	if err := s.beaconDB.SaveState(ctx, st, r); err != nil {
		return errors.Wrap(err, "could not save state")
	}
	return nil
}

// This feeds in the block to fork choice store. It's allows fork choice store
// to gain information on the most current chain.
func (s *Service) insertBlockToForkChoiceStore(ctx context.Context, blk *ethpb.BeaconBlock, root [32]byte, st state.BeaconState) error {
	if err := s.fillInForkChoiceMissingBlocks(ctx, blk, st); err != nil {
		return err
	}

	// Feed in block to fork choice store.
	return s.forkChoiceStore.ProcessBlock(ctx,
		blk.Slot, root, bytesutil.ToBytes32(blk.ParentRoot),
		st.CurrentJustifiedCheckpoint().Epoch,
		st.FinalizedCheckpointEpoch())
}

// This feeds in the block and resulting attestation votes to fork choice store.
func (s *Service) insertBlockAndAttestationsToForkChoiceStore(ctx context.Context, blk *ethpb.BeaconBlock, root [32]byte, st state.BeaconState) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.insertBlockAndAttestationsToForkChoiceStore")
	defer span.End()

	if err := s.insertBlockToForkChoiceStore(ctx, blk, root, st); err != nil {
		return err
	}

	// Feed in block's attestations to fork choice store.
	for _, a := range blk.Body.Attestations {
		committee, err := helpers.BeaconCommitteeFromState(st, a.Data.Slot, a.Data.CommitteeIndex)
		if err != nil {
			return err
		}
		indices, err := helpers.AttestingIndices(a.AggregationBits, committee)
		if err != nil {
			return err
		}
		s.forkChoiceStore.ProcessAttestation(ctx, indices, bytesutil.ToBytes32(a.Data.BeaconBlockRoot), a.Data.Target.Epoch)
	}
	return nil
}

// Walks up from the incoming block's parent and inserts any chain segment the
// fork choice store does not know about yet. The walk stops at the finalized
// root which is always present as the store's anchor.
func (s *Service) fillInForkChoiceMissingBlocks(ctx context.Context, blk *ethpb.BeaconBlock, st state.BeaconState) error {
	pendingNodes := make([]*ethpb.SignedBeaconBlock, 0)
	pendingRoots := make([][32]byte, 0)

	parentRoot := bytesutil.ToBytes32(blk.ParentRoot)
	for !s.forkChoiceStore.HasNode(parentRoot) && parentRoot != s.genesisRoot {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b, err := s.beaconDB.Block(ctx, parentRoot)
		if err != nil {
			return err
		}
		if b == nil || b.Block == nil {
			break
		}
		pendingNodes = append(pendingNodes, b)
		pendingRoots = append(pendingRoots, parentRoot)
		parentRoot = bytesutil.ToBytes32(b.Block.ParentRoot)
	}

	// Insert missing blocks in reverse order so parents precede children.
	for i := len(pendingNodes) - 1; i >= 0; i-- {
		b := pendingNodes[i].Block
		if err := s.forkChoiceStore.ProcessBlock(ctx,
			b.Slot, pendingRoots[i], bytesutil.ToBytes32(b.ParentRoot),
			st.CurrentJustifiedCheckpoint().Epoch,
			st.FinalizedCheckpointEpoch()); err != nil {
			return errors.Wrap(err, "could not process block for proto array fork choice")
		}
	}
	return nil
}

// This updates justified check point in store, if the new justified is later than stored justified or
// the store's justified is not in chain with finalized check point.
//
// Spec definition:
//   if (
//            state.current_justified_checkpoint.epoch > store.justified_checkpoint.epoch
//            or get_ancestor(store, store.justified_checkpoint.root, finalized_slot) != store.finalized_checkpoint.root
//        ):
//            store.justified_checkpoint = state.current_justified_checkpoint
func (s *Service) updateJustified(ctx context.Context, st state.BeaconState) error {
	cpt := st.CurrentJustifiedCheckpoint()
	if cpt.Epoch > s.bestJustifiedCheckpt.Epoch {
		s.bestJustifiedCheckpt = cpt.Copy()
	}
	canUpdate, err := s.shouldUpdateCurrentJustified(ctx, cpt)
	if err != nil {
		return err
	}
	if canUpdate {
		s.prevJustifiedCheckpt = s.justifiedCheckpt.Copy()
		s.justifiedCheckpt = cpt.Copy()
		if err := s.cacheJustifiedStateBalances(ctx, s.ensureRootNotZeros(bytesutil.ToBytes32(cpt.Root))); err != nil {
			return err
		}
		if err := s.beaconDB.SaveJustifiedCheckpoint(ctx, cpt); err != nil {
			return err
		}
	}

	return nil
}

// This determines whether it's allowable to update current justified check point.
// The justified check point can be updated at the beginning of each epoch, and
// may only be updated mid-epoch when the incoming one descends from the current.
//
// Spec pseudocode definition:
//   def should_update_justified_checkpoint(store: Store, new_justified_checkpoint: Checkpoint) -> bool:
//    if compute_slots_since_epoch_start(get_current_slot(store)) < SAFE_SLOTS_TO_UPDATE_JUSTIFIED:
//        return True
//
//    justified_slot = compute_start_slot_at_epoch(store.justified_checkpoint.epoch)
//    if not get_ancestor(store, new_justified_checkpoint.root, justified_slot) == store.justified_checkpoint.root:
//        return False
//
//    return True
func (s *Service) shouldUpdateCurrentJustified(ctx context.Context, newJustifiedCheckpt *ethpb.Checkpoint) (bool, error) {
	if slots.SinceEpochStarts(s.CurrentSlot()) < params.BeaconConfig().SafeSlotsToUpdateJustified {
		return true, nil
	}
	justifiedSlot, err := slots.EpochStart(s.justifiedCheckpt.Epoch)
	if err != nil {
		return false, err
	}
	newJustifiedRoot := s.ensureRootNotZeros(bytesutil.ToBytes32(newJustifiedCheckpt.Root))
	b, err := s.ancestor(ctx, newJustifiedRoot[:], justifiedSlot)
	if err != nil {
		return false, err
	}
	justifiedRoot := s.ensureRootNotZeros(bytesutil.ToBytes32(s.justifiedCheckpt.Root))
	if !bytes.Equal(b, justifiedRoot[:]) {
		return false, nil
	}
	return true, nil
}

// This updates the finalized checkpoint in store and db, then prunes the fork
// choice store and the shuffling caches of everything rooted in abandoned forks.
func (s *Service) updateFinalized(ctx context.Context, cpt *ethpb.Checkpoint) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.updateFinalized")
	defer span.End()

	if err := s.beaconDB.SaveFinalizedCheckpoint(ctx, cpt); err != nil {
		return err
	}

	fRoot := s.ensureRootNotZeros(bytesutil.ToBytes32(cpt.Root))
	prunedRoots, err := s.forkChoiceStore.Prune(ctx, fRoot)
	if err != nil {
		return errors.Wrap(err, "could not prune proto array fork choice nodes")
	}
	helpers.PruneCommitteeCaches(prunedRoots)

	s.prevFinalizedCheckpt = s.finalizedCheckpt.Copy()
	s.finalizedCheckpt = cpt.Copy()
	return nil
}

// ancestor returns the block root of an ancestry block from the input block root.
// It first tries the fork choice store and falls back to walking the db.
//
// Spec pseudocode definition:
//   def get_ancestor(store: Store, root: Root, slot: Slot) -> Root:
//    block = store.blocks[root]
//    if block.slot > slot:
//        return get_ancestor(store, block.parent_root, slot)
//    elif block.slot == slot:
//        return root
//    else:
//        # root is older than queried slot, thus a skip slot. Return most recent root prior to slot
//        return root
func (s *Service) ancestor(ctx context.Context, root []byte, slot types.Slot) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ancestor")
	defer span.End()

	r := bytesutil.ToBytes32(root)
	if s.forkChoiceStore.HasNode(r) {
		return s.forkChoiceStore.AncestorRoot(ctx, r, slot)
	}
	return s.ancestorByDB(ctx, r, slot)
}

// This retrieves an ancestor root using db. The look up is recursively looking up db.
func (s *Service) ancestorByDB(ctx context.Context, r [32]byte, slot types.Slot) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ancestorByDB")
	defer span.End()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	signed, err := s.beaconDB.Block(ctx, r)
	if err != nil {
		return nil, errors.Wrap(err, "could not get ancestor block")
	}
	if signed == nil || signed.Block == nil {
		return nil, errors.New("nil block")
	}
	b := signed.Block
	if b.Slot == slot || b.Slot < slot {
		return r[:], nil
	}

	return s.ancestorByDB(ctx, bytesutil.ToBytes32(b.ParentRoot), slot)
}
