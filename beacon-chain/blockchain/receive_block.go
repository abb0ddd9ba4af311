package blockchain

import (
	"context"

	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/monitoring/tracing"
	pharosTime "github.com/pharoslabs/pharos/time"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// BlockReceiver interface defines the methods of chain service receive and processing new blocks.
type BlockReceiver interface {
	ReceiveBlock(ctx context.Context, block *ethpb.SignedBeaconBlock, blockRoot [32]byte) error
	HasPendingBlock(root [32]byte) bool
}

// ReceiveBlock is a function that defines the operations (minus pubsub)
// that are performed on a received block. The operations consist of:
//   1. Validate block, apply state transition and update checkpoints
//   2. Apply fork choice to the processed block
//   3. Save latest head info
// A block whose parent is not yet known is held in the pending queue and
// retried once the parent arrives.
func (s *Service) ReceiveBlock(ctx context.Context, block *ethpb.SignedBeaconBlock, blockRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveBlock")
	defer span.End()
	receivedTime := pharosTime.Now()
	blockCopy := block.Copy()

	// Apply state transition on the new block.
	if err := s.onBlock(ctx, blockCopy, blockRoot); err != nil {
		if errors.Is(err, ErrUnknownParent) {
			s.insertPendingBlock(ctx, blockCopy, blockRoot)
			return err
		}
		err := errors.Wrap(err, "could not process block")
		tracing.AnnotateError(span, err)
		return err
	}
	processedBlockCount.Inc()

	// Update and save head block after fork choice.
	if err := s.updateHead(ctx, s.getJustifiedBalances()); err != nil {
		log.WithError(err).Warn("Could not update head")
	}

	// Send notification of the processed block to the state feed.
	s.stateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.BlockProcessed,
		Data: &statefeed.BlockProcessedData{
			Slot:        blockCopy.Block.Slot,
			BlockRoot:   blockRoot,
			SignedBlock: blockCopy,
			Verified:    true,
		},
	})

	// Handle post block operations such as attestation pool bookkeeping.
	if err := s.handlePostBlockOperations(blockCopy.Block); err != nil {
		return err
	}

	// Reports on block and fork choice metrics.
	reportSlotMetrics(blockCopy.Block.Slot, s.HeadSlot(), s.finalizedCheckpt, s.justifiedCheckpt)

	// Log block sync status.
	if err := logBlockSyncStatus(blockCopy.Block, blockRoot, s.finalizedCheckpt, receivedTime, uint64(s.genesisTime.Unix())); err != nil {
		return err
	}
	// Log state transition data.
	logStateTransitionData(blockCopy.Block)

	return nil
}

func (s *Service) handlePostBlockOperations(b *ethpb.BeaconBlock) error {
	// Delete the processed block attestations from attestation pool.
	if err := s.deletePoolAtts(b.Body.Attestations); err != nil {
		return err
	}

	// Add block attestations to the fork choice pool to compute head.
	if err := s.attPool.SaveBlockAttestations(b.Body.Attestations); err != nil {
		log.Errorf("Could not save block attestations for fork choice: %v", err)
		return nil
	}
	return nil
}

// This removes the attestations in block `b` from the attestation pool.
func (s *Service) deletePoolAtts(atts []*ethpb.Attestation) error {
	for _, att := range atts {
		if helpers.IsAggregated(att) {
			if err := s.attPool.DeleteAggregatedAttestation(att); err != nil {
				return err
			}
		} else {
			if err := s.attPool.DeleteUnaggregatedAttestation(att); err != nil {
				return err
			}
		}
	}
	return nil
}
