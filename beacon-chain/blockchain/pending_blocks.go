package blockchain

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pharoslabs/pharos/async"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// Process the pending block queue at this cadence, a third of a slot.
var processPendingBlocksPeriod = slots.DivideSlotBy(3 /* times per slot */)

// A pending block whose slot trails the current clock slot by more than this
// window is considered stale and dropped.
const pendingBlockStalenessWindow = types.Slot(32)

// This processes the block queue on every processPendingBlocksPeriod.
func (s *Service) processPendingBlocksQueue() {
	// Prevents multiple queue processing goroutines (invoked by RunEvery) from contending for data.
	locker := new(sync.Mutex)
	async.RunEvery(s.ctx, processPendingBlocksPeriod, func() {
		locker.Lock()
		if err := s.processPendingBlocks(s.ctx); err != nil {
			log.WithError(err).Debug("Could not process pending blocks")
		}
		locker.Unlock()
	})
}

// This processes the block tree inside the queue. Blocks whose parents arrived since the
// last tick are imported in slot order, stale or finalized blocks are evicted.
func (s *Service) processPendingBlocks(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.processPendingBlocks")
	defer span.End()

	pendingSlots := s.sortedPendingSlots()
	span.AddAttributes(trace.Int64Attribute("numSlots", int64(len(pendingSlots))))

	finalizedSlot, err := slots.EpochStart(s.finalizedCheckpt.Epoch)
	if err != nil {
		return err
	}
	clockSlot := s.CurrentSlot()

	for _, slot := range pendingSlots {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.pendingQueueLock.RLock()
		blocks := make([]*ethpb.SignedBeaconBlock, len(s.pendingBlocks[slot]))
		copy(blocks, s.pendingBlocks[slot])
		s.pendingQueueLock.RUnlock()

		for _, b := range blocks {
			blkRoot, err := b.Block.HashTreeRoot()
			if err != nil {
				return err
			}

			// Blocks at or before the finalized slot can never enter the canonical chain.
			if b.Block.Slot <= finalizedSlot {
				s.deletePendingBlock(b, blkRoot)
				continue
			}
			// Stale blocks are evicted rather than retried forever.
			if b.Block.Slot+pendingBlockStalenessWindow < clockSlot {
				log.WithFields(logrus.Fields{
					"slot":      b.Block.Slot,
					"blockRoot": fmt.Sprintf("%#x", bytesutil.Trunc(blkRoot[:])),
				}).Debug("Dropping stale pending block")
				s.deletePendingBlock(b, blkRoot)
				continue
			}

			parentRoot := bytesutil.ToBytes32(b.Block.ParentRoot)
			if !s.beaconDB.HasBlock(ctx, parentRoot) {
				// Spend one retry token for the missing parent. When the budget
				// runs dry the block is dropped from the queue.
				if s.pendingBlockRetries.Add(string(parentRoot[:]), 1) == 0 {
					log.WithFields(logrus.Fields{
						"slot":       b.Block.Slot,
						"parentRoot": fmt.Sprintf("%#x", bytesutil.Trunc(parentRoot[:])),
					}).Debug("Dropping pending block, retries for parent exhausted")
					s.deletePendingBlock(b, blkRoot)
				}
				continue
			}

			if err := s.ReceiveBlock(ctx, b, blkRoot); err != nil {
				log.WithError(err).WithField("slot", b.Block.Slot).Debug("Could not process pending block")
				s.deletePendingBlock(b, blkRoot)
				continue
			}
			s.blockRateCounter.Incr(1)
			s.deletePendingBlock(b, blkRoot)
		}
	}

	queued := s.pendingQueueCount()
	pendingBlocksCount.Set(float64(queued))
	if queued > 0 {
		log.WithFields(logrus.Fields{
			"pendingBlocks":   humanize.Comma(int64(queued)),
			"blocksPerSecond": float64(s.blockRateCounter.Rate()) / counterSeconds,
		}).Debug("Processed pending block queue")
	}
	return nil
}

// This inserts a block to the pending queue, deduplicated by block root.
func (s *Service) insertPendingBlock(_ context.Context, b *ethpb.SignedBeaconBlock, blkRoot [32]byte) {
	if b == nil || b.Block == nil {
		return
	}
	s.pendingQueueLock.Lock()
	defer s.pendingQueueLock.Unlock()

	if s.seenPendingBlocks[blkRoot] {
		return
	}
	s.seenPendingBlocks[blkRoot] = true
	s.pendingBlocks[b.Block.Slot] = append(s.pendingBlocks[b.Block.Slot], b)
	pendingBlocksCount.Set(float64(s.pendingQueueCountLocked()))
	log.WithFields(logrus.Fields{
		"slot":      b.Block.Slot,
		"blockRoot": fmt.Sprintf("%#x", bytesutil.Trunc(blkRoot[:])),
	}).Debug("Block with unknown parent queued for import")
}

// This removes a block from the pending queue.
func (s *Service) deletePendingBlock(b *ethpb.SignedBeaconBlock, blkRoot [32]byte) {
	s.pendingQueueLock.Lock()
	defer s.pendingQueueLock.Unlock()

	blks := s.pendingBlocks[b.Block.Slot]
	for i, blk := range blks {
		r, err := blk.Block.HashTreeRoot()
		if err != nil {
			continue
		}
		if r == blkRoot {
			s.pendingBlocks[b.Block.Slot] = append(blks[:i], blks[i+1:]...)
			break
		}
	}
	if len(s.pendingBlocks[b.Block.Slot]) == 0 {
		delete(s.pendingBlocks, b.Block.Slot)
	}
	delete(s.seenPendingBlocks, blkRoot)
}

// HasPendingBlock returns true if the block of the input root is waiting in the pending queue.
func (s *Service) HasPendingBlock(root [32]byte) bool {
	s.pendingQueueLock.RLock()
	defer s.pendingQueueLock.RUnlock()
	return s.seenPendingBlocks[root]
}

func (s *Service) sortedPendingSlots() []types.Slot {
	s.pendingQueueLock.RLock()
	defer s.pendingQueueLock.RUnlock()

	ss := make([]types.Slot, 0, len(s.pendingBlocks))
	for slot := range s.pendingBlocks {
		ss = append(ss, slot)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i] < ss[j] })
	return ss
}

func (s *Service) pendingQueueCount() int {
	s.pendingQueueLock.RLock()
	defer s.pendingQueueLock.RUnlock()
	return s.pendingQueueCountLocked()
}

// The caller must hold the pending queue lock.
func (s *Service) pendingQueueCountLocked() int {
	count := 0
	for _, blks := range s.pendingBlocks {
		count += len(blks)
	}
	return count
}
