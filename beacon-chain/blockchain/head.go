package blockchain

import (
	"context"

	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
	"github.com/trailofbits/go-mutexasserts"
	"go.opencensus.io/trace"
)

// This defines the current chain service's view of head.
type head struct {
	slot  types.Slot               // current head slot.
	root  [32]byte                 // current head root.
	block *ethpb.SignedBeaconBlock // current head block.
	state state.BeaconState        // current head state.
}

// Determined the head from the fork choice service and saves its new data
// (head root, head block, and head state) to the local service cache.
func (s *Service) updateHead(ctx context.Context, balances []uint64) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.updateHead")
	defer span.End()

	// To get the proper head update, a node first checks its best justified
	// can become justified. This is designed to prevent bounce attack and
	// ensure head gets its best justified info.
	if s.bestJustifiedCheckpt.Epoch > s.justifiedCheckpt.Epoch {
		s.justifiedCheckpt = s.bestJustifiedCheckpt.Copy()
		if err := s.cacheJustifiedStateBalances(ctx, s.ensureRootNotZeros(bytesutil.ToBytes32(s.justifiedCheckpt.Root))); err != nil {
			return err
		}
	}

	f := s.finalizedCheckpt
	j := s.justifiedCheckpt
	// To get head before the first justified epoch, the fork choice will start with genesis root
	// instead of zero hashes.
	headStartRoot := bytesutil.ToBytes32(j.Root)
	if headStartRoot == params.BeaconConfig().ZeroHash {
		headStartRoot = s.genesisRoot
	}
	headRoot, err := s.forkChoiceStore.Head(ctx, j.Epoch, headStartRoot, balances, f.Epoch)
	if err != nil {
		return err
	}

	// Save head to the local service cache.
	return s.saveHead(ctx, headRoot)
}

// This saves head info to the local service cache, it also saves the
// new head root to the db.
func (s *Service) saveHead(ctx context.Context, headRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.saveHead")
	defer span.End()

	// Do nothing if head hasn't changed.
	r, err := s.HeadRoot(ctx)
	if err != nil {
		return err
	}
	if headRoot == bytesutil.ToBytes32(r) {
		return nil
	}

	// Get the new head block from db.
	newHeadBlock, err := s.beaconDB.Block(ctx, headRoot)
	if err != nil {
		return err
	}
	if newHeadBlock == nil || newHeadBlock.Block == nil {
		return errors.New("cannot save nil head block")
	}

	// Get the new head state from db.
	newHeadState, err := s.beaconDB.State(ctx, headRoot)
	if err != nil {
		return errors.Wrap(err, "could not retrieve head state in db")
	}
	if newHeadState == nil || newHeadState.IsNil() {
		return errors.New("cannot save nil head state")
	}

	// A chain re-org occurred, so we fire an event notifying the rest of the services.
	oldHeadRoot := bytesutil.ToBytes32(r)
	if bytesutil.ToBytes32(newHeadBlock.Block.ParentRoot) != oldHeadRoot {
		depth := s.reorgDepth(ctx, oldHeadRoot, headRoot)
		log.WithFields(logrus.Fields{
			"newSlot": newHeadBlock.Block.Slot,
			"oldSlot": s.HeadSlot(),
			"depth":   depth,
		}).Debug("Chain reorg occurred")
		s.stateNotifier.StateFeed().Send(&feed.Event{
			Type: statefeed.Reorg,
			Data: &statefeed.ReorgData{
				NewSlot: newHeadBlock.Block.Slot,
				OldSlot: s.HeadSlot(),
				Depth:   depth,
			},
		})

		reorgCount.Inc()
	}

	// Cache the new head info.
	s.setHead(headRoot, newHeadBlock, newHeadState)

	// Save the new head root to db.
	if err := s.beaconDB.SaveHeadBlockRoot(ctx, headRoot); err != nil {
		return errors.Wrap(err, "could not save head root in db")
	}

	return nil
}

// The number of slots between the old head and the common ancestor shared with
// the new head. Zero when the ancestry cannot be determined.
func (s *Service) reorgDepth(ctx context.Context, oldHeadRoot, newHeadRoot [32]byte) types.Slot {
	commonRoot, err := s.forkChoiceStore.CommonAncestorRoot(ctx, oldHeadRoot, newHeadRoot)
	if err != nil {
		return 0
	}
	commonNode := s.forkChoiceStore.Node(commonRoot)
	if commonNode == nil {
		return 0
	}
	oldSlot := s.HeadSlot()
	if oldSlot < commonNode.Slot() {
		return 0
	}
	return oldSlot - commonNode.Slot()
}

// This sets head view object which is used to track the head slot, root, block and state.
func (s *Service) setHead(root [32]byte, block *ethpb.SignedBeaconBlock, state state.BeaconState) {
	s.headLock.Lock()
	defer s.headLock.Unlock()

	// This does a full copy of the block and state.
	s.head = &head{
		slot:  block.Block.Slot,
		root:  root,
		block: block.Copy(),
		state: state.Copy(),
	}
}

// This returns the head slot.
// The caller must hold the head lock.
func (s *Service) headSlot() types.Slot {
	if !mutexasserts.RWMutexLocked(&s.headLock) && !mutexasserts.RWMutexRLocked(&s.headLock) {
		log.Error("headSlot requested without head lock")
	}

	return s.head.slot
}

// This returns the head root.
// The caller must hold the head lock.
func (s *Service) headRoot() [32]byte {
	if s.head == nil {
		return params.BeaconConfig().ZeroHash
	}

	return s.head.root
}

// This returns the head block.
// It does a full copy on head block for immutability.
// The caller must hold the head lock.
func (s *Service) headBlock() *ethpb.SignedBeaconBlock {
	return s.head.block.Copy()
}

// This returns the head state.
// It does a full copy on head state for immutability.
// The caller must hold the head lock.
func (s *Service) headState(ctx context.Context) state.BeaconState {
	_, span := trace.StartSpan(ctx, "blockchain.headState")
	defer span.End()

	if !mutexasserts.RWMutexLocked(&s.headLock) && !mutexasserts.RWMutexRLocked(&s.headLock) {
		log.Error("headState requested without head lock")
	}

	return s.head.state.Copy()
}

// This returns the genesis validators root of the head state.
func (s *Service) headGenesisValidatorsRoot() []byte {
	s.headLock.RLock()
	defer s.headLock.RUnlock()

	if s.head == nil || s.head.state == nil {
		return params.BeaconConfig().ZeroHash[:]
	}
	return bytesutil.SafeCopyBytes(s.head.state.GenesisValidatorsRoot())
}

// Returns true if head state exists.
// The caller must hold the head lock.
func (s *Service) hasHeadState() bool {
	return s.head != nil && s.head.state != nil
}

// This caches justified state balances to be used for fork choice.
func (s *Service) cacheJustifiedStateBalances(ctx context.Context, justifiedRoot [32]byte) error {
	justifiedState, err := s.beaconDB.State(ctx, justifiedRoot)
	if err != nil {
		return err
	}
	if justifiedState == nil || justifiedState.IsNil() {
		return errors.New("justified state can't be nil")
	}

	epoch := helpers.CurrentEpoch(justifiedState)
	justifiedBalances := make([]uint64, justifiedState.NumValidators())
	if err := justifiedState.ReadFromEveryValidator(func(idx int, val state.ReadOnlyValidator) error {
		if helpers.IsActiveValidatorUsingTrie(val, epoch) {
			justifiedBalances[idx] = val.EffectiveBalance()
		} else {
			justifiedBalances[idx] = 0
		}
		return nil
	}); err != nil {
		return err
	}

	s.justifiedBalancesLock.Lock()
	defer s.justifiedBalancesLock.Unlock()
	s.justifiedBalances = justifiedBalances
	return nil
}

func (s *Service) getJustifiedBalances() []uint64 {
	s.justifiedBalancesLock.RLock()
	defer s.justifiedBalancesLock.RUnlock()
	return s.justifiedBalances
}

// Checkpoint roots are zero hashes until the first justified epoch. The genesis
// root stands in for them everywhere a block lookup is required.
func (s *Service) ensureRootNotZeros(root [32]byte) [32]byte {
	if root == params.BeaconConfig().ZeroHash {
		return s.genesisRoot
	}
	return root
}
