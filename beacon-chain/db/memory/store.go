// Package memory defines an in-memory beacon database backed by maps.
// The store deep copies blocks and states on both reads and writes so
// callers can never mutate persisted data through shared references.
package memory

import (
	"context"
	"sync"

	"github.com/pharoslabs/pharos/beacon-chain/core/blocks"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

// ErrNotFound is returned when a requested item does not exist in the store.
var ErrNotFound = errors.New("not found in db")

// Store is an in-memory implementation of iface.Database.
type Store struct {
	lock                sync.RWMutex
	blocks              map[[32]byte]*ethpb.SignedBeaconBlock
	states              map[[32]byte]state.BeaconState
	blockRootsBySlot    map[types.Slot][][32]byte
	genesisBlockRoot    [32]byte
	hasGenesisBlockRoot bool
	headBlockRoot       [32]byte
	hasHeadBlockRoot    bool
	justifiedCheckpoint *ethpb.Checkpoint
	finalizedCheckpoint *ethpb.Checkpoint
}

// NewStore initializes a new in-memory database.
func NewStore() *Store {
	return &Store{
		blocks:           make(map[[32]byte]*ethpb.SignedBeaconBlock),
		states:           make(map[[32]byte]state.BeaconState),
		blockRootsBySlot: make(map[types.Slot][][32]byte),
	}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// DatabasePath is empty for the in-memory store.
func (s *Store) DatabasePath() string {
	return ""
}

// ClearDB removes every stored item.
func (s *Store) ClearDB() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.blocks = make(map[[32]byte]*ethpb.SignedBeaconBlock)
	s.states = make(map[[32]byte]state.BeaconState)
	s.blockRootsBySlot = make(map[types.Slot][][32]byte)
	s.hasGenesisBlockRoot = false
	s.hasHeadBlockRoot = false
	s.justifiedCheckpoint = nil
	s.finalizedCheckpoint = nil
	return nil
}

// Block retrieval by root. Returns nil without error when the block is unknown.
func (s *Store) Block(ctx context.Context, blockRoot [32]byte) (*ethpb.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.Block")
	defer span.End()

	s.lock.RLock()
	defer s.lock.RUnlock()
	blk, ok := s.blocks[blockRoot]
	if !ok {
		return nil, nil
	}
	return blk.Copy(), nil
}

// HasBlock checks if a block by root exists in the db.
func (s *Store) HasBlock(ctx context.Context, blockRoot [32]byte) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.blocks[blockRoot]
	return ok
}

// BlocksBySlot retrieves a list of beacon blocks and its respective roots by slot.
func (s *Store) BlocksBySlot(ctx context.Context, slot types.Slot) (bool, []*ethpb.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.BlocksBySlot")
	defer span.End()

	s.lock.RLock()
	defer s.lock.RUnlock()
	roots := s.blockRootsBySlot[slot]
	blks := make([]*ethpb.SignedBeaconBlock, 0, len(roots))
	for _, r := range roots {
		if blk, ok := s.blocks[r]; ok {
			blks = append(blks, blk.Copy())
		}
	}
	return len(blks) > 0, blks, nil
}

// BlockRootsBySlot retrieves a list of beacon block roots by slot.
func (s *Store) BlockRootsBySlot(ctx context.Context, slot types.Slot) (bool, [][32]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.BlockRootsBySlot")
	defer span.End()

	s.lock.RLock()
	defer s.lock.RUnlock()
	roots := make([][32]byte, len(s.blockRootsBySlot[slot]))
	copy(roots, s.blockRootsBySlot[slot])
	return len(roots) > 0, roots, nil
}

// SaveBlock to the db.
func (s *Store) SaveBlock(ctx context.Context, block *ethpb.SignedBeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveBlock")
	defer span.End()

	return s.SaveBlocks(ctx, []*ethpb.SignedBeaconBlock{block})
}

// SaveBlocks via batch updates to the db.
func (s *Store) SaveBlocks(ctx context.Context, blocks []*ethpb.SignedBeaconBlock) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.SaveBlocks")
	defer span.End()

	s.lock.Lock()
	defer s.lock.Unlock()
	for _, blk := range blocks {
		if blk == nil || blk.Block == nil {
			return errors.New("nil block")
		}
		root, err := blk.Block.HashTreeRoot()
		if err != nil {
			return err
		}
		if _, ok := s.blocks[root]; ok {
			continue
		}
		s.blocks[root] = blk.Copy()
		s.blockRootsBySlot[blk.Block.Slot] = append(s.blockRootsBySlot[blk.Block.Slot], root)
	}
	return nil
}

// GenesisBlock retrieves the genesis block of the beacon chain.
func (s *Store) GenesisBlock(ctx context.Context) (*ethpb.SignedBeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.GenesisBlock")
	defer span.End()

	s.lock.RLock()
	if !s.hasGenesisBlockRoot {
		s.lock.RUnlock()
		return nil, nil
	}
	root := s.genesisBlockRoot
	s.lock.RUnlock()
	return s.Block(ctx, root)
}

// GenesisBlockRoot retrieves the root of the genesis block.
func (s *Store) GenesisBlockRoot(ctx context.Context) ([32]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if !s.hasGenesisBlockRoot {
		return [32]byte{}, ErrNotFound
	}
	return s.genesisBlockRoot, nil
}

// SaveGenesisBlockRoot to the db.
func (s *Store) SaveGenesisBlockRoot(ctx context.Context, blockRoot [32]byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.genesisBlockRoot = blockRoot
	s.hasGenesisBlockRoot = true
	return nil
}

// HeadBlock returns the latest canonical block in the Ethereum Beacon Chain.
func (s *Store) HeadBlock(ctx context.Context) (*ethpb.SignedBeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.HeadBlock")
	defer span.End()

	s.lock.RLock()
	if !s.hasHeadBlockRoot {
		s.lock.RUnlock()
		return nil, nil
	}
	root := s.headBlockRoot
	s.lock.RUnlock()
	return s.Block(ctx, root)
}

// SaveHeadBlockRoot to the db.
func (s *Store) SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.SaveHeadBlockRoot")
	defer span.End()

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.states[blockRoot]; !ok {
		return errors.New("no state found with head block root")
	}
	s.headBlockRoot = blockRoot
	s.hasHeadBlockRoot = true
	return nil
}

// State returns the saved state using block's signing root,
// this particular block was used to generate the state.
func (s *Store) State(ctx context.Context, blockRoot [32]byte) (state.BeaconState, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.State")
	defer span.End()

	s.lock.RLock()
	defer s.lock.RUnlock()
	st, ok := s.states[blockRoot]
	if !ok {
		return nil, nil
	}
	return st.Copy(), nil
}

// GenesisState returns the genesis state in beacon chain.
func (s *Store) GenesisState(ctx context.Context) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.GenesisState")
	defer span.End()

	s.lock.RLock()
	if !s.hasGenesisBlockRoot {
		s.lock.RUnlock()
		return nil, nil
	}
	root := s.genesisBlockRoot
	s.lock.RUnlock()
	return s.State(ctx, root)
}

// HasState checks if a state by root exists in the db.
func (s *Store) HasState(ctx context.Context, blockRoot [32]byte) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.states[blockRoot]
	return ok
}

// SaveState stores a state to the db using block's signing root which was used to generate the state.
func (s *Store) SaveState(ctx context.Context, st state.BeaconState, blockRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveState")
	defer span.End()

	return s.SaveStates(ctx, []state.BeaconState{st}, [][32]byte{blockRoot})
}

// SaveStates stores multiple states to the db using the provided corresponding roots.
func (s *Store) SaveStates(ctx context.Context, states []state.BeaconState, blockRoots [][32]byte) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.SaveStates")
	defer span.End()

	if len(states) != len(blockRoots) {
		return errors.New("states and roots length mismatched")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for i, st := range states {
		if st == nil {
			return errors.New("nil state")
		}
		s.states[blockRoots[i]] = st.Copy()
	}
	return nil
}

// DeleteState by block root.
func (s *Store) DeleteState(ctx context.Context, blockRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.DeleteState")
	defer span.End()

	return s.DeleteStates(ctx, [][32]byte{blockRoot})
}

// DeleteStates by block roots. The genesis and finalized states cannot be deleted.
func (s *Store) DeleteStates(ctx context.Context, blockRoots [][32]byte) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.DeleteStates")
	defer span.End()

	s.lock.Lock()
	defer s.lock.Unlock()
	for _, root := range blockRoots {
		if s.hasGenesisBlockRoot && root == s.genesisBlockRoot {
			return errors.New("cannot delete genesis state")
		}
		if s.finalizedCheckpoint != nil && root == bytesToRoot(s.finalizedCheckpoint.Root) {
			return errors.New("cannot delete finalized state")
		}
		delete(s.states, root)
	}
	return nil
}

// JustifiedCheckpoint returns the latest justified checkpoint in beacon chain.
func (s *Store) JustifiedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.justifiedCheckpoint == nil {
		return nil, nil
	}
	return s.justifiedCheckpoint.Copy(), nil
}

// SaveJustifiedCheckpoint saves justified checkpoint in beacon chain.
func (s *Store) SaveJustifiedCheckpoint(ctx context.Context, checkpoint *ethpb.Checkpoint) error {
	if checkpoint == nil {
		return errors.New("nil checkpoint")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.justifiedCheckpoint = checkpoint.Copy()
	return nil
}

// FinalizedCheckpoint returns the latest finalized checkpoint in beacon chain.
func (s *Store) FinalizedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.finalizedCheckpoint == nil {
		return nil, nil
	}
	return s.finalizedCheckpoint.Copy(), nil
}

// SaveFinalizedCheckpoint saves finalized checkpoint in beacon chain.
func (s *Store) SaveFinalizedCheckpoint(ctx context.Context, checkpoint *ethpb.Checkpoint) error {
	if checkpoint == nil {
		return errors.New("nil checkpoint")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.finalizedCheckpoint = checkpoint.Copy()
	return nil
}

// SaveGenesisData bootstraps the store with a given genesis state.
func (s *Store) SaveGenesisData(ctx context.Context, genesisState state.BeaconState) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveGenesisData")
	defer span.End()

	stateRoot, err := genesisState.HashTreeRoot(ctx)
	if err != nil {
		return err
	}
	genesisBlk := blocks.NewGenesisBlock(stateRoot[:])
	genesisBlkRoot, err := genesisBlk.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not get genesis block root")
	}
	if err := s.SaveBlock(ctx, genesisBlk); err != nil {
		return errors.Wrap(err, "could not save genesis block")
	}
	if err := s.SaveState(ctx, genesisState, genesisBlkRoot); err != nil {
		return errors.Wrap(err, "could not save genesis state")
	}
	if err := s.SaveGenesisBlockRoot(ctx, genesisBlkRoot); err != nil {
		return errors.Wrap(err, "could not save genesis block root")
	}
	if err := s.SaveHeadBlockRoot(ctx, genesisBlkRoot); err != nil {
		return errors.Wrap(err, "could not save head block root")
	}
	genesisCheckpoint := &ethpb.Checkpoint{Root: genesisBlkRoot[:]}
	if err := s.SaveJustifiedCheckpoint(ctx, genesisCheckpoint); err != nil {
		return errors.Wrap(err, "could not save justified checkpoint")
	}
	if err := s.SaveFinalizedCheckpoint(ctx, genesisCheckpoint); err != nil {
		return errors.Wrap(err, "could not save finalized checkpoint")
	}
	return nil
}

func bytesToRoot(b []byte) [32]byte {
	var r [32]byte
	copy(r[:], b)
	return r
}
