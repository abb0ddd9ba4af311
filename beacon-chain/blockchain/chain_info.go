package blockchain

import (
	"context"
	"time"

	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

// ChainInfoFetcher defines a common interface for methods in blockchain service which
// directly retrieves chain info related data.
type ChainInfoFetcher interface {
	HeadFetcher
	FinalizationFetcher
	CanonicalFetcher
}

// TimeFetcher retrieves the chain data related to time.
type TimeFetcher interface {
	GenesisTime() time.Time
	CurrentSlot() types.Slot
}

// GenesisFetcher retrieves the chain data related to its genesis.
type GenesisFetcher interface {
	GenesisValidatorsRoot() [32]byte
}

// HeadFetcher defines a common interface for methods in blockchain service which
// directly retrieves head related data.
type HeadFetcher interface {
	HeadSlot() types.Slot
	HeadRoot(ctx context.Context) ([]byte, error)
	HeadBlock(ctx context.Context) (*ethpb.SignedBeaconBlock, error)
	HeadState(ctx context.Context) (state.BeaconState, error)
	HeadValidatorsIndices(ctx context.Context, epoch types.Epoch) ([]types.ValidatorIndex, error)
	HeadGenesisValidatorsRoot() [32]byte
}

// ForkFetcher retrieves the current fork information of the beacon chain.
type ForkFetcher interface {
	CurrentFork() *ethpb.Fork
}

// CanonicalFetcher retrieves the current chain's canonical information.
type CanonicalFetcher interface {
	IsCanonical(ctx context.Context, blockRoot [32]byte) (bool, error)
}

// FinalizationFetcher defines a common interface for methods in blockchain service which
// directly retrieves finalization and justification related data.
type FinalizationFetcher interface {
	FinalizedCheckpt() *ethpb.Checkpoint
	CurrentJustifiedCheckpt() *ethpb.Checkpoint
	PreviousJustifiedCheckpt() *ethpb.Checkpoint
}

// FinalizedCheckpt returns the latest finalized checkpoint from head state.
func (s *Service) FinalizedCheckpt() *ethpb.Checkpoint {
	if s.finalizedCheckpt == nil || len(s.finalizedCheckpt.Root) == 0 {
		return &ethpb.Checkpoint{Root: params.BeaconConfig().ZeroHash[:]}
	}

	// If head state exists but finalized root is zeros, then genesis block is the finalized root.
	if bytesutil.ToBytes32(s.finalizedCheckpt.Root) == params.BeaconConfig().ZeroHash {
		return &ethpb.Checkpoint{Epoch: s.finalizedCheckpt.Epoch, Root: s.genesisRoot[:]}
	}

	return s.finalizedCheckpt.Copy()
}

// CurrentJustifiedCheckpt returns the current justified checkpoint from head state.
func (s *Service) CurrentJustifiedCheckpt() *ethpb.Checkpoint {
	if s.justifiedCheckpt == nil || len(s.justifiedCheckpt.Root) == 0 {
		return &ethpb.Checkpoint{Root: params.BeaconConfig().ZeroHash[:]}
	}

	if bytesutil.ToBytes32(s.justifiedCheckpt.Root) == params.BeaconConfig().ZeroHash {
		return &ethpb.Checkpoint{Epoch: s.justifiedCheckpt.Epoch, Root: s.genesisRoot[:]}
	}

	return s.justifiedCheckpt.Copy()
}

// PreviousJustifiedCheckpt returns the previous justified checkpoint from head state.
func (s *Service) PreviousJustifiedCheckpt() *ethpb.Checkpoint {
	if s.prevJustifiedCheckpt == nil || len(s.prevJustifiedCheckpt.Root) == 0 {
		return &ethpb.Checkpoint{Root: params.BeaconConfig().ZeroHash[:]}
	}

	if bytesutil.ToBytes32(s.prevJustifiedCheckpt.Root) == params.BeaconConfig().ZeroHash {
		return &ethpb.Checkpoint{Epoch: s.prevJustifiedCheckpt.Epoch, Root: s.genesisRoot[:]}
	}

	return s.prevJustifiedCheckpt.Copy()
}

// HeadSlot returns the slot of the head of the chain.
func (s *Service) HeadSlot() types.Slot {
	s.headLock.RLock()
	defer s.headLock.RUnlock()

	if !s.hasHeadState() {
		return 0
	}

	return s.headSlot()
}

// HeadRoot returns the root of the head of the chain.
func (s *Service) HeadRoot(ctx context.Context) ([]byte, error) {
	s.headLock.RLock()
	if s.head != nil && s.head.root != params.BeaconConfig().ZeroHash {
		r := bytesutil.SafeCopyBytes(s.head.root[:])
		s.headLock.RUnlock()
		return r, nil
	}
	s.headLock.RUnlock()

	b, err := s.beaconDB.HeadBlock(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil || b.Block == nil {
		return params.BeaconConfig().ZeroHash[:], nil
	}

	r, err := b.Block.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	return r[:], nil
}

// HeadBlock returns the head block of the chain.
// If the head is nil from service struct,
// it will attempt to get the head block from db.
func (s *Service) HeadBlock(ctx context.Context) (*ethpb.SignedBeaconBlock, error) {
	s.headLock.RLock()
	if s.hasHeadState() {
		b := s.headBlock()
		s.headLock.RUnlock()
		return b, nil
	}
	s.headLock.RUnlock()

	return s.beaconDB.HeadBlock(ctx)
}

// HeadState returns the head state of the chain.
// If the head is nil from service struct,
// it will attempt to get the head state from db.
func (s *Service) HeadState(ctx context.Context) (state.BeaconState, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.HeadState")
	defer span.End()
	s.headLock.RLock()

	ok := s.hasHeadState()
	span.AddAttributes(trace.BoolAttribute("cache_hit", ok))

	if ok {
		st := s.headState(ctx)
		s.headLock.RUnlock()
		return st, nil
	}
	s.headLock.RUnlock()

	r, err := s.HeadRoot(ctx)
	if err != nil {
		return nil, err
	}
	return s.beaconDB.State(ctx, bytesutil.ToBytes32(r))
}

// HeadValidatorsIndices returns a list of active validator indices from the head view of a given epoch.
func (s *Service) HeadValidatorsIndices(ctx context.Context, epoch types.Epoch) ([]types.ValidatorIndex, error) {
	s.headLock.RLock()
	defer s.headLock.RUnlock()

	if !s.hasHeadState() {
		return []types.ValidatorIndex{}, nil
	}
	return helpers.ActiveValidatorIndices(s.headState(ctx), epoch)
}

// HeadGenesisValidatorsRoot returns genesis validators root of the head state.
func (s *Service) HeadGenesisValidatorsRoot() [32]byte {
	return bytesutil.ToBytes32(s.headGenesisValidatorsRoot())
}

// GenesisTime returns the genesis time of beacon chain.
func (s *Service) GenesisTime() time.Time {
	return s.genesisTime
}

// GenesisValidatorsRoot returns the genesis validators
// root of the chain.
func (s *Service) GenesisValidatorsRoot() [32]byte {
	return bytesutil.ToBytes32(s.headGenesisValidatorsRoot())
}

// CurrentFork retrieves the latest fork information of the beacon chain.
func (s *Service) CurrentFork() *ethpb.Fork {
	s.headLock.RLock()
	defer s.headLock.RUnlock()

	if !s.hasHeadState() {
		return &ethpb.Fork{
			PreviousVersion: params.BeaconConfig().GenesisForkVersion,
			CurrentVersion:  params.BeaconConfig().GenesisForkVersion,
		}
	}
	return s.head.state.Fork()
}

// CurrentSlot returns the current slot based on time.
func (s *Service) CurrentSlot() types.Slot {
	return slots.CurrentSlot(uint64(s.genesisTime.Unix()))
}

// IsCanonical returns true if the input block root is part of the canonical chain.
func (s *Service) IsCanonical(ctx context.Context, blockRoot [32]byte) (bool, error) {
	// If the block has not been finalized, check fork choice store to see if the block is canonical.
	if s.forkChoiceStore.HasNode(blockRoot) {
		return s.forkChoiceStore.IsCanonical(blockRoot), nil
	}

	// If the block has been pruned on finalization, it is part of the canonical
	// chain as long as the db still tracks it below the finalized slot.
	b, err := s.beaconDB.Block(ctx, blockRoot)
	if err != nil {
		return false, err
	}
	if b == nil || b.Block == nil {
		return false, nil
	}
	finalizedSlot, err := slots.EpochStart(s.finalizedCheckpt.Epoch)
	if err != nil {
		return false, err
	}
	return b.Block.Slot <= finalizedSlot, nil
}
