// Package blockchain defines the life cycle of the blockchain in the beacon node,
// including processing of new blocks and attestations using proof of stake consensus
// and the LMD GHOST fork choice rule.
package blockchain

import (
	"context"
	"sync"
	"time"

	"github.com/kevinms/leakybucket-go"
	"github.com/paulbellamy/ratecounter"
	"github.com/pharoslabs/pharos/beacon-chain/cache"
	"github.com/pharoslabs/pharos/beacon-chain/core/feed"
	statefeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/state"
	"github.com/pharoslabs/pharos/beacon-chain/db"
	f "github.com/pharoslabs/pharos/beacon-chain/forkchoice"
	"github.com/pharoslabs/pharos/beacon-chain/operations/attestations"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"

	opfeed "github.com/pharoslabs/pharos/beacon-chain/core/feed/operation"
)

// Refill a pending block's parent retry budget at this rate, in tokens per second.
const pendingBlockRetryRate = 0.5

// How many times a pending block may be retried before its parent bucket runs dry.
const pendingBlockRetryBudget = 5

// Rate counter window used to report block import speed.
const counterSeconds = 20

// Service represents a service that handles the internal
// logic of managing the full PoS beacon chain.
type Service struct {
	ctx                   context.Context
	cancel                context.CancelFunc
	beaconDB              db.HeadAccessDatabase
	attPool               attestations.Pool
	stateNotifier         statefeed.Notifier
	opNotifier            opfeed.Notifier
	forkChoiceStore       f.ForkChoicer
	genesisTime           time.Time
	genesisRoot           [32]byte
	head                  *head
	headLock              sync.RWMutex
	justifiedCheckpt      *ethpb.Checkpoint
	prevJustifiedCheckpt  *ethpb.Checkpoint
	bestJustifiedCheckpt  *ethpb.Checkpoint
	finalizedCheckpt      *ethpb.Checkpoint
	prevFinalizedCheckpt  *ethpb.Checkpoint
	checkpointStateCache  *cache.CheckpointStateCache
	justifiedBalances     []uint64
	justifiedBalancesLock sync.RWMutex
	nextEpochBoundarySlot types.Slot
	pendingBlocks         map[types.Slot][]*ethpb.SignedBeaconBlock
	seenPendingBlocks     map[[32]byte]bool
	pendingQueueLock      sync.RWMutex
	pendingBlockRetries   *leakybucket.Collector
	blockRateCounter      *ratecounter.RateCounter
	genesisState          state.BeaconState
	initialized           bool
}

// Config options for the service.
type Config struct {
	BeaconDB          db.HeadAccessDatabase
	AttPool           attestations.Pool
	ForkChoiceStore   f.ForkChoicer
	StateNotifier     statefeed.Notifier
	OperationNotifier opfeed.Notifier
	// GenesisState seeds an empty database. When the database already holds
	// chain data this field is ignored and the chain resumes from it.
	GenesisState state.BeaconState
}

// NewService instantiates a new block service instance that will
// be registered into a running beacon node.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		ctx:                  ctx,
		cancel:               cancel,
		beaconDB:             cfg.BeaconDB,
		attPool:              cfg.AttPool,
		stateNotifier:        cfg.StateNotifier,
		opNotifier:           cfg.OperationNotifier,
		forkChoiceStore:      cfg.ForkChoiceStore,
		checkpointStateCache: cache.NewCheckpointStateCache(),
		justifiedBalances:    make([]uint64, 0),
		pendingBlocks:        make(map[types.Slot][]*ethpb.SignedBeaconBlock),
		seenPendingBlocks:    make(map[[32]byte]bool),
		pendingBlockRetries:  leakybucket.NewCollector(pendingBlockRetryRate, pendingBlockRetryBudget, false /* deleteEmptyBuckets */),
		blockRateCounter:     ratecounter.NewRateCounter(counterSeconds * time.Second),
		genesisState:         cfg.GenesisState,
	}, nil
}

// Start a blockchain service's main event loop.
func (s *Service) Start() {
	if _, err := s.beaconDB.GenesisBlockRoot(s.ctx); err == nil {
		if err := s.initializeChainInfo(s.ctx); err != nil {
			log.Fatalf("Could not initialize chain info from db: %v", err)
		}
	} else {
		if s.genesisState == nil || s.genesisState.IsNil() {
			log.Fatal("No chain data in db and no genesis state was provided")
		}
		if err := s.initializeBeaconChain(s.ctx, s.genesisState); err != nil {
			log.Fatalf("Could not initialize beacon chain: %v", err)
		}
	}
	s.initialized = true

	s.stateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.Initialized,
		Data: &statefeed.InitializedData{
			StartTime:             s.genesisTime,
			GenesisValidatorsRoot: s.headGenesisValidatorsRoot(),
		},
	})

	go s.processPendingBlocksQueue()
	s.spawnProcessAttestationsRoutine()
}

// Stop the blockchain service's main event loop and associated goroutines.
func (s *Service) Stop() error {
	defer s.cancel()
	return nil
}

// Status always returns nil unless there is an error condition that causes
// this service to be unhealthy.
func (s *Service) Status() error {
	if !s.initialized {
		return errors.New("waiting for chain to initialize")
	}
	return nil
}

// This gets called when the beacon chain is first initialized. It saves genesis
// data (state, block, checkpoints) to the db and primes the fork choice store
// and the head view with the genesis block.
func (s *Service) initializeBeaconChain(ctx context.Context, genesisState state.BeaconState) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.initializeBeaconChain")
	defer span.End()

	s.genesisTime = time.Unix(int64(genesisState.GenesisTime()), 0)

	if err := s.beaconDB.SaveGenesisData(ctx, genesisState); err != nil {
		return errors.Wrap(err, "could not save genesis data")
	}
	genesisBlk, err := s.beaconDB.GenesisBlock(ctx)
	if err != nil || genesisBlk == nil || genesisBlk.Block == nil {
		return errors.Wrap(err, "could not load genesis block")
	}
	genesisBlkRoot, err := genesisBlk.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not get genesis block root")
	}
	s.genesisRoot = genesisBlkRoot

	genesisCheckpoint := &ethpb.Checkpoint{Epoch: 0, Root: genesisBlkRoot[:]}
	s.justifiedCheckpt = genesisCheckpoint.Copy()
	s.prevJustifiedCheckpt = genesisCheckpoint.Copy()
	s.bestJustifiedCheckpt = genesisCheckpoint.Copy()
	s.finalizedCheckpt = genesisCheckpoint.Copy()
	s.prevFinalizedCheckpt = genesisCheckpoint.Copy()

	if err := s.forkChoiceStore.ProcessBlock(ctx,
		genesisBlk.Block.Slot,
		genesisBlkRoot,
		params.BeaconConfig().ZeroHash,
		genesisCheckpoint.Epoch,
		genesisCheckpoint.Epoch); err != nil {
		return errors.Wrap(err, "could not process genesis block for fork choice")
	}

	s.setHead(genesisBlkRoot, genesisBlk, genesisState)
	if err := s.cacheJustifiedStateBalances(ctx, genesisBlkRoot); err != nil {
		return err
	}

	log.Info("Initialized beacon chain genesis state")
	return nil
}

// This gets called to initialize chain info variables using the saved head
// and the finalized checkpoint stored in db.
func (s *Service) initializeChainInfo(ctx context.Context) error {
	genesisBlock, err := s.beaconDB.GenesisBlock(ctx)
	if err != nil {
		return errors.Wrap(err, "could not get genesis block from db")
	}
	if genesisBlock == nil || genesisBlock.Block == nil {
		return errors.New("no genesis block in db")
	}
	genesisBlkRoot, err := genesisBlock.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not get genesis block root")
	}
	s.genesisRoot = genesisBlkRoot

	genesisState, err := s.beaconDB.GenesisState(ctx)
	if err != nil || genesisState == nil {
		return errors.Wrap(err, "could not get genesis state from db")
	}
	s.genesisTime = time.Unix(int64(genesisState.GenesisTime()), 0)

	justified, err := s.beaconDB.JustifiedCheckpoint(ctx)
	if err != nil {
		return errors.Wrap(err, "could not get justified checkpoint from db")
	}
	if justified == nil {
		return errNilJustifiedInStore
	}
	finalized, err := s.beaconDB.FinalizedCheckpoint(ctx)
	if err != nil {
		return errors.Wrap(err, "could not get finalized checkpoint from db")
	}
	if finalized == nil {
		return errNilFinalizedInStore
	}
	s.justifiedCheckpt = justified.Copy()
	s.prevJustifiedCheckpt = justified.Copy()
	s.bestJustifiedCheckpt = justified.Copy()
	s.finalizedCheckpt = finalized.Copy()
	s.prevFinalizedCheckpt = finalized.Copy()

	headBlock, err := s.beaconDB.HeadBlock(ctx)
	if err != nil {
		return errors.Wrap(err, "could not get head block from db")
	}
	if headBlock == nil || headBlock.Block == nil {
		return errors.New("no head block in db")
	}
	headRoot, err := headBlock.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash head block")
	}
	headState, err := s.beaconDB.State(ctx, headRoot)
	if err != nil {
		return errors.Wrap(err, "could not get head state from db")
	}
	if headState == nil {
		return errors.New("no head state in db")
	}

	// The fork choice store resumes from the finalized root. Skipped here is
	// every block between finality and head, the pending queue re-imports what
	// peers provide on top of this anchor.
	fRoot := s.ensureRootNotZeros(bytesutil.ToBytes32(finalized.Root))
	fBlock, err := s.beaconDB.Block(ctx, fRoot)
	if err != nil {
		return errors.Wrap(err, "could not get finalized block from db")
	}
	if fBlock == nil || fBlock.Block == nil {
		return errBlockDoesNotExist
	}
	if err := s.forkChoiceStore.ProcessBlock(ctx,
		fBlock.Block.Slot,
		fRoot,
		params.BeaconConfig().ZeroHash,
		justified.Epoch,
		finalized.Epoch); err != nil {
		return errors.Wrap(err, "could not insert finalized block to fork choice")
	}
	if fRoot != headRoot {
		if err := s.forkChoiceStore.ProcessBlock(ctx,
			headBlock.Block.Slot,
			headRoot,
			fRoot,
			justified.Epoch,
			finalized.Epoch); err != nil {
			return errors.Wrap(err, "could not insert head block to fork choice")
		}
	}

	s.setHead(headRoot, headBlock, headState)
	return s.cacheJustifiedStateBalances(ctx, s.ensureRootNotZeros(bytesutil.ToBytes32(justified.Root)))
}
