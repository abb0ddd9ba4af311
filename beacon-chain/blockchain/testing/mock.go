// Package testing includes useful mocks for writing unit
// tests which depend on logic from the blockchain service.
package testing

import (
	"bytes"
	"context"
	"time"

	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/beacon-chain/blockchain/duties"
	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
)

// ChainService defines the mock interface for testing
type ChainService struct {
	State                       state.BeaconState
	Root                        []byte
	Block                       *ethpb.SignedBeaconBlock
	FinalizedCheckPoint         *ethpb.Checkpoint
	CurrentJustifiedCheckPoint  *ethpb.Checkpoint
	PreviousJustifiedCheckPoint *ethpb.Checkpoint
	BlocksReceived              []*ethpb.SignedBeaconBlock
	Balance                     uint64
	Genesis                     time.Time
	ValidatorsRoot              [32]byte
	Fork                        *ethpb.Fork
	DB                          interface{}
	stateNotifier               *MockStateNotifier
	opNotifier                  *MockOperationNotifier
	ReceiveBlockMockErr         error
	Duties                      []*duties.Duty
	DutiesRoot                  [32]byte
	DutiesErr                   error
	AttData                     *ethpb.AttestationData
	BuiltBlock                  *ethpb.BeaconBlock
	SubmittedAtts               []*ethpb.Attestation
	SubmittedAggregates         []*ethpb.SignedAggregateAttestationAndProof
	BestAggregateAtt            *ethpb.Attestation
	BestAggregateErr            error
	VerifyBlkDescendantErr      error
}

// StateNotifier mocks the same method in the chain service.
func (s *ChainService) StateNotifier() *MockStateNotifier {
	if s.stateNotifier == nil {
		s.stateNotifier = &MockStateNotifier{}
	}
	return s.stateNotifier
}

// MockStateNotifier mocks the state notifier.
type MockStateNotifier struct {
	feed *event.Feed
}

// StateFeed returns a state feed.
func (msn *MockStateNotifier) StateFeed() *event.Feed {
	if msn.feed == nil {
		msn.feed = new(event.Feed)
	}
	return msn.feed
}

// OperationNotifier mocks the same method in the chain service.
func (s *ChainService) OperationNotifier() *MockOperationNotifier {
	if s.opNotifier == nil {
		s.opNotifier = &MockOperationNotifier{}
	}
	return s.opNotifier
}

// MockOperationNotifier mocks the operation notifier.
type MockOperationNotifier struct {
	feed *event.Feed
}

// OperationFeed returns an operation feed.
func (mon *MockOperationNotifier) OperationFeed() *event.Feed {
	if mon.feed == nil {
		mon.feed = new(event.Feed)
	}
	return mon.feed
}

// ReceiveBlock mocks ReceiveBlock method in chain service.
func (s *ChainService) ReceiveBlock(ctx context.Context, block *ethpb.SignedBeaconBlock, _ [32]byte) error {
	if s.ReceiveBlockMockErr != nil {
		return s.ReceiveBlockMockErr
	}
	if s.State == nil {
		return errors.New("nil state")
	}
	s.BlocksReceived = append(s.BlocksReceived, block)
	signingRoot, err := block.Block.HashTreeRoot()
	if err != nil {
		return err
	}
	if s.State.Slot() == block.Block.Slot {
		s.Root = signingRoot[:]
		s.Block = block
	}
	logrus.Infof("Mock chain service processed block with slot %d", block.Block.Slot)
	return nil
}

// HasPendingBlock mocks the same method in the chain service.
func (s *ChainService) HasPendingBlock(_ [32]byte) bool {
	return false
}

// ReceiveAttestationNoPubsub mocks ReceiveAttestationNoPubsub method in chain service.
func (s *ChainService) ReceiveAttestationNoPubsub(_ context.Context, att *ethpb.Attestation) error {
	s.SubmittedAtts = append(s.SubmittedAtts, att)
	return nil
}

// VerifyLmdFfgConsistency mocks the same method in the chain service.
func (s *ChainService) VerifyLmdFfgConsistency(_ context.Context, a *ethpb.Attestation) error {
	if !bytes.Equal(a.Data.BeaconBlockRoot, a.Data.Target.Root) {
		return errors.New("LMD and FFG miss matched")
	}
	return nil
}

// HeadSlot mocks HeadSlot method in chain service.
func (s *ChainService) HeadSlot() types.Slot {
	if s.State == nil {
		return 0
	}
	return s.State.Slot()
}

// HeadRoot mocks HeadRoot method in chain service.
func (s *ChainService) HeadRoot(_ context.Context) ([]byte, error) {
	if len(s.Root) > 0 {
		return s.Root, nil
	}
	return make([]byte, 32), nil
}

// HeadBlock mocks HeadBlock method in chain service.
func (s *ChainService) HeadBlock(context.Context) (*ethpb.SignedBeaconBlock, error) {
	return s.Block, nil
}

// HeadState mocks HeadState method in chain service.
func (s *ChainService) HeadState(context.Context) (state.BeaconState, error) {
	return s.State, nil
}

// HeadValidatorsIndices mocks the same method in the chain service.
func (s *ChainService) HeadValidatorsIndices(ctx context.Context, epoch types.Epoch) ([]types.ValidatorIndex, error) {
	if s.State == nil {
		return []types.ValidatorIndex{}, nil
	}
	return helpers.ActiveValidatorIndices(s.State, epoch)
}

// HeadGenesisValidatorsRoot mocks HeadGenesisValidatorsRoot method in chain service.
func (s *ChainService) HeadGenesisValidatorsRoot() [32]byte {
	return s.ValidatorsRoot
}

// CurrentFork mocks the same method in the chain service.
func (s *ChainService) CurrentFork() *ethpb.Fork {
	if s.Fork == nil {
		return &ethpb.Fork{
			CurrentVersion:  make([]byte, 4),
			PreviousVersion: make([]byte, 4),
		}
	}
	return s.Fork
}

// FinalizedCheckpt mocks FinalizedCheckpt method in chain service.
func (s *ChainService) FinalizedCheckpt() *ethpb.Checkpoint {
	return s.FinalizedCheckPoint
}

// CurrentJustifiedCheckpt mocks CurrentJustifiedCheckpt method in chain service.
func (s *ChainService) CurrentJustifiedCheckpt() *ethpb.Checkpoint {
	return s.CurrentJustifiedCheckPoint
}

// PreviousJustifiedCheckpt mocks PreviousJustifiedCheckpt method in chain service.
func (s *ChainService) PreviousJustifiedCheckpt() *ethpb.Checkpoint {
	return s.PreviousJustifiedCheckPoint
}

// GenesisTime mocks the same method in the chain service.
func (s *ChainService) GenesisTime() time.Time {
	return s.Genesis
}

// GenesisValidatorsRoot mocks the same method in the chain service.
func (s *ChainService) GenesisValidatorsRoot() [32]byte {
	return s.ValidatorsRoot
}

// CurrentSlot mocks the same method in the chain service.
func (s *ChainService) CurrentSlot() types.Slot {
	return slots.CurrentSlot(uint64(s.Genesis.Unix()))
}

// IsCanonical mocks the same method in the chain service.
func (s *ChainService) IsCanonical(_ context.Context, _ [32]byte) (bool, error) {
	return true, nil
}

// ValidatorDuties mocks the same method in the chain service.
func (s *ChainService) ValidatorDuties(_ context.Context, _ types.Epoch, _ [][48]byte) ([]*duties.Duty, [32]byte, error) {
	if s.DutiesErr != nil {
		return nil, [32]byte{}, s.DutiesErr
	}
	return s.Duties, s.DutiesRoot, nil
}

// AttestationData mocks the same method in the chain service.
func (s *ChainService) AttestationData(_ context.Context, slot types.Slot, committeeIndex types.CommitteeIndex) (*ethpb.AttestationData, error) {
	if s.AttData != nil {
		return s.AttData, nil
	}
	root, err := s.HeadRoot(context.Background())
	if err != nil {
		return nil, err
	}
	return &ethpb.AttestationData{
		Slot:            slot,
		CommitteeIndex:  committeeIndex,
		BeaconBlockRoot: root,
		Source:          &ethpb.Checkpoint{Root: make([]byte, 32)},
		Target:          &ethpb.Checkpoint{Epoch: slots.ToEpoch(slot), Root: root},
	}, nil
}

// BuildBlock mocks the same method in the chain service.
func (s *ChainService) BuildBlock(_ context.Context, slot types.Slot, randaoReveal, graffiti []byte) (*ethpb.BeaconBlock, error) {
	if s.BuiltBlock != nil {
		return s.BuiltBlock, nil
	}
	root, err := s.HeadRoot(context.Background())
	if err != nil {
		return nil, err
	}
	blk := &ethpb.BeaconBlock{
		Slot:       slot,
		ParentRoot: root,
		StateRoot:  make([]byte, 32),
		Body: &ethpb.BeaconBlockBody{
			RandaoReveal:      bytesutil.PadTo(randaoReveal, 96),
			Eth1Data:          &ethpb.Eth1Data{DepositRoot: make([]byte, 32), BlockHash: make([]byte, 32)},
			Graffiti:          bytesutil.PadTo(graffiti, 32),
			ProposerSlashings: []*ethpb.ProposerSlashing{},
			AttesterSlashings: []*ethpb.AttesterSlashing{},
			Attestations:      []*ethpb.Attestation{},
			Deposits:          []*ethpb.Deposit{},
			VoluntaryExits:    []*ethpb.SignedVoluntaryExit{},
		},
	}
	return blk, nil
}

// SubmitBlock mocks the same method in the chain service.
func (s *ChainService) SubmitBlock(ctx context.Context, signed *ethpb.SignedBeaconBlock) error {
	root, err := signed.Block.HashTreeRoot()
	if err != nil {
		return err
	}
	return s.ReceiveBlock(ctx, signed, root)
}

// SubmitAttestation mocks the same method in the chain service.
func (s *ChainService) SubmitAttestation(_ context.Context, att *ethpb.Attestation) error {
	s.SubmittedAtts = append(s.SubmittedAtts, att)
	return nil
}

// BestAggregate mocks the same method in the chain service.
func (s *ChainService) BestAggregate(_ context.Context, _ types.Slot, _ types.CommitteeIndex) (*ethpb.Attestation, error) {
	if s.BestAggregateErr != nil {
		return nil, s.BestAggregateErr
	}
	if s.BestAggregateAtt == nil {
		return nil, errors.New("no attestations found to aggregate")
	}
	return s.BestAggregateAtt, nil
}

// SubmitSignedAggregateAndProof mocks the same method in the chain service.
func (s *ChainService) SubmitSignedAggregateAndProof(_ context.Context, signed *ethpb.SignedAggregateAttestationAndProof) error {
	s.SubmittedAggregates = append(s.SubmittedAggregates, signed)
	return nil
}
