package util

import (
	"encoding/hex"
	"fmt"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	v1 "github.com/pharoslabs/pharos/beacon-chain/state/v1"
	fieldparams "github.com/pharoslabs/pharos/config/fieldparams"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
)

// FillRootsNaturalOpt is meant to be used as an option when calling NewBeaconState.
// It fills state and block roots with hex representations of natural numbers starting with 0.
// Example: 16 becomes 0x00...0f.
func FillRootsNaturalOpt(state *ethpb.BeaconState) error {
	roots, err := prepareRoots()
	if err != nil {
		return err
	}
	state.StateRoots = roots
	state.BlockRoots = roots
	return nil
}

// NewBeaconState creates a beacon state with minimum marshalable fields.
func NewBeaconState(options ...func(state *ethpb.BeaconState) error) (state.BeaconState, error) {
	seed := &ethpb.BeaconState{
		GenesisTime:           0,
		GenesisValidatorsRoot: make([]byte, fieldparams.RootLength),
		Slot:                  0,
		Fork: &ethpb.Fork{
			PreviousVersion: make([]byte, fieldparams.VersionLength),
			CurrentVersion:  make([]byte, fieldparams.VersionLength),
		},
		LatestBlockHeader: HydrateBeaconHeader(&ethpb.BeaconBlockHeader{}),
		BlockRoots:        filledByteSlice2D(uint64(params.MainnetConfig().SlotsPerHistoricalRoot), 32),
		StateRoots:        filledByteSlice2D(uint64(params.MainnetConfig().SlotsPerHistoricalRoot), 32),
		HistoricalRoots:   make([][]byte, 0),
		Eth1Data: &ethpb.Eth1Data{
			DepositRoot: make([]byte, fieldparams.RootLength),
			BlockHash:   make([]byte, 32),
		},
		Eth1DataVotes:               make([]*ethpb.Eth1Data, 0),
		Eth1DepositIndex:            0,
		Validators:                  make([]*ethpb.Validator, 0),
		Balances:                    make([]uint64, 0),
		RandaoMixes:                 filledByteSlice2D(uint64(params.MainnetConfig().EpochsPerHistoricalVector), 32),
		Slashings:                   make([]uint64, params.MainnetConfig().EpochsPerSlashingsVector),
		PreviousEpochAttestations:   make([]*ethpb.PendingAttestation, 0),
		CurrentEpochAttestations:    make([]*ethpb.PendingAttestation, 0),
		JustificationBits:           bitfield.Bitvector4{0x0},
		PreviousJustifiedCheckpoint: &ethpb.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
		CurrentJustifiedCheckpoint:  &ethpb.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
		FinalizedCheckpoint:         &ethpb.Checkpoint{Root: make([]byte, fieldparams.RootLength)},
	}

	for _, opt := range options {
		err := opt(seed)
		if err != nil {
			return nil, err
		}
	}

	st, err := v1.InitializeFromProtoUnsafe(seed)
	if err != nil {
		return nil, err
	}

	return st.Copy(), nil
}

// SSZ will fill 2D byte slices with their respective values, so we must fill these in too for round
// trip testing.
func filledByteSlice2D(length, innerLen uint64) [][]byte {
	b := make([][]byte, length)
	for i := uint64(0); i < length; i++ {
		b[i] = make([]byte, innerLen)
	}
	return b
}

func prepareRoots() ([][]byte, error) {
	rootsLen := params.MainnetConfig().SlotsPerHistoricalRoot
	roots := make([][]byte, rootsLen)
	for i := types.Slot(0); i < rootsLen; i++ {
		roots[i] = make([]byte, fieldparams.RootLength)
	}
	for j := 0; j < len(roots); j++ {
		// Left-pad '0' to have 64 chars in total.
		s := fmt.Sprintf("%064x", j)
		h, err := hex.DecodeString(s)
		if err != nil {
			return nil, err
		}
		roots[j] = h
	}
	return roots, nil
}
