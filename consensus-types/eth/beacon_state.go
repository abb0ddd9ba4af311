package eth

import (
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
)

// Fork carries the current and previous fork versions with the epoch of
// the transition between them.
type Fork struct {
	PreviousVersion []byte `ssz-size:"4"`
	CurrentVersion  []byte `ssz-size:"4"`
	Epoch           types.Epoch
}

// ForkData is hashed into signature domains so that signatures never
// carry across forks or chains.
type ForkData struct {
	CurrentVersion        []byte `ssz-size:"4"`
	GenesisValidatorsRoot []byte `ssz-size:"32"`
}

// SigningData binds an object root to a domain; its root is what
// validators actually sign.
type SigningData struct {
	ObjectRoot []byte `ssz-size:"32"`
	Domain     []byte `ssz-size:"32"`
}

// HistoricalBatch is the double batch of roots accumulated into the
// state's historical roots list once per SlotsPerHistoricalRoot slots.
type HistoricalBatch struct {
	BlockRoots [][]byte `ssz-size:"8192,32"`
	StateRoots [][]byte `ssz-size:"8192,32"`
}

// Validator is the registry record for a single validator.
type Validator struct {
	PublicKey                  []byte `ssz-size:"48"`
	WithdrawalCredentials      []byte `ssz-size:"32"`
	EffectiveBalance           uint64
	Slashed                    bool
	ActivationEligibilityEpoch types.Epoch
	ActivationEpoch            types.Epoch
	ExitEpoch                  types.Epoch
	WithdrawableEpoch          types.Epoch
}

// BeaconState is the full phase 0 consensus state.
type BeaconState struct {
	GenesisTime                 uint64
	GenesisValidatorsRoot       []byte `ssz-size:"32"`
	Slot                        types.Slot
	Fork                        *Fork
	LatestBlockHeader           *BeaconBlockHeader
	BlockRoots                  [][]byte `ssz-size:"8192,32"`
	StateRoots                  [][]byte `ssz-size:"8192,32"`
	HistoricalRoots             [][]byte `ssz-size:"?,32" ssz-max:"16777216"`
	Eth1Data                    *Eth1Data
	Eth1DataVotes               []*Eth1Data `ssz-max:"2048"`
	Eth1DepositIndex            uint64
	Validators                  []*Validator `ssz-max:"1099511627776"`
	Balances                    []uint64     `ssz-max:"1099511627776"`
	RandaoMixes                 [][]byte     `ssz-size:"65536,32"`
	Slashings                   []uint64     `ssz-size:"8192"`
	PreviousEpochAttestations   []*PendingAttestation `ssz-max:"4096"`
	CurrentEpochAttestations    []*PendingAttestation `ssz-max:"4096"`
	JustificationBits           bitfield.Bitvector4   `ssz-size:"1"`
	PreviousJustifiedCheckpoint *Checkpoint
	CurrentJustifiedCheckpoint  *Checkpoint
	FinalizedCheckpoint         *Checkpoint
}
