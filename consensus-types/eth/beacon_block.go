package eth

import (
	types "github.com/prysmaticlabs/eth2-types"
)

// Eth1Data is the proposer's view of the deposit contract at the block's
// voting period.
type Eth1Data struct {
	DepositRoot  []byte `ssz-size:"32"`
	DepositCount uint64
	BlockHash    []byte `ssz-size:"32"`
}

// BeaconBlockHeader is a beacon block with the body replaced by its root.
type BeaconBlockHeader struct {
	Slot          types.Slot
	ProposerIndex types.ValidatorIndex
	ParentRoot    []byte `ssz-size:"32"`
	StateRoot     []byte `ssz-size:"32"`
	BodyRoot      []byte `ssz-size:"32"`
}

// SignedBeaconBlockHeader is a header with the proposer's signature.
type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader
	Signature []byte `ssz-size:"96"`
}

// ProposerSlashing holds two distinct signed headers by the same proposer
// for the same slot.
type ProposerSlashing struct {
	Header_1 *SignedBeaconBlockHeader
	Header_2 *SignedBeaconBlockHeader
}

// AttesterSlashing holds two conflicting indexed attestations, either a
// double vote or a surround vote.
type AttesterSlashing struct {
	Attestation_1 *IndexedAttestation
	Attestation_2 *IndexedAttestation
}

// DepositData is the deposit contract payload committed on chain.
type DepositData struct {
	PublicKey             []byte `ssz-size:"48"`
	WithdrawalCredentials []byte `ssz-size:"32"`
	Amount                uint64
	Signature             []byte `ssz-size:"96"`
}

// DepositMessage is DepositData without the signature, the object the
// deposit signature actually covers.
type DepositMessage struct {
	PublicKey             []byte `ssz-size:"48"`
	WithdrawalCredentials []byte `ssz-size:"32"`
	Amount                uint64
}

// Deposit proves inclusion of its data in the deposit contract trie.
type Deposit struct {
	Proof [][]byte `ssz-size:"33,32"`
	Data  *DepositData
}

// VoluntaryExit signals a validator's intent to leave the active set.
type VoluntaryExit struct {
	Epoch          types.Epoch
	ValidatorIndex types.ValidatorIndex
}

// SignedVoluntaryExit wraps an exit with the validator's signature.
type SignedVoluntaryExit struct {
	Exit      *VoluntaryExit
	Signature []byte `ssz-size:"96"`
}

// BeaconBlockBody carries the operations a proposer packs into a block.
type BeaconBlockBody struct {
	RandaoReveal      []byte `ssz-size:"96"`
	Eth1Data          *Eth1Data
	Graffiti          []byte                 `ssz-size:"32"`
	ProposerSlashings []*ProposerSlashing    `ssz-max:"16"`
	AttesterSlashings []*AttesterSlashing    `ssz-max:"2"`
	Attestations      []*Attestation         `ssz-max:"128"`
	Deposits          []*Deposit             `ssz-max:"16"`
	VoluntaryExits    []*SignedVoluntaryExit `ssz-max:"16"`
}

// BeaconBlock is the proposer's message for a slot.
type BeaconBlock struct {
	Slot          types.Slot
	ProposerIndex types.ValidatorIndex
	ParentRoot    []byte `ssz-size:"32"`
	StateRoot     []byte `ssz-size:"32"`
	Body          *BeaconBlockBody
}

// SignedBeaconBlock is a block with the proposer's signature.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature []byte `ssz-size:"96"`
}
