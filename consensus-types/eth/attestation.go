package eth

import (
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
)

// Checkpoint is an (epoch, root) pair referencing the latest block at the
// start boundary of the epoch.
type Checkpoint struct {
	Epoch types.Epoch
	Root  []byte `ssz-size:"32"`
}

// AttestationData is the slot-and-vote payload every committee member signs.
type AttestationData struct {
	Slot            types.Slot
	CommitteeIndex  types.CommitteeIndex
	BeaconBlockRoot []byte `ssz-size:"32"`
	Source          *Checkpoint
	Target          *Checkpoint
}

// Attestation carries the aggregation bits of a committee over a single
// AttestationData together with the aggregate signature.
type Attestation struct {
	AggregationBits bitfield.Bitlist `ssz-max:"2048"`
	Data            *AttestationData
	Signature       []byte `ssz-size:"96"`
}

// IndexedAttestation lists the attesting validator indices explicitly in
// sorted order instead of committee-relative bits.
type IndexedAttestation struct {
	AttestingIndices []uint64 `ssz-max:"2048"`
	Data             *AttestationData
	Signature        []byte `ssz-size:"96"`
}

// PendingAttestation is an attestation recorded in the state before
// epoch processing converts participation into rewards.
type PendingAttestation struct {
	AggregationBits bitfield.Bitlist `ssz-max:"2048"`
	Data            *AttestationData
	InclusionDelay  types.Slot
	ProposerIndex   types.ValidatorIndex
}

// AggregateAttestationAndProof is broadcast by the selected aggregator of a
// committee, the selection proof being its signature over the slot.
type AggregateAttestationAndProof struct {
	AggregatorIndex types.ValidatorIndex
	Aggregate       *Attestation
	SelectionProof  []byte `ssz-size:"96"`
}

// SignedAggregateAttestationAndProof wraps an aggregate and proof with the
// aggregator's signature over the whole message.
type SignedAggregateAttestationAndProof struct {
	Message   *AggregateAttestationAndProof
	Signature []byte `ssz-size:"96"`
}
