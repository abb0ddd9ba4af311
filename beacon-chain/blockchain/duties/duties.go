// Package duties defines the assignment types handed to validator clients. A duty
// describes, for one validator public key and one epoch, the committee the validator
// attests with and the slots at which it proposes.
package duties

import (
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
)

// ErrNotReady is returned when duties are requested for an epoch beyond the next
// epoch. Committee shuffling for such epochs is not yet determined.
var ErrNotReady = errors.New("duties are not determined for the requested epoch")

// Duty holds the attester and proposer assignments of a single validator for one epoch.
type Duty struct {
	// PublicKey is the 48 byte BLS public key of the validator.
	PublicKey [48]byte
	// ValidatorIndex is the index of the validator in the registry.
	ValidatorIndex types.ValidatorIndex
	// Committee lists the validator indices of the beacon committee the validator
	// is assigned to. Empty when the validator has no attester assignment.
	Committee []types.ValidatorIndex
	// CommitteeIndex is the index of the committee at the attester slot.
	CommitteeIndex types.CommitteeIndex
	// AttesterSlot is the slot during which the validator must attest.
	AttesterSlot types.Slot
	// ValidatorCommitteeIndex is the position of the validator within Committee.
	ValidatorCommitteeIndex uint64
	// ProposerSlots lists the slots of the epoch at which the validator proposes
	// a block. Usually empty or a single slot.
	ProposerSlots []types.Slot
}
