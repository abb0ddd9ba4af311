package blockchain

import "github.com/pkg/errors"

var (
	// ErrUnknownParent is returned when a block's parent is not yet known to the node.
	// The block is a candidate for the pending queue rather than a hard failure.
	ErrUnknownParent = errors.New("unknown parent block")
	// errNilFinalizedInStore is returned when a nil finalized checkpt is returned from store.
	errNilFinalizedInStore = errors.New("nil finalized checkpoint returned from store")
	// errNilJustifiedInStore is returned when a nil justified checkpt is returned from store.
	errNilJustifiedInStore = errors.New("nil justified checkpoint returned from store")
	// errBlockDoesNotExist is returned when a block does not exist for a particular state summary.
	errBlockDoesNotExist = errors.New("could not find block in DB")
)
