package cache

import "github.com/pkg/errors"

var (
	// ErrNotFound for cache fetches that return a nil value.
	ErrNotFound = errors.New("object not found in cache")
	// ErrNotCommittee will be returned when a cache object is not a pointer to
	// a Committees struct.
	ErrNotCommittee = errors.New("object is not a committee struct")
	// ErrNotProposerIndices will be returned when a cache object is not a pointer to
	// a ProposerIndices struct.
	ErrNotProposerIndices = errors.New("object is not a proposer indices struct")
	// ErrNotCheckpointState will be returned when a cache object is not a pointer to
	// a CheckpointState struct.
	ErrNotCheckpointState = errors.New("object is not a checkpoint state struct")
	// ErrAlreadyInProgress appears when attempting to mark a cache as in progress while it is
	// already in progress. The client should handle this error and wait for the in progress
	// data to resolve via Get.
	ErrAlreadyInProgress = errors.New("already in progress")
)
