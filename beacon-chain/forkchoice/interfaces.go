// Package forkchoice defines the interfaces of the fork choice implementations
// used by the blockchain service to track and advance the canonical chain head.
package forkchoice

import (
	"context"

	"github.com/pharoslabs/pharos/beacon-chain/forkchoice/protoarray"
	types "github.com/prysmaticlabs/eth2-types"
)

// ForkChoicer represents the full fork choice interface composed of all the sub-interfaces.
type ForkChoicer interface {
	HeadRetriever        // to compute head.
	BlockProcessor       // to track new block for fork choice.
	AttestationProcessor // to track new attestation for fork choice.
	Pruner               // to clean old data for fork choice.
	Getter               // to retrieve fork choice information.
}

// HeadRetriever retrieves head root of the current chain.
type HeadRetriever interface {
	Head(context.Context, types.Epoch, [32]byte, []uint64, types.Epoch) ([32]byte, error)
}

// BlockProcessor processes the block that's used for accounting fork choice.
type BlockProcessor interface {
	ProcessBlock(context.Context, types.Slot, [32]byte, [32]byte, types.Epoch, types.Epoch) error
}

// AttestationProcessor processes the attestation that's used for accounting fork choice.
type AttestationProcessor interface {
	ProcessAttestation(context.Context, []uint64, [32]byte, types.Epoch)
	InsertSlashedIndex(context.Context, types.ValidatorIndex)
}

// Pruner prunes the fork choice upon new finalization. This is used to keep fork choice sane.
// It returns the roots of the pruned blocks.
type Pruner interface {
	Prune(context.Context, [32]byte) ([][32]byte, error)
}

// Getter returns fork choice related information.
type Getter interface {
	Nodes() []*protoarray.Node
	Node([32]byte) *protoarray.Node
	HasNode([32]byte) bool
	HasParent(root [32]byte) bool
	IsCanonical(root [32]byte) bool
	Store() *protoarray.Store
	AncestorRoot(ctx context.Context, root [32]byte, slot types.Slot) ([]byte, error)
	CommonAncestorRoot(ctx context.Context, root1, root2 [32]byte) ([32]byte, error)
	JustifiedEpoch() types.Epoch
	FinalizedEpoch() types.Epoch
}
