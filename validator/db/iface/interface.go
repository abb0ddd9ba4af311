// Package iface defines an interface for the validator database.
package iface

import (
	"context"
	"io"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/validator/db/kv"
	types "github.com/prysmaticlabs/eth2-types"
)

var _ ValidatorDB = (*kv.Store)(nil)

// ValidatorDB defines the necessary methods for a validator client database.
type ValidatorDB interface {
	io.Closer
	DatabasePath() string
	ClearDB() error
	Backup(ctx context.Context, outputDir string) error
	UpdatePublicKeysBuckets(publicKeys [][48]byte) error

	// Genesis information related methods.
	GenesisValidatorsRoot(ctx context.Context) ([]byte, error)
	SaveGenesisValidatorsRoot(ctx context.Context, genValRoot []byte) error

	// Proposer protection related methods.
	HighestSignedProposal(ctx context.Context, publicKey [48]byte) (types.Slot, bool, error)
	LowestSignedProposal(ctx context.Context, publicKey [48]byte) (types.Slot, bool, error)
	ProposalHistoryForPubKey(ctx context.Context, publicKey [48]byte) ([]*kv.Proposal, error)
	ProposalHistoryForSlot(ctx context.Context, publicKey [48]byte, slot types.Slot) ([32]byte, bool, error)
	SaveProposalHistoryForSlot(ctx context.Context, pubKey [48]byte, slot types.Slot, signingRoot []byte) error
	SlashableProposalCheck(ctx context.Context, pubKey [48]byte, slot types.Slot, signingRoot [32]byte) error
	ProposedPublicKeys(ctx context.Context) ([][48]byte, error)

	// Attester protection related methods.
	CheckSlashableAttestation(
		ctx context.Context, pubKey [48]byte, signingRoot [32]byte, att *ethpb.IndexedAttestation,
	) (kv.SlashingKind, error)
	SaveAttestationForPubKey(
		ctx context.Context, pubKey [48]byte, signingRoot [32]byte, att *ethpb.IndexedAttestation,
	) (kv.SlashingKind, error)
	SaveAttestationsForPubKey(
		ctx context.Context, pubKey [48]byte, signingRoots [][32]byte, atts []*ethpb.IndexedAttestation,
	) error
	AttestationHistoryForPubKey(ctx context.Context, pubKey [48]byte) ([]*kv.AttestationRecord, error)
	SigningRootAtTargetEpoch(ctx context.Context, pubKey [48]byte, target types.Epoch) ([32]byte, error)
	LowestSignedSourceEpoch(ctx context.Context, publicKey [48]byte) (types.Epoch, bool, error)
	LowestSignedTargetEpoch(ctx context.Context, publicKey [48]byte) (types.Epoch, bool, error)
	AttestedPublicKeys(ctx context.Context) ([][48]byte, error)
	PruneAttestations(ctx context.Context) error
}
