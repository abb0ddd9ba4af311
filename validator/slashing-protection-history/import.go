package history

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/go-playground/validator/v10"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/monitoring/progress"
	"github.com/pharoslabs/pharos/validator/db/iface"
	"github.com/pharoslabs/pharos/validator/db/kv"
	"github.com/pharoslabs/pharos/validator/slashing-protection-history/format"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "slashing-protection-history")

var validate = validator.New()

// ImportStandardProtectionJSON takes in EIP-3076 compliant JSON and
// saves the signed blocks and attestations it holds into the validator
// database. Existing records are merged: the database check-and-record
// discipline keeps whichever record is most restrictive.
func ImportStandardProtectionJSON(ctx context.Context, validatorDB iface.ValidatorDB, r io.Reader) error {
	ctx, span := trace.StartSpan(ctx, "history.ImportStandardProtectionJSON")
	defer span.End()

	encodedJSON, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "could not read slashing protection JSON file")
	}
	interchangeJSON := &format.EIPSlashingProtectionFormat{}
	if err := json.Unmarshal(encodedJSON, interchangeJSON); err != nil {
		return errors.Wrap(err, "could not unmarshal slashing protection JSON file")
	}
	if interchangeJSON.Data == nil {
		log.Warn("No slashing protection data to import")
		return nil
	}
	if err := validate.Struct(interchangeJSON); err != nil {
		return errors.Wrap(err, "slashing protection JSON file failed validation")
	}
	if err := validateMetadata(ctx, validatorDB, interchangeJSON); err != nil {
		return errors.Wrap(err, "slashing protection JSON metadata was incorrect")
	}

	// Consolidate every entry for the same public key into single lists.
	signedBlocksByPubKey, err := parseBlocksForUniquePublicKeys(interchangeJSON.Data)
	if err != nil {
		return errors.Wrap(err, "could not parse unique entries for blocks by public key")
	}
	signedAttsByPubKey, err := parseAttestationsForUniquePublicKeys(interchangeJSON.Data)
	if err != nil {
		return errors.Wrap(err, "could not parse unique entries for attestations by public key")
	}

	bar := progress.InitializeProgressBar(
		len(signedBlocksByPubKey), "Importing proposals for validator public keys",
	)
	for pubKey, signedBlocks := range signedBlocksByPubKey {
		proposals, err := transformSignedBlocks(signedBlocks)
		if err != nil {
			return errors.Wrapf(err, "could not parse signed blocks for public key %#x", pubKey)
		}
		for _, proposal := range proposals {
			if err := validatorDB.SaveProposalHistoryForSlot(ctx, pubKey, proposal.Slot, proposal.SigningRoot); err != nil {
				return errors.Wrap(err, "could not save proposal history from imported JSON")
			}
		}
		if err := bar.Add(1); err != nil {
			return err
		}
	}

	bar = progress.InitializeProgressBar(
		len(signedAttsByPubKey), "Importing attestations for validator public keys",
	)
	for pubKey, signedAtts := range signedAttsByPubKey {
		signingRoots, atts, err := transformSignedAttestations(signedAtts)
		if err != nil {
			return errors.Wrapf(err, "could not parse signed attestations for public key %#x", pubKey)
		}
		if err := validatorDB.SaveAttestationsForPubKey(ctx, pubKey, signingRoots, atts); err != nil {
			return errors.Wrap(err, "could not save attestation records from imported JSON")
		}
		if err := bar.Add(1); err != nil {
			return err
		}
	}
	return nil
}

func validateMetadata(ctx context.Context, validatorDB iface.ValidatorDB, interchangeJSON *format.EIPSlashingProtectionFormat) error {
	// We need to verify the version of the standard is a format we can understand.
	if interchangeJSON.Metadata.InterchangeFormatVersion != format.InterchangeFormatVersion {
		return errors.Errorf(
			"slashing protection JSON version '%s' is not supported, wanted '%s'",
			interchangeJSON.Metadata.InterchangeFormatVersion,
			format.InterchangeFormatVersion,
		)
	}
	gvr, err := RootFromHex(interchangeJSON.Metadata.GenesisValidatorsRoot)
	if err != nil {
		return errors.Wrapf(err, "%#x is not a valid root", interchangeJSON.Metadata.GenesisValidatorsRoot)
	}
	// The incoming genesis validators root must match the one in the
	// database, a history from a different chain is not importable.
	return validatorDB.SaveGenesisValidatorsRoot(ctx, gvr[:])
}

func parseBlocksForUniquePublicKeys(data []*format.ProtectionData) (map[[48]byte][]*format.SignedBlock, error) {
	signedBlocksByPubKey := make(map[[48]byte][]*format.SignedBlock)
	for _, validatorData := range data {
		pubKey, err := PubKeyFromHex(validatorData.Pubkey)
		if err != nil {
			return nil, errors.Wrapf(err, "%s is not a valid public key", validatorData.Pubkey)
		}
		for _, sBlock := range validatorData.SignedBlocks {
			if sBlock == nil {
				continue
			}
			signedBlocksByPubKey[pubKey] = append(signedBlocksByPubKey[pubKey], sBlock)
		}
	}
	return signedBlocksByPubKey, nil
}

func parseAttestationsForUniquePublicKeys(data []*format.ProtectionData) (map[[48]byte][]*format.SignedAttestation, error) {
	signedAttestationsByPubKey := make(map[[48]byte][]*format.SignedAttestation)
	for _, validatorData := range data {
		pubKey, err := PubKeyFromHex(validatorData.Pubkey)
		if err != nil {
			return nil, errors.Wrapf(err, "%s is not a valid public key", validatorData.Pubkey)
		}
		for _, sAtt := range validatorData.SignedAttestations {
			if sAtt == nil {
				continue
			}
			signedAttestationsByPubKey[pubKey] = append(signedAttestationsByPubKey[pubKey], sAtt)
		}
	}
	return signedAttestationsByPubKey, nil
}

func transformSignedBlocks(signedBlocks []*format.SignedBlock) ([]*kv.Proposal, error) {
	proposals := make([]*kv.Proposal, len(signedBlocks))
	for i, proposal := range signedBlocks {
		slot, err := SlotFromString(proposal.Slot)
		if err != nil {
			return nil, errors.Wrapf(err, "%s is not a valid slot", proposal.Slot)
		}
		// Signing roots are optional in the EIP standard.
		var signingRoot [32]byte
		if proposal.SigningRoot != "" {
			signingRoot, err = RootFromHex(proposal.SigningRoot)
			if err != nil {
				return nil, errors.Wrapf(err, "%#x is not a valid root", proposal.SigningRoot)
			}
		}
		proposals[i] = &kv.Proposal{
			Slot:        slot,
			SigningRoot: signingRoot[:],
		}
	}
	return proposals, nil
}

func transformSignedAttestations(atts []*format.SignedAttestation) ([][32]byte, []*ethpb.IndexedAttestation, error) {
	signingRoots := make([][32]byte, len(atts))
	records := make([]*ethpb.IndexedAttestation, len(atts))
	for i, attestation := range atts {
		target, err := EpochFromString(attestation.TargetEpoch)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s is not a valid epoch", attestation.TargetEpoch)
		}
		source, err := EpochFromString(attestation.SourceEpoch)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s is not a valid epoch", attestation.SourceEpoch)
		}
		// Signing roots are optional in the EIP standard.
		var signingRoot [32]byte
		if attestation.SigningRoot != "" {
			signingRoot, err = RootFromHex(attestation.SigningRoot)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%#x is not a valid root", attestation.SigningRoot)
			}
		}
		signingRoots[i] = signingRoot
		records[i] = &ethpb.IndexedAttestation{
			Data: &ethpb.AttestationData{
				Source: &ethpb.Checkpoint{Epoch: source},
				Target: &ethpb.Checkpoint{Epoch: target},
			},
		}
	}
	return signingRoots, records, nil
}
