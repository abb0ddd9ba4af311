package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pharoslabs/pharos/monitoring/progress"
	"github.com/pharoslabs/pharos/validator/db/iface"
	"github.com/pharoslabs/pharos/validator/slashing-protection-history/format"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// ExportStandardProtectionJSON extracts all slashing protection data
// from a validator database and packages it into an EIP-3076 compliant,
// standard format.
func ExportStandardProtectionJSON(ctx context.Context, validatorDB iface.ValidatorDB) (*format.EIPSlashingProtectionFormat, error) {
	ctx, span := trace.StartSpan(ctx, "history.ExportStandardProtectionJSON")
	defer span.End()

	interchangeJSON := &format.EIPSlashingProtectionFormat{}
	genesisValidatorsRoot, err := validatorDB.GenesisValidatorsRoot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not get genesis validators root from DB")
	}
	if len(genesisValidatorsRoot) == 0 {
		return nil, errors.New(
			"genesis validators root is empty, perhaps the validator is not yet fully synced",
		)
	}
	genesisRootHex, err := rootToHexString(genesisValidatorsRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not convert genesis validators root to hex string")
	}
	interchangeJSON.Metadata.GenesisValidatorsRoot = genesisRootHex
	interchangeJSON.Metadata.InterchangeFormatVersion = format.InterchangeFormatVersion

	// Extract the existing public keys in our database.
	proposedPublicKeys, err := validatorDB.ProposedPublicKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not retrieve proposed public keys from database")
	}
	attestedPublicKeys, err := validatorDB.AttestedPublicKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not retrieve attested public keys from database")
	}
	dataByPubKey := make(map[[48]byte]*format.ProtectionData)

	// Extract the signed proposals by public key.
	bar := progress.InitializeProgressBar(
		len(proposedPublicKeys), "Extracting signed blocks by validator public key",
	)
	for _, pubKey := range proposedPublicKeys {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		pubKeyHex, err := pubKeyToHexString(pubKey[:])
		if err != nil {
			return nil, errors.Wrap(err, "could not convert public key to hex string")
		}
		signedBlocks, err := signedBlocksByPubKey(ctx, validatorDB, pubKey)
		if err != nil {
			return nil, errors.Wrapf(err, "could not retrieve signed blocks for public key %s", pubKeyHex)
		}
		dataByPubKey[pubKey] = &format.ProtectionData{
			Pubkey:             pubKeyHex,
			SignedBlocks:       signedBlocks,
			SignedAttestations: nil,
		}
		if err := bar.Add(1); err != nil {
			return nil, err
		}
	}

	// Extract the signed attestations by public key.
	bar = progress.InitializeProgressBar(
		len(attestedPublicKeys), "Extracting signed attestations by validator public key",
	)
	for _, pubKey := range attestedPublicKeys {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		pubKeyHex, err := pubKeyToHexString(pubKey[:])
		if err != nil {
			return nil, errors.Wrap(err, "could not convert public key to hex string")
		}
		signedAttestations, err := signedAttestationsByPubKey(ctx, validatorDB, pubKey)
		if err != nil {
			return nil, errors.Wrapf(err, "could not retrieve signed attestations for public key %s", pubKeyHex)
		}
		if _, ok := dataByPubKey[pubKey]; ok {
			dataByPubKey[pubKey].SignedAttestations = signedAttestations
		} else {
			dataByPubKey[pubKey] = &format.ProtectionData{
				Pubkey:             pubKeyHex,
				SignedBlocks:       nil,
				SignedAttestations: signedAttestations,
			}
		}
		if err := bar.Add(1); err != nil {
			return nil, err
		}
	}

	// Next we turn our map into a slice as expected by the EIP-3076 JSON standard.
	dataList := make([]*format.ProtectionData, 0)
	for _, item := range dataByPubKey {
		if item.SignedAttestations == nil {
			item.SignedAttestations = make([]*format.SignedAttestation, 0)
		}
		if item.SignedBlocks == nil {
			item.SignedBlocks = make([]*format.SignedBlock, 0)
		}
		dataList = append(dataList, item)
	}
	sort.Slice(dataList, func(i, j int) bool {
		return strings.Compare(dataList[i].Pubkey, dataList[j].Pubkey) < 0
	})
	interchangeJSON.Data = dataList
	return interchangeJSON, nil
}

func signedAttestationsByPubKey(ctx context.Context, validatorDB iface.ValidatorDB, pubKey [48]byte) ([]*format.SignedAttestation, error) {
	// If a key does not have an attestation history in our database, we return nil.
	// This way, a user will be able to export their slashing protection history
	// even if one of their keys does not have a history of signed attestations.
	history, err := validatorDB.AttestationHistoryForPubKey(ctx, pubKey)
	if err != nil {
		return nil, errors.Wrap(err, "could not get attestation history for public key")
	}
	if history == nil {
		return nil, nil
	}
	signedAttestations := make([]*format.SignedAttestation, 0)
	for _, att := range history {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		signingRootHex, err := rootToHexString(att.SigningRoot[:])
		if err != nil {
			return nil, errors.Wrap(err, "could not convert signing root to hex string")
		}
		signedAttestations = append(signedAttestations, &format.SignedAttestation{
			TargetEpoch: fmt.Sprintf("%d", att.Target),
			SourceEpoch: fmt.Sprintf("%d", att.Source),
			SigningRoot: signingRootHex,
		})
	}
	return signedAttestations, nil
}

func signedBlocksByPubKey(ctx context.Context, validatorDB iface.ValidatorDB, pubKey [48]byte) ([]*format.SignedBlock, error) {
	proposalHistory, err := validatorDB.ProposalHistoryForPubKey(ctx, pubKey)
	if err != nil {
		return nil, errors.Wrap(err, "could not get proposal history for public key")
	}
	signedBlocks := make([]*format.SignedBlock, 0)
	for _, proposal := range proposalHistory {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		signingRootHex, err := rootToHexString(proposal.SigningRoot)
		if err != nil {
			return nil, errors.Wrap(err, "could not convert signing root to hex string")
		}
		signedBlocks = append(signedBlocks, &format.SignedBlock{
			Slot:        fmt.Sprintf("%d", proposal.Slot),
			SigningRoot: signingRootHex,
		})
	}
	return signedBlocks, nil
}
