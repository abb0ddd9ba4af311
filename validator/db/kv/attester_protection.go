package kv

import (
	"bytes"
	"context"
	"fmt"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// SlashingKind used for attestations detected as slashable by the
// slashing protection checks.
type SlashingKind int

// AttestationRecord which can be represented by these simple values
// for manipulation by database methods.
type AttestationRecord struct {
	PubKey      [48]byte
	Source      types.Epoch
	Target      types.Epoch
	SigningRoot [32]byte
}

const (
	// NotSlashable represents an attestation that is not slashable.
	NotSlashable SlashingKind = iota
	// DoubleVote represents a double voted attestation.
	DoubleVote
	// SurroundingVote represents an attestation that surrounds a previously signed one.
	SurroundingVote
	// SurroundedVote represents an attestation that is surrounded by a previously signed one.
	SurroundedVote
)

var (
	doubleVoteMessage      = "double vote found, existing attestation at target epoch %d with conflicting signing root %#x"
	surroundingVoteMessage = "attestation with (source %d, target %d) surrounds another with (source %d, target %d)"
	surroundedVoteMessage  = "attestation with (source %d, target %d) is surrounded by another with (source %d, target %d)"
)

// CheckSlashableAttestation verifies an incoming attestation is
// not a case of a double vote, a surrounding vote, nor a surrounded
// vote against any attestation history for the validator public key.
func (s *Store) CheckSlashableAttestation(
	ctx context.Context, pubKey [48]byte, signingRoot [32]byte, att *ethpb.IndexedAttestation,
) (SlashingKind, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.CheckSlashableAttestation")
	defer span.End()
	var slashKind SlashingKind
	err := s.view(func(tx *bolt.Tx) error {
		var err error
		slashKind, err = checkSlashableAttestation(tx, pubKey, signingRoot, att)
		return err
	})
	tracedAttestationCheckTotal.Inc()
	return slashKind, err
}

// SaveAttestationForPubKey checks the incoming attestation against the
// stored history and, only if it is safe, records it inside the same
// bolt transaction. Bolt serializes writers, so two conflicting
// attestations can never both pass the check and be recorded.
func (s *Store) SaveAttestationForPubKey(
	ctx context.Context, pubKey [48]byte, signingRoot [32]byte, att *ethpb.IndexedAttestation,
) (SlashingKind, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.SaveAttestationForPubKey")
	defer span.End()
	var slashKind SlashingKind
	err := s.update(func(tx *bolt.Tx) error {
		var err error
		slashKind, err = checkSlashableAttestation(tx, pubKey, signingRoot, att)
		if err != nil {
			return err
		}
		return saveAttestationRecord(tx, pubKey, signingRoot, att)
	})
	if err == nil {
		attestationRecordsSavedTotal.Inc()
	}
	return slashKind, err
}

// SaveAttestationsForPubKey stores a batch of attestation records for a
// validator public key without running slashability checks. Used by
// interchange format imports, which merge already vetted histories.
func (s *Store) SaveAttestationsForPubKey(
	ctx context.Context, pubKey [48]byte, signingRoots [][32]byte, atts []*ethpb.IndexedAttestation,
) error {
	ctx, span := trace.StartSpan(ctx, "Validator.SaveAttestationsForPubKey")
	defer span.End()
	if len(signingRoots) != len(atts) {
		return fmt.Errorf(
			"number of signing roots %d does not match number of attestations %d",
			len(signingRoots),
			len(atts),
		)
	}
	return s.update(func(tx *bolt.Tx) error {
		for i, att := range atts {
			if err := saveAttestationRecord(tx, pubKey, signingRoots[i], att); err != nil {
				return err
			}
		}
		return nil
	})
}

func checkSlashableAttestation(
	tx *bolt.Tx, pubKey [48]byte, signingRoot [32]byte, att *ethpb.IndexedAttestation,
) (SlashingKind, error) {
	bucket := tx.Bucket(pubKeysBucket)
	pkBucket := bucket.Bucket(pubKey[:])
	if pkBucket == nil {
		return NotSlashable, nil
	}

	// First we check for double votes.
	signingRootsBucket := pkBucket.Bucket(attestationSigningRootsBucket)
	if signingRootsBucket != nil {
		targetEpochBytes := bytesutil.EpochToBytesBigEndian(att.Data.Target.Epoch)
		existingSigningRoot := signingRootsBucket.Get(targetEpochBytes)
		if existingSigningRoot != nil && !bytes.Equal(existingSigningRoot, signingRoot[:]) {
			return DoubleVote, fmt.Errorf(doubleVoteMessage, att.Data.Target.Epoch, existingSigningRoot)
		}
	}

	sourceEpochsBucket := pkBucket.Bucket(attestationSourceEpochsBucket)
	if sourceEpochsBucket == nil {
		return NotSlashable, nil
	}
	// Check for surround votes.
	slashKind := NotSlashable
	err := sourceEpochsBucket.ForEach(func(sourceEpochBytes []byte, targetEpochsBytes []byte) error {
		existingSourceEpoch := bytesutil.BytesToEpochBigEndian(sourceEpochBytes)

		// There can be multiple target epochs attested per source epoch.
		for i := 0; i+8 <= len(targetEpochsBytes); i += 8 {
			existingTargetEpoch := bytesutil.BytesToEpochBigEndian(targetEpochsBytes[i : i+8])
			surrounding := att.Data.Source.Epoch < existingSourceEpoch && existingTargetEpoch < att.Data.Target.Epoch
			surrounded := existingSourceEpoch < att.Data.Source.Epoch && att.Data.Target.Epoch < existingTargetEpoch
			if surrounding {
				slashKind = SurroundingVote
				return fmt.Errorf(
					surroundingVoteMessage,
					att.Data.Source.Epoch,
					att.Data.Target.Epoch,
					existingSourceEpoch,
					existingTargetEpoch,
				)
			}
			if surrounded {
				slashKind = SurroundedVote
				return fmt.Errorf(
					surroundedVoteMessage,
					att.Data.Source.Epoch,
					att.Data.Target.Epoch,
					existingSourceEpoch,
					existingTargetEpoch,
				)
			}
		}
		return nil
	})
	return slashKind, err
}

// saveAttestationRecord writes the attestation record into the source
// epochs and signing roots buckets for the validator and pushes down the
// lowest signed source and target epoch watermarks.
func saveAttestationRecord(
	tx *bolt.Tx, pubKey [48]byte, signingRoot [32]byte, att *ethpb.IndexedAttestation,
) error {
	bucket := tx.Bucket(pubKeysBucket)
	pkBucket, err := bucket.CreateBucketIfNotExists(pubKey[:])
	if err != nil {
		return errors.Wrap(err, "could not create public key bucket")
	}
	sourceEpochBytes := bytesutil.EpochToBytesBigEndian(att.Data.Source.Epoch)
	targetEpochBytes := bytesutil.EpochToBytesBigEndian(att.Data.Target.Epoch)

	signingRootsBucket, err := pkBucket.CreateBucketIfNotExists(attestationSigningRootsBucket)
	if err != nil {
		return errors.Wrap(err, "could not create signing roots bucket")
	}
	if err := signingRootsBucket.Put(targetEpochBytes, signingRoot[:]); err != nil {
		return errors.Wrapf(err, "could not save signing root for epoch %d", att.Data.Target.Epoch)
	}
	sourceEpochsBucket, err := pkBucket.CreateBucketIfNotExists(attestationSourceEpochsBucket)
	if err != nil {
		return errors.Wrap(err, "could not create source epochs bucket")
	}
	// There can be multiple attested target epochs per source epoch, so
	// the bucket keeps a list of 8-byte big-endian values per source.
	// Bolt owns the memory of values it returns, so the list is rebuilt
	// instead of appended in place.
	existing := sourceEpochsBucket.Get(sourceEpochBytes)
	existingAttestedTargetsBytes := make([]byte, 0, len(existing)+8)
	existingAttestedTargetsBytes = append(existingAttestedTargetsBytes, existing...)
	existingAttestedTargetsBytes = append(existingAttestedTargetsBytes, targetEpochBytes...)
	if err := sourceEpochsBucket.Put(sourceEpochBytes, existingAttestedTargetsBytes); err != nil {
		return errors.Wrapf(err, "could not save source epoch %d", att.Data.Source.Epoch)
	}
	targetEpochsBucket, err := pkBucket.CreateBucketIfNotExists(attestationTargetEpochsBucket)
	if err != nil {
		return errors.Wrap(err, "could not create target epochs bucket")
	}
	if err := targetEpochsBucket.Put(targetEpochBytes, sourceEpochBytes); err != nil {
		return errors.Wrapf(err, "could not save target epoch %d", att.Data.Target.Epoch)
	}

	if err := updateLowestSignedSourceEpoch(tx, pubKey, att.Data.Source.Epoch); err != nil {
		return err
	}
	return updateLowestSignedTargetEpoch(tx, pubKey, att.Data.Target.Epoch)
}

func updateLowestSignedSourceEpoch(tx *bolt.Tx, pubKey [48]byte, epoch types.Epoch) error {
	bucket := tx.Bucket(lowestSignedSourceBucket)
	lowestSignedSourceBytes := bucket.Get(pubKey[:])
	if len(lowestSignedSourceBytes) >= 8 {
		lowestSignedSource := bytesutil.BytesToEpochBigEndian(lowestSignedSourceBytes)
		if epoch >= lowestSignedSource {
			return nil
		}
	}
	return bucket.Put(pubKey[:], bytesutil.EpochToBytesBigEndian(epoch))
}

func updateLowestSignedTargetEpoch(tx *bolt.Tx, pubKey [48]byte, epoch types.Epoch) error {
	bucket := tx.Bucket(lowestSignedTargetBucket)
	lowestSignedTargetBytes := bucket.Get(pubKey[:])
	if len(lowestSignedTargetBytes) >= 8 {
		lowestSignedTarget := bytesutil.BytesToEpochBigEndian(lowestSignedTargetBytes)
		if epoch >= lowestSignedTarget {
			return nil
		}
	}
	return bucket.Put(pubKey[:], bytesutil.EpochToBytesBigEndian(epoch))
}

// LowestSignedSourceEpoch returns the lowest signed source epoch for a validator public key.
// If no data exists, returning 0 is a sensible default.
func (s *Store) LowestSignedSourceEpoch(ctx context.Context, publicKey [48]byte) (types.Epoch, bool, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.LowestSignedSourceEpoch")
	defer span.End()

	var epoch types.Epoch
	var exists bool
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lowestSignedSourceBucket)
		lowestSignedSourceBytes := bucket.Get(publicKey[:])
		// 8 bytes are required to store an epoch.
		if len(lowestSignedSourceBytes) < 8 {
			return nil
		}
		exists = true
		epoch = bytesutil.BytesToEpochBigEndian(lowestSignedSourceBytes)
		return nil
	})
	return epoch, exists, err
}

// LowestSignedTargetEpoch returns the lowest signed target epoch for a validator public key.
// If no data exists, returning 0 is a sensible default.
func (s *Store) LowestSignedTargetEpoch(ctx context.Context, publicKey [48]byte) (types.Epoch, bool, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.LowestSignedTargetEpoch")
	defer span.End()

	var epoch types.Epoch
	var exists bool
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lowestSignedTargetBucket)
		lowestSignedTargetBytes := bucket.Get(publicKey[:])
		// 8 bytes are required to store an epoch.
		if len(lowestSignedTargetBytes) < 8 {
			return nil
		}
		exists = true
		epoch = bytesutil.BytesToEpochBigEndian(lowestSignedTargetBytes)
		return nil
	})
	return epoch, exists, err
}

// SigningRootAtTargetEpoch retrieves the signing root for a validator
// public key at the requested target epoch, nil if none is recorded.
func (s *Store) SigningRootAtTargetEpoch(ctx context.Context, pubKey [48]byte, target types.Epoch) ([32]byte, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.SigningRootAtTargetEpoch")
	defer span.End()
	var signingRoot [32]byte
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pubKeysBucket)
		pkBucket := bucket.Bucket(pubKey[:])
		if pkBucket == nil {
			return nil
		}
		signingRootsBucket := pkBucket.Bucket(attestationSigningRootsBucket)
		if signingRootsBucket == nil {
			return nil
		}
		sr := signingRootsBucket.Get(bytesutil.EpochToBytesBigEndian(target))
		copy(signingRoot[:], sr)
		return nil
	})
	return signingRoot, err
}

// AttestedPublicKeys retrieves all public keys that have attested.
func (s *Store) AttestedPublicKeys(ctx context.Context) ([][48]byte, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.AttestedPublicKeys")
	defer span.End()
	var err error
	attestedPublicKeys := make([][48]byte, 0)
	err = s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pubKeysBucket)
		return bucket.ForEach(func(pubKey []byte, _ []byte) error {
			pubKeyBytes := [48]byte{}
			copy(pubKeyBytes[:], pubKey)
			attestedPublicKeys = append(attestedPublicKeys, pubKeyBytes)
			return nil
		})
	})
	return attestedPublicKeys, err
}

// AttestationHistoryForPubKey retrieves a list of attestation records
// for the validator public key, walking the source epochs bucket.
func (s *Store) AttestationHistoryForPubKey(ctx context.Context, pubKey [48]byte) ([]*AttestationRecord, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.AttestationHistoryForPubKey")
	defer span.End()
	records := make([]*AttestationRecord, 0)
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pubKeysBucket)
		pkBucket := bucket.Bucket(pubKey[:])
		if pkBucket == nil {
			return nil
		}
		signingRootsBucket := pkBucket.Bucket(attestationSigningRootsBucket)
		sourceEpochsBucket := pkBucket.Bucket(attestationSourceEpochsBucket)
		if sourceEpochsBucket == nil {
			return nil
		}
		return sourceEpochsBucket.ForEach(func(sourceBytes, targetEpochsBytes []byte) error {
			source := bytesutil.BytesToEpochBigEndian(sourceBytes)
			for i := 0; i+8 <= len(targetEpochsBytes); i += 8 {
				target := bytesutil.BytesToEpochBigEndian(targetEpochsBytes[i : i+8])
				record := &AttestationRecord{
					PubKey: pubKey,
					Source: source,
					Target: target,
				}
				if signingRootsBucket != nil {
					sr := signingRootsBucket.Get(targetEpochsBytes[i : i+8])
					copy(record.SigningRoot[:], sr)
				}
				records = append(records, record)
			}
			return nil
		})
	})
	return records, err
}
