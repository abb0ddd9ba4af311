package kv

import (
	"bytes"
	"context"

	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/time/slots"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// Proposal representation for a validator public key.
type Proposal struct {
	Slot        types.Slot
	SigningRoot []byte
}

// ProposalHistoryForSlot accepts a validator public key and returns the
// corresponding signing root as well as a boolean that tells us if we
// have a proposal history stored at the slot.
func (s *Store) ProposalHistoryForSlot(ctx context.Context, publicKey [48]byte, slot types.Slot) ([32]byte, bool, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.ProposalHistoryForSlot")
	defer span.End()

	var proposalExists bool
	signingRoot := [32]byte{}
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(historicProposalsBucket)
		valBucket := bucket.Bucket(publicKey[:])
		if valBucket == nil {
			return nil
		}
		signingRootBytes := valBucket.Get(bytesutil.SlotToBytesBigEndian(slot))
		if signingRootBytes == nil {
			return nil
		}
		proposalExists = true
		copy(signingRoot[:], signingRootBytes)
		return nil
	})
	return signingRoot, proposalExists, err
}

// SlashableProposalCheck returns an error if the incoming proposal at
// the slot conflicts with a previously signed one under a different
// signing root. The check and the record write execute in one bolt
// transaction so two conflicting proposals can never both pass.
func (s *Store) SlashableProposalCheck(
	ctx context.Context, pubKey [48]byte, slot types.Slot, signingRoot [32]byte,
) error {
	ctx, span := trace.StartSpan(ctx, "Validator.SlashableProposalCheck")
	defer span.End()

	err := s.update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(historicProposalsBucket)
		valBucket, err := bucket.CreateBucketIfNotExists(pubKey[:])
		if err != nil {
			return errors.Wrap(err, "could not create proposal history bucket")
		}
		slotBytes := bytesutil.SlotToBytesBigEndian(slot)
		existingSigningRoot := valBucket.Get(slotBytes)
		if existingSigningRoot != nil && !bytes.Equal(existingSigningRoot, signingRoot[:]) {
			return errors.Errorf(
				"attempted to sign a double proposal at slot %d, existing signing root %#x",
				slot,
				existingSigningRoot,
			)
		}
		return saveProposalRecord(tx, valBucket, pubKey, slot, signingRoot[:])
	})
	if err == nil {
		proposalRecordsSavedTotal.Inc()
	}
	return err
}

// SaveProposalHistoryForSlot saves the proposal history for the
// requested validator public key at the slot.
func (s *Store) SaveProposalHistoryForSlot(ctx context.Context, pubKey [48]byte, slot types.Slot, signingRoot []byte) error {
	ctx, span := trace.StartSpan(ctx, "Validator.SaveProposalHistoryForSlot")
	defer span.End()

	err := s.update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(historicProposalsBucket)
		valBucket, err := bucket.CreateBucketIfNotExists(pubKey[:])
		if err != nil {
			return errors.Wrap(err, "could not create proposal history bucket")
		}
		return saveProposalRecord(tx, valBucket, pubKey, slot, signingRoot)
	})
	if err == nil {
		proposalRecordsSavedTotal.Inc()
	}
	return err
}

func saveProposalRecord(tx *bolt.Tx, valBucket *bolt.Bucket, pubKey [48]byte, slot types.Slot, signingRoot []byte) error {
	if err := valBucket.Put(bytesutil.SlotToBytesBigEndian(slot), signingRoot); err != nil {
		return err
	}
	if err := pruneProposalHistoryBySlot(valBucket, slot); err != nil {
		return err
	}
	if err := updateLowestSignedProposal(tx, pubKey, slot); err != nil {
		return err
	}
	return updateHighestSignedProposal(tx, pubKey, slot)
}

// ProposalHistoryForPubKey returns the entire proposal history for a
// validator public key, ordered by slot.
func (s *Store) ProposalHistoryForPubKey(ctx context.Context, publicKey [48]byte) ([]*Proposal, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.ProposalHistoryForPubKey")
	defer span.End()

	proposals := make([]*Proposal, 0)
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(historicProposalsBucket)
		valBucket := bucket.Bucket(publicKey[:])
		if valBucket == nil {
			return nil
		}
		return valBucket.ForEach(func(slotKey, signingRootBytes []byte) error {
			slot := bytesutil.BytesToSlotBigEndian(slotKey)
			sr := make([]byte, 32)
			copy(sr, signingRootBytes)
			proposals = append(proposals, &Proposal{
				Slot:        slot,
				SigningRoot: sr,
			})
			return nil
		})
	})
	return proposals, err
}

// ProposedPublicKeys retrieves all public keys with a proposal history.
func (s *Store) ProposedPublicKeys(ctx context.Context) ([][48]byte, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.ProposedPublicKeys")
	defer span.End()
	var err error
	proposedPublicKeys := make([][48]byte, 0)
	err = s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(historicProposalsBucket)
		return bucket.ForEach(func(pubKey []byte, _ []byte) error {
			pubKeyBytes := [48]byte{}
			copy(pubKeyBytes[:], pubKey)
			proposedPublicKeys = append(proposedPublicKeys, pubKeyBytes)
			return nil
		})
	})
	return proposedPublicKeys, err
}

// LowestSignedProposal returns the lowest signed proposal slot for a
// validator public key and whether any proposal was recorded at all.
func (s *Store) LowestSignedProposal(ctx context.Context, publicKey [48]byte) (types.Slot, bool, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.LowestSignedProposal")
	defer span.End()

	var slot types.Slot
	var exists bool
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lowestSignedProposalsBucket)
		lowestSignedProposalBytes := bucket.Get(publicKey[:])
		// 8 bytes are required to store a slot.
		if len(lowestSignedProposalBytes) < 8 {
			return nil
		}
		exists = true
		slot = bytesutil.BytesToSlotBigEndian(lowestSignedProposalBytes)
		return nil
	})
	return slot, exists, err
}

// HighestSignedProposal returns the highest signed proposal slot for a
// validator public key and whether any proposal was recorded at all.
func (s *Store) HighestSignedProposal(ctx context.Context, publicKey [48]byte) (types.Slot, bool, error) {
	ctx, span := trace.StartSpan(ctx, "Validator.HighestSignedProposal")
	defer span.End()

	var slot types.Slot
	var exists bool
	err := s.view(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(highestSignedProposalsBucket)
		highestSignedProposalBytes := bucket.Get(publicKey[:])
		// 8 bytes are required to store a slot.
		if len(highestSignedProposalBytes) < 8 {
			return nil
		}
		exists = true
		slot = bytesutil.BytesToSlotBigEndian(highestSignedProposalBytes)
		return nil
	})
	return slot, exists, err
}

func updateLowestSignedProposal(tx *bolt.Tx, pubKey [48]byte, slot types.Slot) error {
	bucket := tx.Bucket(lowestSignedProposalsBucket)
	lowestSignedProposalBytes := bucket.Get(pubKey[:])
	if len(lowestSignedProposalBytes) >= 8 {
		lowestSignedProposalSlot := bytesutil.BytesToSlotBigEndian(lowestSignedProposalBytes)
		if slot >= lowestSignedProposalSlot {
			return nil
		}
	}
	return bucket.Put(pubKey[:], bytesutil.SlotToBytesBigEndian(slot))
}

func updateHighestSignedProposal(tx *bolt.Tx, pubKey [48]byte, slot types.Slot) error {
	bucket := tx.Bucket(highestSignedProposalsBucket)
	highestSignedProposalBytes := bucket.Get(pubKey[:])
	if len(highestSignedProposalBytes) >= 8 {
		highestSignedProposalSlot := bytesutil.BytesToSlotBigEndian(highestSignedProposalBytes)
		if slot <= highestSignedProposalSlot {
			return nil
		}
	}
	return bucket.Put(pubKey[:], bytesutil.SlotToBytesBigEndian(slot))
}

func pruneProposalHistoryBySlot(valBucket *bolt.Bucket, newestSlot types.Slot) error {
	c := valBucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.First() {
		slot := bytesutil.BytesToSlotBigEndian(k)
		epoch := slots.ToEpoch(slot)
		newestEpoch := slots.ToEpoch(newestSlot)
		// Only delete epochs that are older than the weak subjectivity period.
		if epoch+params.BeaconConfig().WeakSubjectivityPeriod <= newestEpoch {
			if err := c.Delete(); err != nil {
				return errors.Wrapf(err, "could not prune epoch %d in proposal history", epoch)
			}
		} else {
			// If starting from the oldest, we dont find anything prunable, stop pruning.
			break
		}
	}
	return nil
}
