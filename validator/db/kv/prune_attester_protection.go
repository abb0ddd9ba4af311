package kv

import (
	"context"

	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	types "github.com/prysmaticlabs/eth2-types"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// PruneAttestations loops through every public key in the public keys
// bucket and prunes all attestation data with target epochs older than
// the highest target epoch minus the weak subjectivity period. This
// routine is meant to run on startup.
func (s *Store) PruneAttestations(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "Validator.PruneAttestations")
	defer span.End()
	return s.update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pubKeysBucket)
		return bucket.ForEach(func(pubKey []byte, _ []byte) error {
			pkBucket := bucket.Bucket(pubKey)
			if pkBucket == nil {
				return nil
			}
			if err := pruneSourceEpochsBucket(pkBucket); err != nil {
				return err
			}
			if err := pruneTargetEpochsBucket(pkBucket); err != nil {
				return err
			}
			return pruneSigningRootsBucket(pkBucket)
		})
	})
}

func olderThanHorizon(highestTargetEpoch types.Epoch) types.Epoch {
	horizon := params.BeaconConfig().WeakSubjectivityPeriod
	if highestTargetEpoch <= horizon {
		return 0
	}
	return highestTargetEpoch - horizon
}

func pruneSourceEpochsBucket(bucket *bolt.Bucket) error {
	sourceEpochsBucket := bucket.Bucket(attestationSourceEpochsBucket)
	if sourceEpochsBucket == nil {
		return nil
	}
	// The highest target epoch corresponds to the highest source epoch.
	highestSourceEpochBytes, _ := sourceEpochsBucket.Cursor().Last()
	highestTargetEpochBytes := sourceEpochsBucket.Get(highestSourceEpochBytes)
	minEpoch := olderThanHorizon(bytesutil.BytesToEpochBigEndian(highestTargetEpochBytes))

	c := sourceEpochsBucket.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		targetEpoch := bytesutil.BytesToEpochBigEndian(v)
		if targetEpoch >= minEpoch {
			// Keys ascend, so everything from here on is within the horizon.
			break
		}
		if err := c.Delete(); err != nil {
			return err
		}
	}
	return nil
}

func pruneTargetEpochsBucket(bucket *bolt.Bucket) error {
	targetEpochsBucket := bucket.Bucket(attestationTargetEpochsBucket)
	if targetEpochsBucket == nil {
		return nil
	}
	highestTargetEpochBytes, _ := targetEpochsBucket.Cursor().Last()
	minEpoch := olderThanHorizon(bytesutil.BytesToEpochBigEndian(highestTargetEpochBytes))

	c := targetEpochsBucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		targetEpoch := bytesutil.BytesToEpochBigEndian(k)
		if targetEpoch >= minEpoch {
			break
		}
		if err := c.Delete(); err != nil {
			return err
		}
	}
	return nil
}

func pruneSigningRootsBucket(bucket *bolt.Bucket) error {
	signingRootsBucket := bucket.Bucket(attestationSigningRootsBucket)
	if signingRootsBucket == nil {
		return nil
	}
	highestTargetEpochBytes, _ := signingRootsBucket.Cursor().Last()
	minEpoch := olderThanHorizon(bytesutil.BytesToEpochBigEndian(highestTargetEpochBytes))

	c := signingRootsBucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		targetEpoch := bytesutil.BytesToEpochBigEndian(k)
		if targetEpoch >= minEpoch {
			break
		}
		if err := c.Delete(); err != nil {
			return err
		}
	}
	return nil
}
