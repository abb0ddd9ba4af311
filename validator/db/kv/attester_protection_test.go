package kv

import (
	"context"
	"testing"

	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	types "github.com/prysmaticlabs/eth2-types"
	bolt "go.etcd.io/bbolt"
)

func TestStore_CheckSlashableAttestation_DoubleVote(t *testing.T) {
	ctx := context.Background()
	numValidators := 1
	pubKeys := make([][48]byte, numValidators)
	validatorDB := setupDB(t, pubKeys)
	tests := []struct {
		name                string
		existingAttestation *ethpb.IndexedAttestation
		existingSigningRoot [32]byte
		incomingAttestation *ethpb.IndexedAttestation
		incomingSigningRoot [32]byte
		want                bool
	}{
		{
			name:                "different signing root at same target equals a double vote",
			existingAttestation: createAttestation(0, 1 /* target */),
			existingSigningRoot: [32]byte{1},
			incomingAttestation: createAttestation(0, 1 /* target */),
			incomingSigningRoot: [32]byte{2},
			want:                true,
		},
		{
			name:                "same signing root at same target is safe",
			existingAttestation: createAttestation(0, 1 /* target */),
			existingSigningRoot: [32]byte{1},
			incomingAttestation: createAttestation(0, 1 /* target */),
			incomingSigningRoot: [32]byte{1},
			want:                false,
		},
		{
			name:                "different signing root at different target is safe",
			existingAttestation: createAttestation(0, 1 /* target */),
			existingSigningRoot: [32]byte{1},
			incomingAttestation: createAttestation(0, 2 /* target */),
			incomingSigningRoot: [32]byte{2},
			want:                false,
		},
		{
			name:                "no data stored at target should not be considered a double vote",
			existingAttestation: createAttestation(0, 1 /* target */),
			existingSigningRoot: [32]byte{1},
			incomingAttestation: createAttestation(0, 2 /* target */),
			incomingSigningRoot: [32]byte{1},
			want:                false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validatorDB.SaveAttestationForPubKey(
				ctx,
				pubKeys[0],
				tt.existingSigningRoot,
				tt.existingAttestation,
			)
			require.NoError(t, err)
			slashingKind, err := validatorDB.CheckSlashableAttestation(
				ctx,
				pubKeys[0],
				tt.incomingSigningRoot,
				tt.incomingAttestation,
			)
			if tt.want {
				require.NotNil(t, err)
				assert.Equal(t, DoubleVote, slashingKind)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStore_CheckSlashableAttestation_SurroundVote_54kEpochs(t *testing.T) {
	ctx := context.Background()
	numValidators := 1
	numEpochs := types.Epoch(54000)
	pubKeys := make([][48]byte, numValidators)
	validatorDB := setupDB(t, pubKeys)

	// Attest to every (source = epoch, target = epoch + 1) sequential pair
	// since genesis up to and including the weak subjectivity period epoch (54,000).
	err := validatorDB.update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(pubKeysBucket)
		pkBucket, err := bucket.CreateBucketIfNotExists(pubKeys[0][:])
		if err != nil {
			return err
		}
		sourceEpochsBucket, err := pkBucket.CreateBucketIfNotExists(attestationSourceEpochsBucket)
		if err != nil {
			return err
		}
		for epoch := types.Epoch(1); epoch < numEpochs; epoch++ {
			att := createAttestation(epoch-1, epoch)
			sourceEpoch := bytesutil.EpochToBytesBigEndian(att.Data.Source.Epoch)
			targetEpoch := bytesutil.EpochToBytesBigEndian(att.Data.Target.Epoch)
			if err := sourceEpochsBucket.Put(sourceEpoch, targetEpoch); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		signingRoot [32]byte
		attestation *ethpb.IndexedAttestation
		want        SlashingKind
	}{
		{
			name:        "surround vote at half of the weak subjectivity period",
			signingRoot: [32]byte{},
			attestation: createAttestation(numEpochs/2, numEpochs),
			want:        SurroundingVote,
		},
		{
			name:        "spanning genesis to weak subjectivity period surround vote",
			signingRoot: [32]byte{},
			attestation: createAttestation(0, numEpochs),
			want:        SurroundingVote,
		},
		{
			name:        "simple surround vote at end of weak subjectivity period",
			signingRoot: [32]byte{},
			attestation: createAttestation(numEpochs-3, numEpochs),
			want:        SurroundingVote,
		},
		{
			name:        "non-slashable vote",
			signingRoot: [32]byte{},
			attestation: createAttestation(numEpochs, numEpochs+1),
			want:        NotSlashable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slashingKind, err := validatorDB.CheckSlashableAttestation(ctx, pubKeys[0], tt.signingRoot, tt.attestation)
			if tt.want != NotSlashable {
				require.NotNil(t, err)
			}
			assert.Equal(t, tt.want, slashingKind)
		})
	}
}

func TestStore_CheckSlashableAttestation_SurroundedVote(t *testing.T) {
	ctx := context.Background()
	pubKeys := [][48]byte{{1}}
	validatorDB := setupDB(t, pubKeys)

	_, err := validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{1}, createAttestation(2, 10))
	require.NoError(t, err)

	slashingKind, err := validatorDB.CheckSlashableAttestation(ctx, pubKeys[0], [32]byte{2}, createAttestation(4, 6))
	require.NotNil(t, err)
	assert.Equal(t, SurroundedVote, slashingKind)
}

func TestStore_SaveAttestationForPubKey_RejectsConflict(t *testing.T) {
	ctx := context.Background()
	pubKeys := [][48]byte{{1}}
	validatorDB := setupDB(t, pubKeys)

	_, err := validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{1}, createAttestation(0, 3))
	require.NoError(t, err)

	// A double vote must not be recorded.
	kind, err := validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{2}, createAttestation(0, 3))
	require.NotNil(t, err)
	assert.Equal(t, DoubleVote, kind)

	// The original signing root survives at the target epoch.
	signingRoot, err := validatorDB.SigningRootAtTargetEpoch(ctx, pubKeys[0], 3)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{1}, signingRoot)
}

func TestStore_LowestSignedSourceAndTargetEpoch(t *testing.T) {
	ctx := context.Background()
	pubKeys := [][48]byte{{1}}
	validatorDB := setupDB(t, pubKeys)

	_, exists, err := validatorDB.LowestSignedSourceEpoch(ctx, pubKeys[0])
	require.NoError(t, err)
	assert.Equal(t, false, exists)

	_, err = validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{1}, createAttestation(4, 5))
	require.NoError(t, err)
	_, err = validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{2}, createAttestation(2, 3))
	require.NoError(t, err)

	source, exists, err := validatorDB.LowestSignedSourceEpoch(ctx, pubKeys[0])
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, types.Epoch(2), source)

	target, exists, err := validatorDB.LowestSignedTargetEpoch(ctx, pubKeys[0])
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, types.Epoch(3), target)
}

func TestStore_AttestationHistoryForPubKey(t *testing.T) {
	ctx := context.Background()
	pubKeys := [][48]byte{{1}}
	validatorDB := setupDB(t, pubKeys)

	history, err := validatorDB.AttestationHistoryForPubKey(ctx, pubKeys[0])
	require.NoError(t, err)
	assert.Equal(t, 0, len(history))

	_, err = validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{4}, createAttestation(0, 4))
	require.NoError(t, err)
	_, err = validatorDB.SaveAttestationForPubKey(ctx, pubKeys[0], [32]byte{5}, createAttestation(0, 5))
	require.NoError(t, err)

	history, err = validatorDB.AttestationHistoryForPubKey(ctx, pubKeys[0])
	require.NoError(t, err)
	wanted := []*AttestationRecord{
		{
			PubKey:      pubKeys[0],
			Source:      0,
			Target:      4,
			SigningRoot: [32]byte{4},
		},
		{
			PubKey:      pubKeys[0],
			Source:      0,
			Target:      5,
			SigningRoot: [32]byte{5},
		},
	}
	assert.DeepEqual(t, wanted, history)
}

func TestStore_AttestedPublicKeys(t *testing.T) {
	ctx := context.Background()
	validatorDB := setupDB(t, nil)

	keys, err := validatorDB.AttestedPublicKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, len(keys))

	pubKey := [48]byte{7}
	_, err = validatorDB.SaveAttestationForPubKey(ctx, pubKey, [32]byte{1}, createAttestation(0, 1))
	require.NoError(t, err)

	keys, err = validatorDB.AttestedPublicKeys(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, [][48]byte{pubKey}, keys)
}

func createAttestation(source, target types.Epoch) *ethpb.IndexedAttestation {
	return &ethpb.IndexedAttestation{
		Data: &ethpb.AttestationData{
			Source: &ethpb.Checkpoint{
				Epoch: source,
			},
			Target: &ethpb.Checkpoint{
				Epoch: target,
			},
		},
	}
}
