package attestations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/testing/util"
	pharosTime "github.com/pharoslabs/pharos/time"
	"github.com/prysmaticlabs/go-bitfield"
)

func TestStop_OK(t *testing.T) {
	s, err := NewService(context.Background(), &Config{Pool: NewPool()})
	require.NoError(t, err)
	require.NoError(t, s.Stop(), "Unable to stop attestation pool service")
}

func TestStatus_Error(t *testing.T) {
	err := errors.New("bad bad bad")
	s := &Service{err: err}
	assert.ErrorContains(t, s.err.Error(), s.Status())
}

func TestService_PruneExpiredAtts(t *testing.T) {
	s, err := NewService(context.Background(), &Config{Pool: NewPool()})
	require.NoError(t, err)

	ad1 := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 0})
	ad2 := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 1})
	att1 := util.HydrateAttestation(&ethpb.Attestation{Data: ad1, AggregationBits: bitfield.Bitlist{0b1101}})
	att2 := util.HydrateAttestation(&ethpb.Attestation{Data: ad1, AggregationBits: bitfield.Bitlist{0b1110}})
	att3 := util.HydrateAttestation(&ethpb.Attestation{Data: ad2, AggregationBits: bitfield.Bitlist{0b1101}})
	att4 := util.HydrateAttestation(&ethpb.Attestation{Data: ad2, AggregationBits: bitfield.Bitlist{0b1001}})
	atts := []*ethpb.Attestation{att1, att2, att3}
	require.NoError(t, s.pool.SaveAggregatedAttestations(atts))
	require.NoError(t, s.pool.SaveUnaggregatedAttestation(att4))
	require.NoError(t, s.pool.SaveBlockAttestation(att1))

	// Rewind genesis such that every saved attestation is expired by one epoch.
	s.genesisTime = uint64(pharosTime.Now().Unix()) - 2*uint64(params.BeaconConfig().SlotsPerEpoch.Mul(params.BeaconConfig().SecondsPerSlot))

	s.pruneExpiredAtts()
	assert.Equal(t, 0, s.pool.AggregatedAttestationCount())
	assert.Equal(t, 0, s.pool.UnaggregatedAttestationCount())
	assert.Equal(t, 0, len(s.pool.BlockAttestations()))
}

func TestService_Expired(t *testing.T) {
	s, err := NewService(context.Background(), &Config{Pool: NewPool()})
	require.NoError(t, err)

	secsInEpoch := uint64(params.BeaconConfig().SlotsPerEpoch.Mul(params.BeaconConfig().SecondsPerSlot))
	s.genesisTime = uint64(pharosTime.Now().Unix()) - 2*secsInEpoch

	// Attestation from genesis epoch is expired, one from the current epoch is not.
	assert.Equal(t, true, s.expired(0))
	assert.Equal(t, false, s.expired(2*params.BeaconConfig().SlotsPerEpoch))
}

func TestService_PruneRoutineExits(t *testing.T) {
	s, err := NewService(context.Background(), &Config{Pool: NewPool(), pruneInterval: time.Millisecond})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.pruneAttsPool()
		close(done)
	}()
	require.NoError(t, s.Stop())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("prune routine did not exit on service stop")
	}
}
