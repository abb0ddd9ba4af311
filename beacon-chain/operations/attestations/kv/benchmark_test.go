package kv_test

import (
	"testing"

	"github.com/pharoslabs/pharos/beacon-chain/operations/attestations/kv"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/testing/util"
	"github.com/prysmaticlabs/go-bitfield"
)

func BenchmarkAttCaches(b *testing.B) {
	ac := kv.NewAttCaches()

	att := util.HydrateAttestation(&ethpb.Attestation{AggregationBits: bitfield.Bitlist{0b1001}})

	for i := 0; i < b.N; i++ {
		if err := ac.SaveUnaggregatedAttestation(att); err != nil {
			b.Error(err)
		}
		if err := ac.DeleteUnaggregatedAttestation(att); err != nil {
			b.Error(err)
		}
	}
}
