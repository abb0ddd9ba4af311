package herumi_test

import (
	"testing"

	"github.com/pharoslabs/pharos/crypto/bls/common"
	"github.com/pharoslabs/pharos/crypto/bls/herumi"
	"github.com/pharoslabs/pharos/testing/require"
)

func BenchmarkSignature_Verify(b *testing.B) {
	sk, err := herumi.RandKey()
	require.NoError(b, err)

	msg := []byte("Some msg")
	sig := sk.Sign(msg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !sig.Verify(sk.PublicKey(), msg) {
			b.Fatal("could not verify sig")
		}
	}
}

func BenchmarkSignature_AggregateVerify(b *testing.B) {
	sigN := 128 // MAX_ATTESTATIONS per block.

	var pks []common.PublicKey
	var sigs []common.Signature
	var msgs [][32]byte
	for i := 0; i < sigN; i++ {
		msg := [32]byte{'s', 'i', 'g', 'n', 'e', 'd', byte(i)}
		sk, err := herumi.RandKey()
		require.NoError(b, err)
		sig := sk.Sign(msg[:])
		pks = append(pks, sk.PublicKey())
		sigs = append(sigs, sig)
		msgs = append(msgs, msg)
	}
	aggregated := herumi.AggregateSignatures(sigs)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !aggregated.AggregateVerify(pks, msgs) {
			b.Fatal("could not verify aggregate sig")
		}
	}
}

func BenchmarkSecretKey_Marshal(b *testing.B) {
	key, err := herumi.RandKey()
	require.NoError(b, err)
	d := key.Marshal()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := herumi.SecretKeyFromBytes(d)
		_ = err
	}
}
