package hash_test

import (
	"encoding/hex"
	"testing"

	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
)

func TestHash(t *testing.T) {
	hashOf0 := [32]byte{110, 52, 11, 156, 255, 179, 122, 152, 156, 165, 68, 230, 187, 120, 10, 44, 120, 144, 29, 63, 179, 55, 56, 118, 133, 17, 163, 6, 23, 175, 160, 29}
	h := hash.Hash([]byte{0})
	assert.Equal(t, hashOf0, h)

	hashOf1 := [32]byte{75, 245, 18, 47, 52, 69, 84, 197, 59, 222, 46, 187, 140, 210, 183, 227, 209, 96, 10, 214, 49, 195, 133, 165, 215, 204, 226, 60, 119, 133, 69, 154}
	h = hash.Hash([]byte{1})
	assert.Equal(t, hashOf1, h)

	// Same input must always produce the same output.
	h2 := hash.Hash([]byte{1})
	assert.Equal(t, h, h2)
}

func TestHash_ConcurrentOK(t *testing.T) {
	// The pooled hasher must be safe under concurrent callers.
	want := hash.Hash([]byte("abc"))
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if got := hash.Hash([]byte("abc")); got != want {
					t.Errorf("concurrent Hash() = %#x, wanted %#x", got, want)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestCustomSHA256Hasher(t *testing.T) {
	hasher := hash.CustomSHA256Hasher()
	val, err := hex.DecodeString("c3ab8ff13720e8ad9047dd39466b3c8974e592c2fa383d4a3960714caef0c4f2")
	require.NoError(t, err)
	h := hasher([]byte("foobar"))
	assert.DeepEqual(t, val, h[:])
	// Hashing twice with the same enclosed hasher must reset internal state.
	h2 := hasher([]byte("foobar"))
	assert.Equal(t, h, h2)
}

func TestFastSum(t *testing.T) {
	// Fixed key means fixed sums across runs.
	a := hash.FastSum64([]byte("some key"))
	b := hash.FastSum64([]byte("some key"))
	assert.Equal(t, a, b)
	c := hash.FastSum64([]byte("other key"))
	assert.NotEqual(t, a, c)

	d := hash.FastSum256([]byte("some key"))
	e := hash.FastSum256([]byte("some key"))
	assert.Equal(t, d, e)
}
