package herumi_test

import (
	"errors"
	"testing"

	"github.com/pharoslabs/pharos/crypto/bls/common"
	"github.com/pharoslabs/pharos/crypto/bls/herumi"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
)

func TestPublicKeyFromBytes(t *testing.T) {
	validKey := []byte{
		0xa9, 0x9a, 0x76, 0xed, 0x77, 0x96, 0xf7, 0xbe, 0x22, 0xd5, 0xb7, 0xe8, 0x5d, 0xee, 0xb7, 0xc5,
		0x67, 0x7e, 0x88, 0xe5, 0x11, 0xe0, 0xb3, 0x37, 0x61, 0x8f, 0x8c, 0x4e, 0xb6, 0x13, 0x49, 0xb4,
		0xbf, 0x2d, 0x15, 0x3f, 0x64, 0x9f, 0x7b, 0x53, 0x35, 0x9f, 0xe8, 0xb9, 0x4a, 0x38, 0xe4, 0x4c,
	}
	tests := []struct {
		name  string
		input []byte
		err   error
	}{
		{
			name: "Nil",
			err:  errors.New("public key must be 48 bytes"),
		},
		{
			name:  "Empty",
			input: []byte{},
			err:   errors.New("public key must be 48 bytes"),
		},
		{
			name:  "NoOfBytesSmallerThan48",
			input: make([]byte, 47),
			err:   errors.New("public key must be 48 bytes"),
		},
		{
			name:  "NoOfBytesLargerThan48",
			input: make([]byte, 49),
			err:   errors.New("public key must be 48 bytes"),
		},
		{
			name:  "Infinite",
			input: common.InfinitePublicKey[:],
			err:   common.ErrInfinitePubKey,
		},
		{
			name:  "Bad",
			input: bytesutil.ReverseByteOrder(validKey),
			err:   errors.New("could not unmarshal bytes into public key"),
		},
		{
			name:  "Good",
			input: validKey,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := herumi.PublicKeyFromBytes(test.input)
			if test.err != nil {
				assert.NotEqual(t, nil, err, "No error returned")
				assert.ErrorContains(t, test.err.Error(), err, "Unexpected error returned")
			} else {
				assert.NoError(t, err)
				assert.DeepEqual(t, test.input, res.Marshal())
			}
		})
	}
}

func TestPublicKey_Copy(t *testing.T) {
	priv, err := herumi.RandKey()
	require.NoError(t, err)
	pubkeyA := priv.PublicKey()
	pubkeyBytes := pubkeyA.Marshal()

	priv2, err := herumi.RandKey()
	require.NoError(t, err)
	pubkeyB := pubkeyA.Copy()
	pubkeyB.Aggregate(priv2.PublicKey())

	assert.DeepEqual(t, pubkeyA.Marshal(), pubkeyBytes, "Pubkey was mutated after copy")
}

func TestPublicKey_Aggregate(t *testing.T) {
	priv, err := herumi.RandKey()
	require.NoError(t, err)
	pubkeyA := priv.PublicKey()

	priv2, err := herumi.RandKey()
	require.NoError(t, err)
	pubkeyB := priv2.PublicKey()

	aggregated := pubkeyA.Copy().Aggregate(pubkeyB)
	viaHelper, err := herumi.AggregatePublicKeys([][]byte{priv.PublicKey().Marshal(), priv2.PublicKey().Marshal()})
	require.NoError(t, err)
	assert.DeepEqual(t, viaHelper.Marshal(), aggregated.Marshal(), "Pubkey does not match up")
}

func TestPublicKeysEmpty(t *testing.T) {
	var pubs [][]byte
	_, err := herumi.AggregatePublicKeys(pubs)
	assert.ErrorContains(t, "nil or empty public keys", err)
}
