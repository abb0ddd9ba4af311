package derived

import (
	"context"
	"testing"

	"github.com/pharoslabs/pharos/crypto/bls"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/validator/keymanager"
	"github.com/tyler-smith/go-bip39"
)

func testMnemonic(t *testing.T) string {
	// Fixed entropy gives a stable seed phrase for deterministic derivation.
	mnemonic, err := bip39.NewMnemonic(make([]byte, 32))
	require.NoError(t, err)
	return mnemonic
}

func TestDerivedKeymanager_DeterministicAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{Mnemonic: testMnemonic(t), NumAccounts: 4}
	dr, err := NewKeymanager(ctx, cfg)
	require.NoError(t, err)
	first, err := dr.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, len(first))

	recovered, err := NewKeymanager(ctx, cfg)
	require.NoError(t, err)
	second, err := recovered.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.DeepEqual(t, first, second)

	// Each account index derives a distinct key.
	seen := make(map[[48]byte]bool)
	for _, pubKey := range first {
		require.Equal(t, false, seen[pubKey])
		seen[pubKey] = true
	}
}

func TestDerivedKeymanager_PassphraseChangesKeys(t *testing.T) {
	ctx := context.Background()
	mnemonic := testMnemonic(t)
	plain, err := NewKeymanager(ctx, &Config{Mnemonic: mnemonic, NumAccounts: 1})
	require.NoError(t, err)
	protected, err := NewKeymanager(ctx, &Config{Mnemonic: mnemonic, MnemonicPassphrase: "25th word", NumAccounts: 1})
	require.NoError(t, err)
	plainKeys, err := plain.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	protectedKeys, err := protected.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.NotEqual(t, plainKeys[0], protectedKeys[0])
}

func TestDerivedKeymanager_Sign(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{Mnemonic: testMnemonic(t), NumAccounts: 2})
	require.NoError(t, err)
	publicKeys, err := dr.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)

	signingRoot := bytesutil.ToBytes32([]byte("derived signing root"))
	sig, err := dr.Sign(ctx, &keymanager.SignRequest{
		PublicKey:   publicKeys[1][:],
		SigningRoot: signingRoot[:],
	})
	require.NoError(t, err)
	pubKey, err := bls.PublicKeyFromBytes(publicKeys[1][:])
	require.NoError(t, err)
	assert.Equal(t, true, sig.Verify(pubKey, signingRoot[:]))
}

func TestDerivedKeymanager_Sign_NoSuchKey(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{Mnemonic: testMnemonic(t), NumAccounts: 1})
	require.NoError(t, err)
	unknown := [48]byte{0xaa}
	_, err = dr.Sign(ctx, &keymanager.SignRequest{PublicKey: unknown[:], SigningRoot: make([]byte, 32)})
	require.ErrorIs(t, keymanager.ErrNoSuchKey, err)
}

func TestNewKeymanager_RejectsBadMnemonic(t *testing.T) {
	_, err := NewKeymanager(context.Background(), &Config{Mnemonic: "clearly not a seed phrase", NumAccounts: 1})
	require.ErrorContains(t, "invalid bip39 mnemonic", err)
}

func TestGenerateMnemonic_Validates(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	require.NoError(t, err)
	require.NoError(t, ValidateMnemonic(mnemonic))
}
