package local

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/pharoslabs/pharos/crypto/bls"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pharoslabs/pharos/validator/keymanager"
	keystorev4 "github.com/wealdtech/go-eth2-wallet-encryptor-keystorev4"
)

const password = "secretPassw0rd$1999"

func createRandomKeystore(t *testing.T, password string) (*keymanager.Keystore, bls.SecretKey) {
	encryptor := keystorev4.New()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	validatingKey, err := bls.RandKey()
	require.NoError(t, err)
	pubKey := validatingKey.PublicKey().Marshal()
	cryptoFields, err := encryptor.Encrypt(validatingKey.Marshal(), password)
	require.NoError(t, err)
	return &keymanager.Keystore{
		Crypto:  cryptoFields,
		Pubkey:  fmt.Sprintf("%x", pubKey),
		ID:      id.String(),
		Version: encryptor.Version(),
		Name:    encryptor.Name(),
	}, validatingKey
}

func TestLocalKeymanager_ImportKeystores(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: t.TempDir(), Password: password})
	require.NoError(t, err)

	numAccounts := 3
	keystores := make([]*keymanager.Keystore, numAccounts)
	wantedKeys := make([][48]byte, numAccounts)
	for i := 0; i < numAccounts; i++ {
		var secretKey bls.SecretKey
		keystores[i], secretKey = createRandomKeystore(t, password)
		wantedKeys[i] = bytesutil.ToBytes48(secretKey.PublicKey().Marshal())
	}
	require.NoError(t, dr.ImportKeystores(ctx, keystores, password))

	publicKeys, err := dr.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, numAccounts, len(publicKeys))
	for i, wanted := range wantedKeys {
		assert.Equal(t, wanted, publicKeys[i])
	}
	// The accounts keystore file must have been written to disk.
	assert.Equal(t, true, file.FileExists(filepath.Join(dr.accountsDir, AccountsKeystoreFileName)))
}

func TestLocalKeymanager_ImportKeystores_WrongPassword(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: t.TempDir(), Password: password})
	require.NoError(t, err)
	keystore, _ := createRandomKeystore(t, password)
	err = dr.ImportKeystores(ctx, []*keymanager.Keystore{keystore}, "totally-wrong")
	require.ErrorContains(t, "wrong password", err)
}

func TestLocalKeymanager_Sign(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: t.TempDir(), Password: password})
	require.NoError(t, err)
	keystore, secretKey := createRandomKeystore(t, password)
	require.NoError(t, dr.ImportKeystores(ctx, []*keymanager.Keystore{keystore}, password))

	signingRoot := bytesutil.ToBytes32([]byte("hello world"))
	sig, err := dr.Sign(ctx, &keymanager.SignRequest{
		PublicKey:   secretKey.PublicKey().Marshal(),
		SigningRoot: signingRoot[:],
	})
	require.NoError(t, err)
	require.Equal(t, true, sig.Verify(secretKey.PublicKey(), signingRoot[:]))
}

func TestLocalKeymanager_Sign_NoSuchKey(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: t.TempDir(), Password: password})
	require.NoError(t, err)
	unknown := [48]byte{0xff}
	_, err = dr.Sign(ctx, &keymanager.SignRequest{PublicKey: unknown[:], SigningRoot: make([]byte, 32)})
	require.ErrorIs(t, keymanager.ErrNoSuchKey, err)
}

func TestLocalKeymanager_RestartLoadsAccounts(t *testing.T) {
	ctx := context.Background()
	accountsDir := t.TempDir()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: accountsDir, Password: password})
	require.NoError(t, err)
	keystore, secretKey := createRandomKeystore(t, password)
	require.NoError(t, dr.ImportKeystores(ctx, []*keymanager.Keystore{keystore}, password))

	// A fresh keymanager over the same directory decrypts the persisted accounts.
	restarted, err := NewKeymanager(ctx, &Config{AccountsDir: accountsDir, Password: password})
	require.NoError(t, err)
	publicKeys, err := restarted.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, len(publicKeys))
	assert.Equal(t, bytesutil.ToBytes48(secretKey.PublicKey().Marshal()), publicKeys[0])
}

func TestLocalKeymanager_Restart_WrongPassword(t *testing.T) {
	ctx := context.Background()
	accountsDir := t.TempDir()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: accountsDir, Password: password})
	require.NoError(t, err)
	keystore, _ := createRandomKeystore(t, password)
	require.NoError(t, dr.ImportKeystores(ctx, []*keymanager.Keystore{keystore}, password))

	_, err = NewKeymanager(ctx, &Config{AccountsDir: accountsDir, Password: "not-the-password"})
	require.ErrorContains(t, "could not decrypt accounts keystore file", err)
}

func TestLocalKeymanager_DeleteAccounts(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: t.TempDir(), Password: password})
	require.NoError(t, err)
	numAccounts := 5
	keystores := make([]*keymanager.Keystore, numAccounts)
	for i := 0; i < numAccounts; i++ {
		keystores[i], _ = createRandomKeystore(t, password)
	}
	require.NoError(t, dr.ImportKeystores(ctx, keystores, password))
	accounts, err := dr.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, numAccounts, len(accounts))

	removed := accounts[2]
	require.NoError(t, dr.DeleteAccounts(ctx, [][]byte{removed[:]}))

	accounts, err = dr.FetchValidatingPublicKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, numAccounts-1, len(accounts))
	for _, account := range accounts {
		require.NotEqual(t, removed, account)
	}
	// The persisted keystore must decrypt to the reduced accounts store.
	encoded, err := file.ReadFileAsBytes(filepath.Join(dr.accountsDir, AccountsKeystoreFileName))
	require.NoError(t, err)
	keystoreFile := &keymanager.Keystore{}
	require.NoError(t, json.Unmarshal(encoded, keystoreFile))
	decryptor := keystorev4.New()
	encodedStore, err := decryptor.Decrypt(keystoreFile.Crypto, password)
	require.NoError(t, err)
	store := &accountStore{}
	require.NoError(t, json.Unmarshal(encodedStore, store))
	require.Equal(t, numAccounts-1, len(store.PublicKeys))
	require.Equal(t, numAccounts-1, len(store.PrivateKeys))
}

func TestLocalKeymanager_ReloadNotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	dr, err := NewKeymanager(ctx, &Config{AccountsDir: t.TempDir(), Password: password})
	require.NoError(t, err)
	pubKeysChan := make(chan [][48]byte, 1)
	sub := dr.SubscribeAccountChanges(pubKeysChan)
	defer sub.Unsubscribe()

	keystore, secretKey := createRandomKeystore(t, password)
	require.NoError(t, dr.ImportKeystores(ctx, []*keymanager.Keystore{keystore}, password))

	updatedKeys := <-pubKeysChan
	require.Equal(t, 1, len(updatedKeys))
	assert.Equal(t, bytesutil.ToBytes48(secretKey.PublicKey().Marshal()), updatedKeys[0])
}
