// Package local defines a keymanager implementation backed by a single
// EIP-2335 keystore file holding all validator accounts on disk. Keys
// are decrypted once at startup and kept in an in-memory cache, and the
// keystore file is watched for changes so accounts can be hot reloaded.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/crypto/bls"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/validator/keymanager"
	"github.com/sirupsen/logrus"
	keystorev4 "github.com/wealdtech/go-eth2-wallet-encryptor-keystorev4"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "keymanager-local")

var _ keymanager.Keymanager = (*Keymanager)(nil)

const (
	// AccountsKeystoreFileName exposes the name of the keystore file
	// holding the encrypted accounts store.
	AccountsKeystoreFileName = "all-accounts.keystore.json"
	accountsKeystoreName     = "accounts"
)

// Config for a local keymanager.
type Config struct {
	// AccountsDir is the directory the accounts keystore file lives in.
	AccountsDir string
	// Password decrypts the accounts keystore file.
	Password string
}

// accountStore defines the decrypted contents of the accounts keystore
// file, private keys and public keys kept index-aligned.
type accountStore struct {
	PrivateKeys [][]byte `json:"private_keys"`
	PublicKeys  [][]byte `json:"public_keys"`
}

// Keymanager implementation for local, on-disk keystores.
type Keymanager struct {
	accountsDir         string
	password            string
	accountsStore       *accountStore
	accountsChangedFeed *event.Feed
	lock                sync.RWMutex
	orderedPublicKeys   [][48]byte
	secretKeysCache     map[[48]byte]bls.SecretKey
}

// NewKeymanager instantiates a new local keymanager from configuration options,
// decrypting the accounts keystore file if one exists and listening for
// changes to it in the background.
func NewKeymanager(ctx context.Context, cfg *Config) (*Keymanager, error) {
	accountsDir, err := file.ExpandPath(cfg.AccountsDir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not expand accounts directory %s", cfg.AccountsDir)
	}
	k := &Keymanager{
		accountsDir:         accountsDir,
		password:            cfg.Password,
		accountsStore:       &accountStore{},
		accountsChangedFeed: new(event.Feed),
		secretKeysCache:     make(map[[48]byte]bls.SecretKey),
	}
	accountsFilePath := filepath.Join(accountsDir, AccountsKeystoreFileName)
	if file.FileExists(accountsFilePath) {
		encoded, err := file.ReadFileAsBytes(accountsFilePath)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read accounts keystore file %s", accountsFilePath)
		}
		keystoreFile := &keymanager.Keystore{}
		if err := json.Unmarshal(encoded, keystoreFile); err != nil {
			return nil, errors.Wrapf(err, "could not parse keystore json file at %s", accountsFilePath)
		}
		if err := k.reloadAccountsFromKeystore(keystoreFile); err != nil {
			return nil, err
		}
	}
	go k.listenForAccountChanges(ctx)
	return k, nil
}

// FetchValidatingPublicKeys fetches the list of active public keys from the local account keystores.
func (k *Keymanager) FetchValidatingPublicKeys(ctx context.Context) ([][48]byte, error) {
	_, span := trace.StartSpan(ctx, "keymanager.FetchValidatingPublicKeys")
	defer span.End()
	k.lock.RLock()
	keys := k.orderedPublicKeys
	result := make([][48]byte, len(keys))
	copy(result, keys)
	k.lock.RUnlock()
	return result, nil
}

// Sign signs a message using a validator key.
func (k *Keymanager) Sign(ctx context.Context, req *keymanager.SignRequest) (bls.Signature, error) {
	_, span := trace.StartSpan(ctx, "keymanager.Sign")
	defer span.End()
	k.lock.RLock()
	secretKey, ok := k.secretKeysCache[bytesutil.ToBytes48(req.PublicKey)]
	k.lock.RUnlock()
	if !ok {
		return nil, keymanager.ErrNoSuchKey
	}
	return secretKey.Sign(req.SigningRoot), nil
}

// SubscribeAccountChanges creates an event subscription for a channel
// to listen for public key changes at runtime, such as when new validator accounts
// are imported into the keymanager while the validator process is running.
func (k *Keymanager) SubscribeAccountChanges(pubKeysChan chan [][48]byte) event.Subscription {
	return k.accountsChangedFeed.Subscribe(pubKeysChan)
}

// ImportKeystores decrypts EIP-2335 keystore files with the provided password,
// adds the keys they contain to the accounts store, and persists the updated
// store back to disk.
func (k *Keymanager) ImportKeystores(ctx context.Context, keystores []*keymanager.Keystore, password string) error {
	ctx, span := trace.StartSpan(ctx, "keymanager.ImportKeystores")
	defer span.End()
	decryptor := keystorev4.New()
	privKeys := make([][]byte, 0, len(keystores))
	pubKeys := make([][]byte, 0, len(keystores))
	for _, ks := range keystores {
		privKeyBytes, err := decryptor.Decrypt(ks.Crypto, password)
		if err != nil && strings.Contains(err.Error(), keymanager.IncorrectPasswordErrMsg) {
			return errors.Wrap(err, "wrong password for keystore")
		} else if err != nil {
			return errors.Wrapf(err, "could not decrypt keystore with public key %s", ks.Pubkey)
		}
		privKey, err := bls.SecretKeyFromBytes(privKeyBytes)
		if err != nil {
			return errors.Wrap(err, "could not initialize private key from keystore")
		}
		privKeys = append(privKeys, privKey.Marshal())
		pubKeys = append(pubKeys, privKey.PublicKey().Marshal())
	}
	accountsKeystore, err := k.createAccountsKeystore(ctx, privKeys, pubKeys)
	if err != nil {
		return err
	}
	if err := k.reloadAccountsFromKeystore(accountsKeystore); err != nil {
		return err
	}
	log.WithField("publicKeys", len(k.orderedPublicKeys)).Info("Imported accounts into keymanager")
	return nil
}

// DeleteAccounts removes the accounts with the given public keys from the
// accounts store and persists the updated store back to disk.
func (k *Keymanager) DeleteAccounts(ctx context.Context, publicKeys [][]byte) error {
	ctx, span := trace.StartSpan(ctx, "keymanager.DeleteAccounts")
	defer span.End()
	for _, publicKey := range publicKeys {
		var index int
		var found bool
		k.lock.RLock()
		for i, pubKey := range k.accountsStore.PublicKeys {
			if bytes48Equal(pubKey, publicKey) {
				index = i
				found = true
				break
			}
		}
		k.lock.RUnlock()
		if !found {
			return fmt.Errorf("could not find public key %#x", bytesutil.Trunc(publicKey))
		}
		deletedPublicKey := k.accountsStore.PublicKeys[index]
		k.lock.Lock()
		k.accountsStore.PrivateKeys = append(k.accountsStore.PrivateKeys[:index], k.accountsStore.PrivateKeys[index+1:]...)
		k.accountsStore.PublicKeys = append(k.accountsStore.PublicKeys[:index], k.accountsStore.PublicKeys[index+1:]...)
		k.lock.Unlock()
		accountsKeystore, err := k.createAccountsKeystore(ctx, k.accountsStore.PrivateKeys, k.accountsStore.PublicKeys)
		if err != nil {
			return err
		}
		if err := k.reloadAccountsFromKeystore(accountsKeystore); err != nil {
			return err
		}
		log.WithField("publicKey", fmt.Sprintf("%#x", bytesutil.Trunc(deletedPublicKey))).Info(
			"Successfully deleted validator account",
		)
	}
	return nil
}

// createAccountsKeystore encrypts the accounts store built from the given
// key pairs into a single EIP-2335 keystore and writes it to disk.
func (k *Keymanager) createAccountsKeystore(
	_ context.Context,
	privateKeys [][]byte,
	publicKeys [][]byte,
) (*keymanager.Keystore, error) {
	if len(privateKeys) != len(publicKeys) {
		return nil, fmt.Errorf(
			"number of private keys and public keys is not equal: %d != %d", len(privateKeys), len(publicKeys),
		)
	}
	store := k.accountsStore
	if store == nil {
		store = &accountStore{}
	}
	for i := 0; i < len(privateKeys); i++ {
		alreadyExists := false
		for _, existing := range store.PublicKeys {
			if bytes48Equal(existing, publicKeys[i]) {
				alreadyExists = true
				break
			}
		}
		if alreadyExists {
			continue
		}
		store.PrivateKeys = append(store.PrivateKeys, privateKeys[i])
		store.PublicKeys = append(store.PublicKeys, publicKeys[i])
	}
	k.accountsStore = store
	encoded, err := json.Marshal(k.accountsStore)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	encryptor := keystorev4.New()
	cryptoFields, err := encryptor.Encrypt(encoded, k.password)
	if err != nil {
		return nil, errors.Wrap(err, "could not encrypt accounts store")
	}
	keystoreFile := &keymanager.Keystore{
		Crypto:  cryptoFields,
		ID:      id.String(),
		Version: encryptor.Version(),
		Name:    accountsKeystoreName,
	}
	encodedFile, err := json.MarshalIndent(keystoreFile, "", "\t")
	if err != nil {
		return nil, err
	}
	if err := file.MkdirAll(k.accountsDir); err != nil {
		return nil, err
	}
	accountsFilePath := filepath.Join(k.accountsDir, AccountsKeystoreFileName)
	if err := file.WriteFile(accountsFilePath, encodedFile); err != nil {
		return nil, err
	}
	return keystoreFile, nil
}

// reloadAccountsFromKeystore replaces the accounts store with the decrypted
// contents of a keystore file, refreshes the in-memory key caches, and
// notifies subscribers of the new set of public keys.
func (k *Keymanager) reloadAccountsFromKeystore(keystoreFile *keymanager.Keystore) error {
	decryptor := keystorev4.New()
	encodedAccounts, err := decryptor.Decrypt(keystoreFile.Crypto, k.password)
	if err != nil {
		return errors.Wrap(err, "could not decrypt accounts keystore file")
	}
	newStore := &accountStore{}
	if err := json.Unmarshal(encodedAccounts, newStore); err != nil {
		return err
	}
	if len(newStore.PrivateKeys) != len(newStore.PublicKeys) {
		return fmt.Errorf(
			"number of private keys and public keys is not equal: %d != %d",
			len(newStore.PrivateKeys), len(newStore.PublicKeys),
		)
	}
	orderedKeys := make([][48]byte, len(newStore.PublicKeys))
	keysCache := make(map[[48]byte]bls.SecretKey, len(newStore.PrivateKeys))
	for i := 0; i < len(newStore.PrivateKeys); i++ {
		secretKey, err := bls.SecretKeyFromBytes(newStore.PrivateKeys[i])
		if err != nil {
			return errors.Wrap(err, "could not initialize private key")
		}
		pubKey := bytesutil.ToBytes48(secretKey.PublicKey().Marshal())
		orderedKeys[i] = pubKey
		keysCache[pubKey] = secretKey
	}
	k.lock.Lock()
	k.accountsStore = newStore
	k.orderedPublicKeys = orderedKeys
	k.secretKeysCache = keysCache
	k.lock.Unlock()
	k.accountsChangedFeed.Send(orderedKeys)
	return nil
}

func bytes48Equal(a, b []byte) bool {
	return bytesutil.ToBytes48(a) == bytesutil.ToBytes48(b)
}
