// Package derived defines a keymanager implementation which derives
// validator keys from a bip39 mnemonic using EIP-2334 paths, so an
// entire set of accounts can be recovered from a single seed phrase.
package derived

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/crypto/bls"
	"github.com/pharoslabs/pharos/crypto/bls/utils"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/validator/keymanager"
	"github.com/tyler-smith/go-bip39"
	"go.opencensus.io/trace"
)

// ValidatingKeyDerivationPathTemplate defining the hierarchical path for validating
// keys for validator accounts. The naming convention is as follows:
// m / purpose / coin_type / account_index / withdrawal_key / validating_key
const ValidatingKeyDerivationPathTemplate = "m/12381/3600/%d/0/0"

var _ keymanager.Keymanager = (*Keymanager)(nil)

// Config for a derived keymanager.
type Config struct {
	// Mnemonic is the bip39 seed phrase the keys derive from.
	Mnemonic string
	// MnemonicPassphrase is an optional 25th word protecting the seed.
	MnemonicPassphrase string
	// NumAccounts is how many sequential account indices to derive.
	NumAccounts int
}

// Keymanager implementation deriving keys from a seed phrase.
type Keymanager struct {
	accountsChangedFeed *event.Feed
	lock                sync.RWMutex
	orderedPublicKeys   [][48]byte
	secretKeysCache     map[[48]byte]bls.SecretKey
}

// NewKeymanager instantiates a new derived keymanager, deriving the
// validating key of each account index from the configured mnemonic.
func NewKeymanager(_ context.Context, cfg *Config) (*Keymanager, error) {
	if !bip39.IsMnemonicValid(cfg.Mnemonic) {
		return nil, errors.New("received an invalid bip39 mnemonic phrase")
	}
	if cfg.NumAccounts < 1 {
		return nil, errors.New("must derive at least one account")
	}
	seed := bip39.NewSeed(cfg.Mnemonic, cfg.MnemonicPassphrase)
	k := &Keymanager{
		accountsChangedFeed: new(event.Feed),
		orderedPublicKeys:   make([][48]byte, cfg.NumAccounts),
		secretKeysCache:     make(map[[48]byte]bls.SecretKey, cfg.NumAccounts),
	}
	for i := 0; i < cfg.NumAccounts; i++ {
		derivationPath := fmt.Sprintf(ValidatingKeyDerivationPathTemplate, i)
		derivedKey, err := utils.PrivateKeyFromSeedAndPath(seed, derivationPath)
		if err != nil {
			return nil, errors.Wrapf(err, "could not derive validating key at path %s", derivationPath)
		}
		secretKey, err := bls.SecretKeyFromBytes(derivedKey.Marshal())
		if err != nil {
			return nil, errors.Wrapf(err, "could not initialize derived key at path %s", derivationPath)
		}
		pubKey := bytesutil.ToBytes48(secretKey.PublicKey().Marshal())
		k.orderedPublicKeys[i] = pubKey
		k.secretKeysCache[pubKey] = secretKey
	}
	return k, nil
}

// FetchValidatingPublicKeys fetches the list of derived public keys.
func (k *Keymanager) FetchValidatingPublicKeys(ctx context.Context) ([][48]byte, error) {
	_, span := trace.StartSpan(ctx, "keymanager.FetchValidatingPublicKeys")
	defer span.End()
	k.lock.RLock()
	result := make([][48]byte, len(k.orderedPublicKeys))
	copy(result, k.orderedPublicKeys)
	k.lock.RUnlock()
	return result, nil
}

// Sign signs a message using a derived validator key.
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

// SubscribeAccountChanges creates an event subscription for a channel to
// listen for public key changes. Derived accounts are fixed once the
// keymanager is constructed, so no events fire over the lifetime of the
// subscription.
func (k *Keymanager) SubscribeAccountChanges(pubKeysChan chan [][48]byte) event.Subscription {
	return k.accountsChangedFeed.Subscribe(pubKeysChan)
}
