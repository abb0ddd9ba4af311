// Package interop defines a keymanager which holds the deterministic
// validator keys used by interop genesis states, intended for local
// development networks and end to end tests only.
package interop

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/crypto/bls"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
	"github.com/pharoslabs/pharos/runtime/interop"
	"github.com/pharoslabs/pharos/validator/keymanager"
	"go.opencensus.io/trace"
)

var _ keymanager.Keymanager = (*Keymanager)(nil)

// Config for an interop keymanager.
type Config struct {
	// Offset is the validator index the key range starts at.
	Offset uint64
	// NumValidatorKeys is how many deterministic keys to generate.
	NumValidatorKeys uint64
}

// Keymanager holding deterministically generated interop keys.
type Keymanager struct {
	accountsChangedFeed *event.Feed
	lock                sync.RWMutex
	orderedPublicKeys   [][48]byte
	secretKeysCache     map[[48]byte]bls.SecretKey
}

// NewKeymanager generates the deterministic key range for the configured
// offset and count.
func NewKeymanager(_ context.Context, cfg *Config) (*Keymanager, error) {
	if cfg.NumValidatorKeys == 0 {
		return nil, errors.New("must generate at least one validator key")
	}
	secretKeys, publicKeys, err := interop.DeterministicallyGenerateKeys(cfg.Offset, cfg.NumValidatorKeys)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate interop keys")
	}
	k := &Keymanager{
		accountsChangedFeed: new(event.Feed),
		orderedPublicKeys:   make([][48]byte, len(publicKeys)),
		secretKeysCache:     make(map[[48]byte]bls.SecretKey, len(secretKeys)),
	}
	for i, publicKey := range publicKeys {
		pubKey := bytesutil.ToBytes48(publicKey.Marshal())
		k.orderedPublicKeys[i] = pubKey
		k.secretKeysCache[pubKey] = secretKeys[i]
	}
	return k, nil
}

// FetchValidatingPublicKeys fetches the list of deterministic public keys.
func (k *Keymanager) FetchValidatingPublicKeys(ctx context.Context) ([][48]byte, error) {
	_, span := trace.StartSpan(ctx, "keymanager.FetchValidatingPublicKeys")
	defer span.End()
	k.lock.RLock()
	result := make([][48]byte, len(k.orderedPublicKeys))
	copy(result, k.orderedPublicKeys)
	k.lock.RUnlock()
	return result, nil
}

// Sign signs a message using a deterministic validator key.
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
// listen for public key changes. Interop keys never change, so no events
// fire over the lifetime of the subscription.
func (k *Keymanager) SubscribeAccountChanges(pubKeysChan chan [][48]byte) event.Subscription {
	return k.accountsChangedFeed.Subscribe(pubKeysChan)
}
