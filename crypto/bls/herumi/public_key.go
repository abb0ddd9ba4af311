package herumi

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/herumi/bls-eth-go-binary/bls"
	"github.com/pharoslabs/pharos/config/features"
	"github.com/pharoslabs/pharos/config/params"
	"github.com/pharoslabs/pharos/crypto/bls/common"
	"github.com/pkg/errors"
)

var maxKeys = 1000000
var pubkeyCache, _ = lru.New(maxKeys)

// PublicKey used in the BLS signature scheme.
type PublicKey struct {
	p *bls.PublicKey
}

// PublicKeyFromBytes creates a BLS public key from a BigEndian byte slice.
func PublicKeyFromBytes(pubKey []byte) (common.PublicKey, error) {
	if features.Get().SkipBLSVerify {
		return &PublicKey{}, nil
	}
	if len(pubKey) != params.BeaconConfig().BLSPubkeyLength {
		return nil, fmt.Errorf("public key must be %d bytes", params.BeaconConfig().BLSPubkeyLength)
	}
	if common.PublicKeyIsInfinite(pubKey) {
		return nil, common.ErrInfinitePubKey
	}
	if cv, ok := pubkeyCache.Get(string(pubKey)); ok {
		return cv.(*PublicKey).Copy(), nil
	}
	p := &bls.PublicKey{}
	if err := p.Deserialize(pubKey); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal bytes into public key")
	}
	pubKeyObj := &PublicKey{p: p}
	copiedKey := pubKeyObj.Copy()
	pubkeyCache.Add(string(pubKey), copiedKey)
	return pubKeyObj, nil
}

// AggregatePublicKeys aggregates the provided raw public keys into a single key.
func AggregatePublicKeys(pubs [][]byte) (common.PublicKey, error) {
	if features.Get().SkipBLSVerify {
		return &PublicKey{}, nil
	}
	if len(pubs) == 0 {
		return nil, errors.New("nil or empty public keys")
	}
	p, err := PublicKeyFromBytes(pubs[0])
	if err != nil {
		return nil, err
	}
	pubKey := p.(*PublicKey)
	for _, k := range pubs[1:] {
		pubkey, err := PublicKeyFromBytes(k)
		if err != nil {
			return nil, err
		}
		pubKey.p.Add(pubkey.(*PublicKey).p)
	}
	return pubKey, nil
}

// Marshal a public key into a LittleEndian byte slice.
func (p *PublicKey) Marshal() []byte {
	return p.p.Serialize()
}

// Copy the public key to a new pointer reference.
func (p *PublicKey) Copy() common.PublicKey {
	np := *p.p
	return &PublicKey{p: &np}
}

// IsInfinite checks if the public key is infinite.
func (p *PublicKey) IsInfinite() bool {
	return p.p.IsZero()
}

// Equals checks if the provided public key is equal to
// the current one.
func (p *PublicKey) Equals(p2 common.PublicKey) bool {
	return p.p.IsEqual(p2.(*PublicKey).p)
}

// Aggregate two public keys.
func (p *PublicKey) Aggregate(p2 common.PublicKey) common.PublicKey {
	if features.Get().SkipBLSVerify {
		return p
	}
	p.p.Add(p2.(*PublicKey).p)
	return p
}
