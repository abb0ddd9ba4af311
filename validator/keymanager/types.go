// Package keymanager defines the signing surface the validator client
// uses to access its keys. Implementations range from on-disk,
// EIP-2335 encrypted keystores to hierarchical-deterministic wallets
// and deterministic interop keys.
package keymanager

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pharoslabs/pharos/async/event"
	"github.com/pharoslabs/pharos/crypto/bls"
)

// ErrNoSuchKey is returned whenever a signing request is made for a
// public key the keymanager does not hold.
var ErrNoSuchKey = errors.New("no such key")

// IncorrectPasswordErrMsg defines a common error string representing an EIP-2335
// keystore password was incorrect.
const IncorrectPasswordErrMsg = "invalid checksum"

// Keymanager controls access to validator secret keys.
type Keymanager interface {
	// FetchValidatingPublicKeys fetches the list of active public keys that should be used to validate with.
	FetchValidatingPublicKeys(ctx context.Context) ([][48]byte, error)
	// Sign signs a message using a validator key.
	Sign(ctx context.Context, req *SignRequest) (bls.Signature, error)
	// SubscribeAccountChanges subscribes to changes made to the underlying keys.
	SubscribeAccountChanges(pubKeysChan chan [][48]byte) event.Subscription
}

// SignRequest is a message type used by a keymanager
// as part of a signing request for a validator.
type SignRequest struct {
	// PublicKey of the validator the signature is requested for.
	PublicKey []byte
	// SigningRoot is the 32 byte hash tree root to sign.
	SigningRoot []byte
	// SignatureDomain the root was computed with.
	SignatureDomain []byte
	// Object is the original object the signing root was computed
	// from, kept for slashing protection checks.
	Object interface{}
}

// Keystore json file representation as a Go struct.
type Keystore struct {
	Crypto  map[string]interface{} `json:"crypto"`
	ID      string                 `json:"uuid"`
	Pubkey  string                 `json:"pubkey"`
	Version uint                   `json:"version"`
	Name    string                 `json:"name"`
}

// Kind defines an enum for the available keymanager implementations.
type Kind int

const (
	// Local keymanager defines an on-disk, EIP-2335 keystore-backed store.
	Local Kind = iota
	// Derived keymanager using a hierarchical-deterministic algorithm.
	Derived
	// Interop keymanager holding deterministically generated test keys.
	Interop
)

// String marshals a keymanager kind to a string value.
func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Derived:
		return "derived"
	case Interop:
		return "interop"
	default:
		return fmt.Sprintf("%d", int(k))
	}
}

// ParseKind from a raw string, returning a keymanager kind.
func ParseKind(k string) (Kind, error) {
	switch k {
	case "local":
		return Local, nil
	case "derived":
		return Derived, nil
	case "interop":
		return Interop, nil
	default:
		return 0, fmt.Errorf("%s is not an allowed keymanager", k)
	}
}
