// Package types includes ssz-able wrappers around primitive values that
// get signed or hashed on their own, outside of a container.
package types

import (
	fssz "github.com/ferranbt/fastssz"
	"github.com/pkg/errors"
)

var _ fssz.HashRoot = (*SSZUint64)(nil)
var _ fssz.Marshaler = (*SSZUint64)(nil)
var _ fssz.Unmarshaler = (*SSZUint64)(nil)

// SSZUint64 is a uint64 with an ssz hash tree root, used for signing
// over bare slots and epochs.
type SSZUint64 uint64

// SizeSSZ returns the fixed size of the serialized object.
func (s *SSZUint64) SizeSSZ() int {
	return 8
}

// MarshalSSZTo marshals the uint64 with its fastssz typing.
func (s *SSZUint64) MarshalSSZTo(dst []byte) ([]byte, error) {
	marshalled, err := s.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return append(dst, marshalled...), nil
}

// MarshalSSZ marshals the uint64 with its fastssz typing.
func (s *SSZUint64) MarshalSSZ() ([]byte, error) {
	marshalled := fssz.MarshalUint64([]byte{}, uint64(*s))
	return marshalled, nil
}

// UnmarshalSSZ deserializes the provided bytes buffer into the uint64 object.
func (s *SSZUint64) UnmarshalSSZ(buf []byte) error {
	if len(buf) != s.SizeSSZ() {
		return errors.Errorf("expected buffer of length %d, received %d", s.SizeSSZ(), len(buf))
	}
	*s = SSZUint64(fssz.UnmarshallUint64(buf))
	return nil
}

// HashTreeRoot returns the hash tree root of the uint64 object.
func (s *SSZUint64) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith hashes the uint64 object with the given hasher.
func (s *SSZUint64) HashTreeRootWith(hh *fssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(uint64(*s))
	hh.Merkleize(indx)
	return nil
}
