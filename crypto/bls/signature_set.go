package bls

// SignatureSet collects signatures with the public keys and message roots
// needed to verify them in a single batch.
type SignatureSet struct {
	Signatures [][]byte
	PublicKeys []PublicKey
	Messages   [][32]byte
}

// NewSet returns an empty signature set.
func NewSet() *SignatureSet {
	return &SignatureSet{
		Signatures: [][]byte{},
		PublicKeys: []PublicKey{},
		Messages:   [][32]byte{},
	}
}

// Join appends the entries of the provided set and returns the receiver.
func (s *SignatureSet) Join(set *SignatureSet) *SignatureSet {
	s.Signatures = append(s.Signatures, set.Signatures...)
	s.PublicKeys = append(s.PublicKeys, set.PublicKeys...)
	s.Messages = append(s.Messages, set.Messages...)
	return s
}

// Verify runs batch verification over every entry in the set.
func (s *SignatureSet) Verify() (bool, error) {
	return VerifyMultipleSignatures(s.Signatures, s.Messages, s.PublicKeys)
}

// Copy returns a deep copy of the set.
func (s *SignatureSet) Copy() *SignatureSet {
	c := &SignatureSet{
		Signatures: make([][]byte, len(s.Signatures)),
		PublicKeys: make([]PublicKey, len(s.PublicKeys)),
		Messages:   make([][32]byte, len(s.Messages)),
	}
	for i, sig := range s.Signatures {
		c.Signatures[i] = make([]byte, len(sig))
		copy(c.Signatures[i], sig)
	}
	for i, pub := range s.PublicKeys {
		c.PublicKeys[i] = pub.Copy()
	}
	for i := range s.Messages {
		copy(c.Messages[i][:], s.Messages[i][:])
	}
	return c
}
