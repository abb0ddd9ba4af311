package kv

import (
	"github.com/patrickmn/go-cache"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pkg/errors"
)

// SaveForkchoiceAttestation saves an forkchoice attestation in cache.
func (c *AttCaches) SaveForkchoiceAttestation(att *ethpb.Attestation) error {
	if att == nil {
		return nil
	}
	key, err := attKey(att)
	if err != nil {
		return errors.Wrap(err, "could not tree hash attestation")
	}

	att = att.Copy()
	c.forkchoiceAtt.Set(key, att, cache.DefaultExpiration)

	return nil
}

// SaveForkchoiceAttestations saves a list of forkchoice attestations in cache.
func (c *AttCaches) SaveForkchoiceAttestations(atts []*ethpb.Attestation) error {
	for _, att := range atts {
		if err := c.SaveForkchoiceAttestation(att); err != nil {
			return err
		}
	}

	return nil
}

// ForkchoiceAttestations returns the forkchoice attestations in cache.
func (c *AttCaches) ForkchoiceAttestations() []*ethpb.Attestation {
	atts := make([]*ethpb.Attestation, 0)

	for _, i := range c.forkchoiceAtt.Items() {
		att, ok := i.Object.(*ethpb.Attestation)
		if !ok {
			continue
		}
		atts = append(atts, att.Copy())
	}

	return atts
}

// DeleteForkchoiceAttestation deletes a forkchoice attestation in cache.
func (c *AttCaches) DeleteForkchoiceAttestation(att *ethpb.Attestation) error {
	if att == nil {
		return nil
	}
	key, err := attKey(att)
	if err != nil {
		return errors.Wrap(err, "could not tree hash attestation")
	}

	c.forkchoiceAtt.Delete(key)

	return nil
}

// ForkchoiceAttestationCount returns the number of fork choice attestations key in the pool.
func (c *AttCaches) ForkchoiceAttestationCount() int {
	return c.forkchoiceAtt.ItemCount()
}
