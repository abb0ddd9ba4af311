package kv

import (
	"github.com/patrickmn/go-cache"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pkg/errors"
)

// SaveBlockAttestation saves an block attestation in cache.
func (c *AttCaches) SaveBlockAttestation(att *ethpb.Attestation) error {
	if att == nil {
		return nil
	}
	key, err := attDataKey(att.Data)
	if err != nil {
		return errors.Wrap(err, "could not tree hash attestation")
	}

	var atts []*ethpb.Attestation
	d, ok := c.blockAtt.Get(key)
	if ok {
		atts, ok = d.([]*ethpb.Attestation)
		if !ok {
			return errors.New("cached value is not of type []*ethpb.Attestation")
		}
	}

	// Ensure that this attestation is not already fully contained in an existing attestation.
	for _, a := range atts {
		if a.AggregationBits.Len() == att.AggregationBits.Len() && a.AggregationBits.Contains(att.AggregationBits) {
			return nil
		}
	}

	c.blockAtt.Set(key, append(atts, att.Copy()), cache.DefaultExpiration)

	return nil
}

// SaveBlockAttestations saves a list of block attestations in cache.
func (c *AttCaches) SaveBlockAttestations(atts []*ethpb.Attestation) error {
	for _, att := range atts {
		if err := c.SaveBlockAttestation(att); err != nil {
			return err
		}
	}

	return nil
}

// BlockAttestations returns the block attestations in cache.
func (c *AttCaches) BlockAttestations() []*ethpb.Attestation {
	atts := make([]*ethpb.Attestation, 0)

	for _, i := range c.blockAtt.Items() {
		attList, ok := i.Object.([]*ethpb.Attestation)
		if !ok {
			continue
		}
		atts = append(atts, attList...)
	}

	return atts
}

// DeleteBlockAttestation deletes a block attestation in cache.
func (c *AttCaches) DeleteBlockAttestation(att *ethpb.Attestation) error {
	if att == nil {
		return nil
	}
	key, err := attDataKey(att.Data)
	if err != nil {
		return errors.Wrap(err, "could not tree hash attestation")
	}

	c.blockAtt.Delete(key)

	return nil
}
