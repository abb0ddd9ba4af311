package kv

import (
	"context"

	"github.com/patrickmn/go-cache"
	"github.com/pharoslabs/pharos/beacon-chain/core/helpers"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"go.opencensus.io/trace"
)

// SaveUnaggregatedAttestation saves an unaggregated attestation in cache.
func (c *AttCaches) SaveUnaggregatedAttestation(att *ethpb.Attestation) error {
	if att == nil {
		return nil
	}
	if helpers.IsAggregated(att) {
		return errors.New("attestation is aggregated")
	}

	seen, err := c.hasSeenBit(att)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	key, err := attKey(att)
	if err != nil {
		return errors.Wrap(err, "could not tree hash attestation")
	}
	att = att.Copy()
	c.unAggregatedAtt.Set(key, att, cache.DefaultExpiration)

	return nil
}

// SaveUnaggregatedAttestations saves a list of unaggregated attestations in cache.
func (c *AttCaches) SaveUnaggregatedAttestations(atts []*ethpb.Attestation) error {
	for _, att := range atts {
		if err := c.SaveUnaggregatedAttestation(att); err != nil {
			return err
		}
	}

	return nil
}

// UnaggregatedAttestations returns all the unaggregated attestations in cache.
func (c *AttCaches) UnaggregatedAttestations() ([]*ethpb.Attestation, error) {
	atts := make([]*ethpb.Attestation, 0, c.unAggregatedAtt.ItemCount())
	for _, i := range c.unAggregatedAtt.Items() {
		att, ok := i.Object.(*ethpb.Attestation)
		if !ok {
			continue
		}
		seen, err := c.hasSeenBit(att)
		if err != nil {
			return nil, err
		}
		if !seen {
			atts = append(atts, att.Copy())
		}
	}
	return atts, nil
}

// UnaggregatedAttestationsBySlotIndex returns the unaggregated attestations in cache,
// filtered by committee index and slot.
func (c *AttCaches) UnaggregatedAttestationsBySlotIndex(ctx context.Context, slot types.Slot, committeeIndex types.CommitteeIndex) []*ethpb.Attestation {
	_, span := trace.StartSpan(ctx, "operations.attestations.kv.UnaggregatedAttestationsBySlotIndex")
	defer span.End()

	atts := make([]*ethpb.Attestation, 0)
	for _, i := range c.unAggregatedAtt.Items() {
		att, ok := i.Object.(*ethpb.Attestation)
		if !ok {
			continue
		}
		if slot == att.Data.Slot && committeeIndex == att.Data.CommitteeIndex {
			atts = append(atts, att)
		}
	}

	return atts
}

// DeleteUnaggregatedAttestation deletes the unaggregated attestations in cache.
func (c *AttCaches) DeleteUnaggregatedAttestation(att *ethpb.Attestation) error {
	if att == nil {
		return nil
	}
	if helpers.IsAggregated(att) {
		return errors.New("attestation is aggregated")
	}

	if err := c.insertSeenBit(att); err != nil {
		return err
	}

	key, err := attKey(att)
	if err != nil {
		return errors.Wrap(err, "could not tree hash attestation")
	}
	c.unAggregatedAtt.Delete(key)

	return nil
}

// DeleteSeenUnaggregatedAttestations deletes the unaggregated attestations in cache
// that have been already processed once. Returns number of attestations deleted.
func (c *AttCaches) DeleteSeenUnaggregatedAttestations() (int, error) {
	count := 0
	for _, i := range c.unAggregatedAtt.Items() {
		att, ok := i.Object.(*ethpb.Attestation)
		if !ok {
			continue
		}
		if seen, err := c.hasSeenBit(att); err == nil && seen {
			key, err := attKey(att)
			if err != nil {
				return count, errors.Wrap(err, "could not tree hash attestation")
			}
			c.unAggregatedAtt.Delete(key)
			count++
		}
	}
	return count, nil
}

// UnaggregatedAttestationCount returns the number of unaggregated attestations key in the pool.
func (c *AttCaches) UnaggregatedAttestationCount() int {
	return c.unAggregatedAtt.ItemCount()
}
