package kv

import (
	"github.com/patrickmn/go-cache"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

func (c *AttCaches) insertSeenBit(att *ethpb.Attestation) error {
	r, err := attDataKey(att.Data)
	if err != nil {
		return err
	}

	v, ok := c.seenAtt.Get(r)
	if ok {
		seenBits, ok := v.([]bitfield.Bitlist)
		if !ok {
			return errors.New("could not convert to bitlist type")
		}
		alreadyExists := false
		for _, bit := range seenBits {
			if bit.Len() == att.AggregationBits.Len() && bit.Contains(att.AggregationBits) {
				alreadyExists = true
				break
			}
		}
		if !alreadyExists {
			seenBits = append(seenBits, att.AggregationBits)
		}
		c.seenAtt.Set(r, seenBits, cache.DefaultExpiration /* one epoch */)
		return nil
	}

	c.seenAtt.Set(r, []bitfield.Bitlist{att.AggregationBits}, cache.DefaultExpiration /* one epoch */)
	return nil
}

func (c *AttCaches) hasSeenBit(att *ethpb.Attestation) (bool, error) {
	r, err := attDataKey(att.Data)
	if err != nil {
		return false, err
	}

	v, ok := c.seenAtt.Get(r)
	if ok {
		seenBits, ok := v.([]bitfield.Bitlist)
		if !ok {
			return false, errors.New("could not convert to bitlist type")
		}
		for _, bit := range seenBits {
			if bit.Len() == att.AggregationBits.Len() && bit.Contains(att.AggregationBits) {
				return true, nil
			}
		}
	}
	return false, nil
}
