// Package kv includes a key-value store implementation
// of an attestation cache used to satisfy important use-cases
// such as aggregation in a beacon node runtime.
package kv

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pharoslabs/pharos/config/params"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
)

// AttCaches defines the caches used to satisfy attestation pool interface.
// These caches are KV store for various attestations
// such are unaggregated, aggregated or attestations within a block.
type AttCaches struct {
	aggregatedAtt   *cache.Cache
	unAggregatedAtt *cache.Cache
	forkchoiceAtt   *cache.Cache
	blockAtt        *cache.Cache
	seenAtt         *cache.Cache
}

// NewAttCaches initializes a new attestation pool consists of multiple KV store in cache for
// various kind of attestations.
func NewAttCaches() *AttCaches {
	secsInEpoch := time.Duration(params.BeaconConfig().SlotsPerEpoch.Mul(params.BeaconConfig().SecondsPerSlot))

	// Create caches with default expiration time of one epoch and which
	// purges expired items every epoch.
	pool := &AttCaches{
		unAggregatedAtt: cache.New(secsInEpoch*time.Second, secsInEpoch*time.Second),
		aggregatedAtt:   cache.New(secsInEpoch*time.Second, secsInEpoch*time.Second),
		forkchoiceAtt:   cache.New(secsInEpoch*time.Second, secsInEpoch*time.Second),
		blockAtt:        cache.New(secsInEpoch*time.Second, secsInEpoch*time.Second),
		seenAtt:         cache.New(secsInEpoch*time.Second, secsInEpoch*time.Second),
	}

	return pool
}

// attDataKey returns the cache key of an attestation, derived from the hash
// tree root of its data.
func attDataKey(data *ethpb.AttestationData) (string, error) {
	r, err := data.HashTreeRoot()
	if err != nil {
		return "", err
	}
	return string(r[:]), nil
}

// attKey returns the cache key of a whole attestation, including its
// aggregation bits and signature.
func attKey(att *ethpb.Attestation) (string, error) {
	r, err := att.HashTreeRoot()
	if err != nil {
		return "", err
	}
	return string(r[:]), nil
}
