package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/pharoslabs/pharos/beacon-chain/state"
	ethpb "github.com/pharoslabs/pharos/consensus-types/eth"
	"github.com/pharoslabs/pharos/crypto/hash"
	"github.com/pharoslabs/pharos/encoding/bytesutil"
)

var (
	// maxCheckpointStateSize defines the max number of entries check point to state cache can contain.
	// Choosing 10 to account for multiple forks, this allows 5 forks per epoch boundary with 2 epochs
	// window to accept attestation based on latest spec.
	maxCheckpointStateSize = 10

	// Metrics.
	checkpointStateMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "check_point_state_cache_miss",
		Help: "The number of check point state requests that aren't present in the cache.",
	})
	checkpointStateHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "check_point_state_cache_hit",
		Help: "The number of check point state requests that are present in the cache.",
	})
)

// CheckpointStateCache is a struct with 1 LRU cache for looking up processed state by checkpoint.
type CheckpointStateCache struct {
	cache *lru.Cache
}

// NewCheckpointStateCache creates a new checkpoint state cache for storing/accessing processed state.
func NewCheckpointStateCache() *CheckpointStateCache {
	cache, err := lru.New(maxCheckpointStateSize)
	if err != nil {
		panic(err)
	}
	return &CheckpointStateCache{
		cache: cache,
	}
}

// StateByCheckpoint fetches state by checkpoint. Returns true with a
// reference to the CheckpointState info, if exists. Otherwise returns false, nil.
func (c *CheckpointStateCache) StateByCheckpoint(cp *ethpb.Checkpoint) (state.BeaconState, error) {
	h, err := checkpointKey(cp)
	if err != nil {
		return nil, err
	}
	item, exists := c.cache.Get(h)
	if !exists {
		checkpointStateMiss.Inc()
		return nil, nil
	}
	checkpointStateHit.Inc()

	st, ok := item.(state.BeaconState)
	if !ok {
		return nil, ErrNotCheckpointState
	}
	// Copy here is unnecessary since the return will only be used to verify attestation signature.
	return st, nil
}

// AddCheckpointState adds CheckpointState object to the cache. This method also trims the least
// recently added CheckpointState object if the cache size has ready the max cache size limit.
func (c *CheckpointStateCache) AddCheckpointState(cp *ethpb.Checkpoint, s state.BeaconState) error {
	h, err := checkpointKey(cp)
	if err != nil {
		return err
	}
	c.cache.Add(h, s)
	return nil
}

func checkpointKey(cp *ethpb.Checkpoint) ([32]byte, error) {
	b := make([]byte, 0, 40)
	b = append(b, bytesutil.Bytes8(uint64(cp.Epoch))...)
	b = append(b, cp.Root...)
	return hash.Hash(b), nil
}
