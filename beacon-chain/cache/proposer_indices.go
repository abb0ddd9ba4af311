package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	types "github.com/prysmaticlabs/eth2-types"
)

// maxProposerIndicesCacheSize defines the max number of proposer indices on per block root basis can cache.
// Due to reorgs, it's good to keep the old cache around for quickly switch over.
var maxProposerIndicesCacheSize = uint64(8)

var (
	// ProposerIndicesCacheMiss tracks the number of proposerIndices requests that aren't present in the cache.
	ProposerIndicesCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposer_indices_cache_miss",
		Help: "The number of proposer indices requests that aren't present in the cache.",
	})
	// ProposerIndicesCacheHit tracks the number of proposerIndices requests that are in the cache.
	ProposerIndicesCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposer_indices_cache_hit",
		Help: "The number of proposer indices requests that are present in the cache.",
	})
)

// ProposerIndices defines the cached struct for proposer indices.
type ProposerIndices struct {
	BlockRoot       [32]byte
	ProposerIndices []types.ValidatorIndex
}

// ProposerIndicesCache is a struct with 1 LRU cache for looking up proposer indices by block root.
type ProposerIndicesCache struct {
	cache *lru.Cache
	lock  sync.RWMutex
}

// NewProposerIndicesCache creates a new proposer indices cache for storing/accessing proposer index on per block root basis.
func NewProposerIndicesCache() *ProposerIndicesCache {
	cache, err := lru.New(int(maxProposerIndicesCacheSize))
	if err != nil {
		panic(err)
	}
	return &ProposerIndicesCache{
		cache: cache,
	}
}

// HasProposerIndices returns the proposer indices of a block root seed.
func (c *ProposerIndicesCache) HasProposerIndices(r [32]byte) (bool, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.cache.Contains(r), nil
}

// ProposerIndices returns the proposer indices of a block root.
func (c *ProposerIndicesCache) ProposerIndices(r [32]byte) ([]types.ValidatorIndex, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	obj, exists := c.cache.Get(r)
	if !exists {
		ProposerIndicesCacheMiss.Inc()
		return nil, nil
	}
	ProposerIndicesCacheHit.Inc()

	item, ok := obj.(*ProposerIndices)
	if !ok {
		return nil, ErrNotProposerIndices
	}
	return item.ProposerIndices, nil
}

// AddProposerIndices adds ProposerIndices object to the cache.
// This method also trims the least recently list if the cache size has ready the max cache size limit.
func (c *ProposerIndicesCache) AddProposerIndices(p *ProposerIndices) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if p == nil {
		return ErrNotProposerIndices
	}
	c.cache.Add(p.BlockRoot, p)
	return nil
}

// Prune evicts the proposer indices entry of a pruned block root.
func (c *ProposerIndicesCache) Prune(r [32]byte) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cache.Remove(r)
}

// Clear resets the ProposerIndicesCache to its initial state.
func (c *ProposerIndicesCache) Clear() {
	cache, err := lru.New(int(maxProposerIndicesCacheSize))
	if err != nil {
		panic(err)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cache = cache
}
