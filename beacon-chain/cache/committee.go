package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/pharoslabs/pharos/config/params"
	mathutil "github.com/pharoslabs/pharos/math"
)

var (
	// maxCommitteesCacheSize defines the max number of shuffled committees on per randao basis can cache.
	// Due to reorgs and long finality, it's good to keep the old cache around for quickly switch over.
	maxCommitteesCacheSize = 32

	// CommitteeCacheMiss tracks the number of committee requests that aren't present in the cache.
	CommitteeCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "committee_cache_miss",
		Help: "The number of committee requests that aren't present in the cache.",
	})
	// CommitteeCacheHit tracks the number of committee requests that are in the cache.
	CommitteeCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "committee_cache_hit",
		Help: "The number of committee requests that are present in the cache.",
	})
)

// Committees defines the shuffled committees seed.
type Committees struct {
	CommitteeCount  uint64                 // Total number of committees in an epoch.
	Seed            [32]byte               // Seed is the seed used to shuffle the committees.
	ShuffledIndices []types.ValidatorIndex // Shuffled validator indices for the epoch of the seed.
	SortedIndices   []types.ValidatorIndex // Sorted active validator indices for the epoch of the seed.
}

// CommitteeCache is a struct with 1 LRU cache for looking up shuffled indices.
type CommitteeCache struct {
	cache      *lru.Cache
	lock       sync.RWMutex
	inProgress map[string]bool
}

// NewCommitteesCache creates a new committee cache for storing/accessing shuffled indices of a committee.
func NewCommitteesCache() *CommitteeCache {
	cache, err := lru.New(maxCommitteesCacheSize)
	if err != nil {
		panic(err)
	}
	return &CommitteeCache{
		cache:      cache,
		inProgress: make(map[string]bool),
	}
}

// Committee fetches the shuffled indices by slot and committee index. Every list of indices
// represent one committee. Returns true if the list exists with slot and committee index. Otherwise returns false, nil.
func (c *CommitteeCache) Committee(slot types.Slot, seed [32]byte, index types.CommitteeIndex) ([]types.ValidatorIndex, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	obj, exists := c.cache.Get(key(seed))
	if !exists {
		CommitteeCacheMiss.Inc()
		return nil, nil
	}
	CommitteeCacheHit.Inc()

	item, ok := obj.(*Committees)
	if !ok {
		return nil, ErrNotCommittee
	}

	committeeCountPerSlot := uint64(1)
	if item.CommitteeCount/uint64(params.BeaconConfig().SlotsPerEpoch) > 1 {
		committeeCountPerSlot = item.CommitteeCount / uint64(params.BeaconConfig().SlotsPerEpoch)
	}

	indexOffSet, err := mathutil.Add64(uint64(index), uint64(slot.ModSlot(params.BeaconConfig().SlotsPerEpoch).Mul(committeeCountPerSlot)))
	if err != nil {
		return nil, err
	}
	start, end := startEndIndices(item, indexOffSet)

	if end > uint64(len(item.ShuffledIndices)) || end < start {
		return nil, errors.New("requested index out of bound")
	}

	return item.ShuffledIndices[start:end], nil
}

// AddCommitteeShuffledList adds Committee shuffled list object to the cache. This method also trims the least
// recently used object if the cache size has ready the max cache size limit.
func (c *CommitteeCache) AddCommitteeShuffledList(committees *Committees) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if committees == nil {
		return ErrNotCommittee
	}
	c.cache.Add(key(committees.Seed), committees)
	return nil
}

// ActiveIndices returns the active indices of a given seed stored in cache.
func (c *CommitteeCache) ActiveIndices(seed [32]byte) ([]types.ValidatorIndex, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	obj, exists := c.cache.Get(key(seed))
	if !exists {
		CommitteeCacheMiss.Inc()
		return nil, nil
	}
	CommitteeCacheHit.Inc()

	item, ok := obj.(*Committees)
	if !ok {
		return nil, ErrNotCommittee
	}

	return item.SortedIndices, nil
}

// ActiveIndicesCount returns the active indices count of a given seed stored in cache.
func (c *CommitteeCache) ActiveIndicesCount(seed [32]byte) (int, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	obj, exists := c.cache.Get(key(seed))
	if !exists {
		CommitteeCacheMiss.Inc()
		return 0, nil
	}
	CommitteeCacheHit.Inc()

	item, ok := obj.(*Committees)
	if !ok {
		return 0, ErrNotCommittee
	}

	return len(item.SortedIndices), nil
}

// HasEntry returns true if the committee cache has a value.
func (c *CommitteeCache) HasEntry(seed string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	_, ok := c.cache.Get(seed)
	return ok
}

// MarkInProgress a request so that any other similar requests will block on
// Get until MarkNotInProgress is called.
func (c *CommitteeCache) MarkInProgress(seed [32]byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	s := key(seed)
	if c.inProgress[s] {
		return ErrAlreadyInProgress
	}
	c.inProgress[s] = true
	return nil
}

// MarkNotInProgress will release the lock on a specific request. Any other similar requests will
// no longer be blocked on Get.
func (c *CommitteeCache) MarkNotInProgress(seed [32]byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.inProgress, key(seed))
	return nil
}

// Clear resets the CommitteeCache to its initial state.
func (c *CommitteeCache) Clear() {
	cache, err := lru.New(maxCommitteesCacheSize)
	if err != nil {
		panic(err)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cache = cache
	c.inProgress = make(map[string]bool)
}

func startEndIndices(c *Committees, index uint64) (uint64, uint64) {
	validatorCount := uint64(len(c.ShuffledIndices))
	start := sliceutilSplitOffset(validatorCount, c.CommitteeCount, index)
	end := sliceutilSplitOffset(validatorCount, c.CommitteeCount, index+1)
	return start, end
}

// sliceutilSplitOffset returns (listsize * index) / chunks.
func sliceutilSplitOffset(listSize, chunks, index uint64) uint64 {
	return (listSize * index) / chunks
}

// Using seed as source for key to handle reorgs in the same epoch.
// The seed is derived from state's array of randao mixes and epoch value
// hashed together. This avoids collisions on different validator set. Spec definition:
// https://github.com/ethereum/eth2.0-specs/blob/v0.9.3/specs/core/0_beacon-chain.md#get_seed
func key(seed [32]byte) string {
	return string(seed[:])
}
