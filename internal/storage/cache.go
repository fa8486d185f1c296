package storage

import (
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
)

// PerftCache keeps recently used perft counts in memory in front of the
// database. Lookups that miss the cache fall through to Storage.
type PerftCache struct {
	store *Storage
	cache *ristretto.Cache[uint64, uint64]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPerftCache creates a cache holding up to maxEntries counts.
func NewPerftCache(store *Storage, maxEntries int64) (*PerftCache, error) {
	// Every entry costs 1, so MaxCost is an entry count.
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, uint64]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &PerftCache{store: store, cache: cache}, nil
}

func cacheKey(fen string, depth int) uint64 {
	d := xxhash.New()
	d.WriteString(strconv.Itoa(depth))
	d.WriteString("/")
	d.WriteString(fen)
	return d.Sum64()
}

// Lookup returns the known node count for fen at depth.
func (c *PerftCache) Lookup(fen string, depth int) (uint64, bool, error) {
	key := cacheKey(fen, depth)
	if nodes, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return nodes, true, nil
	}
	c.misses.Add(1)

	if c.store == nil {
		return 0, false, nil
	}
	rec, found, err := c.store.LoadPerft(fen, depth)
	if err != nil || !found {
		return 0, false, err
	}
	c.cache.Set(key, rec.Nodes, 1)
	return rec.Nodes, true, nil
}

// Remember caches a record and writes it through to the database.
func (c *PerftCache) Remember(rec PerftRecord) error {
	c.cache.Set(cacheKey(rec.FEN, rec.Depth), rec.Nodes, 1)
	c.cache.Wait()
	if c.store == nil {
		return nil
	}
	return c.store.SavePerft(rec)
}

// HitRate returns the cache hit rate as a percentage.
func (c *PerftCache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Clear empties the in-memory cache and resets the counters.
func (c *PerftCache) Clear() {
	c.cache.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Close releases the cache. The underlying Storage stays open.
func (c *PerftCache) Close() {
	c.cache.Close()
}
