package shaderinfo

import (
	"hash/fnv"
	"sync"
)

// DefaultCacheLimit is the soft limit used when NewCache gets zero.
const DefaultCacheLimit = 128

// Cache memoizes Inspect by shader source and entry point name. Pipelines
// created from one shader module inspect it once.
//
// Cache is safe for concurrent use and must not be copied after creation.
type Cache struct {
	mu        sync.Mutex
	entries   map[cacheKey]*cacheEntry
	softLimit int
	tick      int64 // monotonic access counter

	hits, misses uint64
}

type cacheKey struct {
	sum   uint64
	entry string
}

type cacheEntry struct {
	source string
	frag   Fragment
	err    error
	atime  int64
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Len, Capacity int
	Hits, Misses  uint64
}

// NewCache returns a cache that keeps about softLimit inspections.
func NewCache(softLimit int) *Cache {
	if softLimit <= 0 {
		softLimit = DefaultCacheLimit
	}
	return &Cache{
		entries:   make(map[cacheKey]*cacheEntry),
		softLimit: softLimit,
	}
}

// Inspect returns the cached description of entry in source, inspecting
// it on a miss. Errors are cached as well.
func (c *Cache) Inspect(source, entry string) (Fragment, error) {
	h := fnv.New64a()
	h.Write([]byte(source))
	key := cacheKey{sum: h.Sum64(), entry: entry}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok && e.source == source {
		e.atime = c.tick
		c.hits++
		return e.frag, e.err
	}

	// Inspect under the lock so concurrent misses parse once.
	c.misses++
	frag, err := Inspect(source, entry)
	c.entries[key] = &cacheEntry{source: source, frag: frag, err: err, atime: c.tick}
	if len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return frag, err
}

// Len returns the number of cached inspections.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.tick = 0
}

// Stats returns the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Len:      len(c.entries),
		Capacity: c.softLimit,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}

// evictOldest removes the least recently used quarter of the limit, at
// least one entry. Caller must hold c.mu.
func (c *Cache) evictOldest() {
	n := max(len(c.entries)-c.softLimit, c.softLimit/4, 1)
	for ; n > 0 && len(c.entries) > 0; n-- {
		var oldest cacheKey
		var oldestTime int64 = -1
		for k, e := range c.entries {
			if oldestTime < 0 || e.atime < oldestTime {
				oldest, oldestTime = k, e.atime
			}
		}
		delete(c.entries, oldest)
	}
}
