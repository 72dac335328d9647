package metadata

import (
	"sync"
	"time"
)

// cacheEntry holds one ranked result list and its insertion time.
type cacheEntry struct {
	matches    []ScoredMatch
	insertedAt time.Time
}

// resultCache is an in-process TTL cache for ranked resolutions. An entry
// older than the TTL is logically absent: it is never served and is
// dropped lazily on lookup.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time // injectable for tests
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns a live entry for key, or reports a miss. Expired entries are
// removed on the way out so they can never be served by a later racy read.
func (c *resultCache) get(key string) ([]ScoredMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.matches, true
}

// set stores matches under key, overwriting any prior entry.
func (c *resultCache) set(key string, matches []ScoredMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{matches: matches, insertedAt: c.now()}
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
