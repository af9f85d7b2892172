package dispatch

import "sync"

// cacheKey identifies one resolution: a selector looked up from a class.
type cacheKey struct {
	class *Class
	scope Scope
	sel   Selector
}

// methodCache memoizes ancestor-chain resolution. Entries are only valid
// until the next table mutation, which flushes everything.
type methodCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*Method
	hits    uint64
	misses  uint64
}

func newMethodCache() *methodCache {
	return &methodCache{entries: make(map[cacheKey]*Method)}
}

// lookup returns the cached entry or calls resolve and caches a non-nil
// result. The caller must hold at least the table's read lock.
func (c *methodCache) lookup(key cacheKey, resolve func() *Method) *Method {
	c.mu.Lock()
	if m, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return m
	}
	c.misses++
	c.mu.Unlock()

	m := resolve()
	if m == nil {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = m
	c.mu.Unlock()
	return m
}

// flush clears the entire cache.
func (c *methodCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*Method)
}

// CacheStats reports resolution cache activity.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

func (c *methodCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
