package store

import (
	"sync"

	"investor_dashboard/pkg/core/pipeline"
)

// DefaultCacheEntries bounds the number of results kept in memory.
const DefaultCacheEntries = 32

// ResultCache keeps pipeline results keyed by document digest, so two sessions
// holding the same document share one computation. Oldest entries are evicted
// first once the cache is full.
type ResultCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]*pipeline.Result
	order   []string
}

// NewResultCache creates a cache holding at most max results (DefaultCacheEntries if max <= 0).
func NewResultCache(max int) *ResultCache {
	if max <= 0 {
		max = DefaultCacheEntries
	}
	return &ResultCache{max: max, entries: make(map[string]*pipeline.Result)}
}

// Get returns the cached result for digest.
func (c *ResultCache) Get(digest string) (*pipeline.Result, bool) {
	if digest == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[digest]
	return res, ok
}

// Put stores res under its digest. Results without a digest are not cached.
func (c *ResultCache) Put(res *pipeline.Result) {
	if res == nil || res.Digest == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[res.Digest]; !exists {
		c.order = append(c.order, res.Digest)
	}
	c.entries[res.Digest] = res

	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len reports the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached result.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*pipeline.Result)
	c.order = nil
}
