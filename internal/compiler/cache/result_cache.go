package cache

import lru "github.com/hashicorp/golang-lru"

// ResultCache is an LRU cache of compilation results keyed by the
// content hash of the source that produced them. It stores values
// opaquely so the build package (whose Result type would otherwise
// import this package) can hold the only reference to its shape.
type ResultCache struct {
	lru *lru.Cache
}

// DefaultSize is the number of compilation results kept in memory by a
// watch-mode driver before the least-recently-used entry is evicted.
const DefaultSize = 64

// NewResultCache creates a ResultCache holding at most size entries.
func NewResultCache(size int) (*ResultCache, error) {
	l, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: l}, nil
}

// Get returns the cached result for source, if one is present.
func (c *ResultCache) Get(source string) (any, bool) {
	return c.lru.Get(Hash(source))
}

// Put records result under the content hash of source.
func (c *ResultCache) Put(source string, result any) {
	c.lru.Add(Hash(source), result)
}

// Purge empties the cache.
func (c *ResultCache) Purge() {
	c.lru.Purge()
}

// Len returns the number of entries currently cached.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
