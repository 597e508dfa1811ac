package cache

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
)

// BigCache adapts an allegro/bigcache instance to the transport cache
// interface. Suited to long-running processes issuing many distinct calls,
// where the map-based Memory cache would cull too aggressively.
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache creates a bigcache-backed response cache with the given life
// window.
func NewBigCache(lifeWindow time.Duration) (*BigCache, error) {
	if lifeWindow <= 0 {
		lifeWindow = 5 * time.Minute
	}
	c, err := bigcache.New(context.Background(), bigcache.DefaultConfig(lifeWindow))
	if err != nil {
		return nil, err
	}
	return &BigCache{cache: c}, nil
}

// Get fetches a key, reporting whether it was present.
func (c *BigCache) Get(key string) ([]byte, bool) {
	v, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Set stores a value under key.
func (c *BigCache) Set(key string, value []byte) {
	// bigcache only fails on oversized entries; a response too large to cache
	// is simply not cached.
	_ = c.cache.Set(key, value)
}

// Contains reports whether key is cached.
func (c *BigCache) Contains(key string) bool {
	_, err := c.cache.Get(key)
	return err == nil
}

// Close releases the cache's shards.
func (c *BigCache) Close() error {
	return c.cache.Close()
}
