// Package cache provides response-cache implementations for the transport
// layer: an in-process TTL cache, a bigcache-backed cache for heavy use and a
// sqlite-backed cache that persists across runs.
package cache

import (
	"sync"
	"time"
)

const defaultCullFrequency = 3

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is a small in-process response cache. Entries time out after the
// configured TTL; once the entry count reaches the maximum, a fraction of the
// stored keys is culled to make room.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
}

// NewMemory creates a cache holding at most maxEntries values for ttl each.
// Zero values fall back to 300s and 200 entries.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get fetches a key, reporting whether it was present and unexpired.
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key with the default TTL.
func (c *Memory) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.cullLocked()
	}
	c.entries[key] = memoryEntry{value: value, expires: time.Now().Add(c.ttl)}
}

// Contains reports whether key is cached and unexpired.
func (c *Memory) Contains(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes a key, silently ignoring absent ones.
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries; some may already be expired.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Memory) cullLocked() {
	i := 0
	for k := range c.entries {
		if i%defaultCullFrequency == 0 {
			delete(c.entries, k)
		}
		i++
	}
}
