package lookup

import (
	"sync"
	"time"
)

// ttlCache holds lookup results keyed by character name with a fixed
// time-to-live. Read-mostly; there is no invalidation beyond expiry.
type ttlCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	result  Result
	expires time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ttlCache) get(key string) (Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return Result{}, false
	}
	return e.result, true
}

func (c *ttlCache) put(key string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Opportunistically drop expired entries so the map tracks the roster
	// size rather than growing with every misspelled search.
	if len(c.entries) > 0 && len(c.entries)%256 == 0 {
		now := c.now()
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = cacheEntry{result: res, expires: c.now().Add(c.ttl)}
}

// size reports the number of cached names, expired or not.
func (c *ttlCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
