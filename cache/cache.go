// Package cache memoizes username → profile-picture URL lookups for a short
// TTL so repeated requests skip a full browser session.
package cache

import (
	"strings"
	"sync"
	"time"
)

// entry holds a cached URL with its fetch timestamp. Expired entries are
// treated as absent and overwritten by the next fetch, never mutated.
type entry struct {
	url       string
	fetchedAt time.Time
}

// Cache is an in-memory TTL cache keyed by username.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]entry
	ttl        time.Duration
	maxEntries int

	now func() time.Time
}

// New creates a Cache. A ttl <= 0 disables caching: every Get misses and
// Put is a no-op. A background goroutine evicts expired entries every
// 5 minutes.
func New(ttl time.Duration, maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	if ttl > 0 {
		go c.cleanupLoop()
	}
	return c
}

// Enabled reports whether caching is active (a positive TTL).
func (c *Cache) Enabled() bool {
	return c.ttl > 0
}

// Get returns the cached URL for username if its age is below the TTL.
func (c *Cache) Get(username string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}

	key := normalize(username)
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return "", false
	}
	return e.url, true
}

// Put stores the URL for username, overwriting any prior entry. When the
// cache is at capacity a random entry is evicted (map iteration is random
// in Go).
func (c *Cache) Put(username, url string) {
	if c.ttl <= 0 {
		return
	}

	key := normalize(username)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = entry{url: url, fetchedAt: c.now()}
}

// cleanupLoop evicts expired entries every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		for k, e := range c.store {
			if c.now().Sub(e.fetchedAt) >= c.ttl {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
