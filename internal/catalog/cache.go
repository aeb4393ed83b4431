package catalog

import (
	"sync"
	"time"

	"github.com/arunavsaha123/food-vista/internal/models"
)

// resultCache memoizes search results for a bounded time so repeated
// queries inside the window skip the upstream call. Expired entries are
// evicted lazily on lookup.
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	products  []models.Product
	expiresAt time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *resultCache) get(key string) ([]models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.products, true
}

func (c *resultCache) set(key string, products []models.Product) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		products:  products,
		expiresAt: c.now().Add(c.ttl),
	}
}
