// Package pricing caches market quotes and refreshes them from the quote feed.
package pricing

import (
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// Cache holds the latest quote per ticker for a fixed time-to-live.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]model.Quote
	now     func() time.Time
}

// NewCache creates an empty cache whose entries expire ttl after they were fetched.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]model.Quote),
		now:     time.Now,
	}
}

// Get returns the cached quote for ticker if it has not expired.
func (c *Cache) Get(ticker string) (model.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.entries[normalize(ticker)]
	if !ok || c.now().Sub(q.FetchedAt) >= c.ttl {
		return model.Quote{}, false
	}
	return q, true
}

// Set stores q under its ticker.
func (c *Cache) Set(q model.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[normalize(q.Ticker)] = q
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for ticker, q := range c.entries {
		if now.Sub(q.FetchedAt) >= c.ttl {
			delete(c.entries, ticker)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
