package fetch

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/jonboulle/clockwork"
)

const (
	// DefaultMaxEntries bounds the fetch cache when no size is configured.
	DefaultMaxEntries = 512
	// DefaultTTL is the lifetime of a cached payload.
	DefaultTTL = time.Hour
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is a bounded LRU of fetched payloads with a fixed TTL.
// Expired entries are dropped on Get and purged on every Set.
// Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	lru   *simplelru.LRU[string, entry]
	ttl   time.Duration
	clock clockwork.Clock
}

// NewCache creates a Cache. Non-positive limits fall back to the defaults;
// a nil clock means the real clock.
func NewCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	// NewLRU only fails for a non-positive size.
	lru, _ := simplelru.NewLRU[string, entry](maxEntries, nil)
	return &Cache{lru: lru, ttl: ttl, clock: clock}
}

// Get returns the cached value for key and marks it most recently used.
// An expired entry is removed and reported as missing.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(c.clock.Now()) {
		c.lru.Remove(key)
		return "", false
	}
	c.lru.Get(key)
	return e.value, true
}

// Set stores value under key with a fresh expiry. Expired entries are
// purged first; least recently used entries are evicted past the bound.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.purgeExpired(now)
	c.lru.Add(key, entry{value: value, expiresAt: now.Add(c.ttl)})
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) purgeExpired(now time.Time) {
	for _, key := range c.lru.Keys() {
		if e, ok := c.lru.Peek(key); ok && !e.expiresAt.After(now) {
			c.lru.Remove(key)
		}
	}
}
