package fetch

import (
	"context"

	"github.com/heartmarshall/quicktranslate/internal/observe"
)

// Cached serves repeated URLs from a Cache and delegates misses.
// Only successful fetches are stored.
type Cached struct {
	next    Fetcher
	cache   *Cache
	metrics *observe.Metrics
}

// NewCached wraps next with cache. metrics may be nil.
func NewCached(next Fetcher, cache *Cache, metrics *observe.Metrics) *Cached {
	return &Cached{next: next, cache: cache, metrics: metrics}
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context, url string) (string, error) {
	if v, ok := c.cache.Get(url); ok {
		c.metrics.RecordFetchCache(ctx, true)
		return v, nil
	}
	c.metrics.RecordFetchCache(ctx, false)

	v, err := c.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	c.cache.Set(url, v)
	return v, nil
}
