// Package resultcache stores final translation results keyed by
// "source:target:normalized text".
package resultcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

const (
	DefaultMaxEntries = 1024
	DefaultTTL        = 24 * time.Hour
)

// Memory is an in-process result cache.
type Memory struct {
	lru *expirable.LRU[string, domain.TranslationResult]
}

// NewMemory creates a Memory cache. Non-positive arguments fall back to the defaults.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{lru: expirable.NewLRU[string, domain.TranslationResult](maxEntries, nil, ttl)}
}

// Get returns the live result stored under key. Expired entries are misses.
func (m *Memory) Get(_ context.Context, key string) (domain.TranslationResult, bool) {
	return m.lru.Get(key)
}

// Set stores result under key, evicting the least recently used entry when
// the cache is full.
func (m *Memory) Set(_ context.Context, key string, result domain.TranslationResult) {
	m.lru.Add(key, result)
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}
