package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	body  string
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[url]++
	return f.body, f.err
}

func (f *countingFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func TestCached_ServesRepeatsFromCache(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{body: "payload"}
	c := NewCached(inner, NewCache(8, time.Hour, clockwork.NewFakeClock()), nil)

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(context.Background(), "https://a.test/x")
		if err != nil || got != "payload" {
			t.Fatalf("Fetch = %q, %v", got, err)
		}
	}
	if n := inner.count("https://a.test/x"); n != 1 {
		t.Fatalf("network calls = %d, want 1", n)
	}
}

func TestCached_RefetchesAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	inner := &countingFetcher{body: "payload"}
	c := NewCached(inner, NewCache(8, time.Minute, clock), nil)

	_, _ = c.Fetch(context.Background(), "u")
	clock.Advance(time.Minute)
	_, _ = c.Fetch(context.Background(), "u")

	if n := inner.count("u"); n != 2 {
		t.Fatalf("network calls = %d, want 2", n)
	}
}

func TestCached_FailuresAreNotStored(t *testing.T) {
	t.Parallel()

	cache := NewCache(8, time.Hour, clockwork.NewFakeClock())
	inner := &countingFetcher{err: errors.New("boom")}
	c := NewCached(inner, cache, nil)

	if _, err := c.Fetch(context.Background(), "u"); err == nil {
		t.Fatal("expected error")
	}
	if cache.Len() != 0 {
		t.Fatalf("cache Len = %d, want 0", cache.Len())
	}

	inner.err = nil
	inner.body = "ok"
	got, err := c.Fetch(context.Background(), "u")
	if err != nil || got != "ok" {
		t.Fatalf("Fetch = %q, %v", got, err)
	}
}
