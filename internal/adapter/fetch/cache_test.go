package fetch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCache_SetThenGet(t *testing.T) {
	t.Parallel()

	c := NewCache(4, time.Minute, clockwork.NewFakeClock())
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing key reported present")
	}
}

func TestCache_Overwrite(t *testing.T) {
	t.Parallel()

	c := NewCache(4, time.Minute, clockwork.NewFakeClock())
	c.Set("k", "old")
	c.Set("k", "new")

	if got, _ := c.Get("k"); got != "new" {
		t.Fatalf("Get = %q, want new", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	c := NewCache(4, time.Hour, clock)
	c.Set("k", "v")

	clock.Advance(time.Hour - time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry returned at its expiry instant")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not evicted on read, Len = %d", c.Len())
	}
}

func TestCache_SetPurgesExpired(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	c := NewCache(10, time.Minute, clock)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.Advance(2 * time.Minute)
	c.Set("c", "3")

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after purge", c.Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := NewCache(3, time.Hour, clockwork.NewFakeClock())
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	// Touch "a" so "b" becomes the oldest.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Set("d", "4")

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry b should be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestCache_DefaultBound(t *testing.T) {
	t.Parallel()

	c := NewCache(0, 0, clockwork.NewFakeClock())
	for i := 0; i < DefaultMaxEntries+10; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}

	if c.Len() != DefaultMaxEntries {
		t.Fatalf("Len = %d, want %d", c.Len(), DefaultMaxEntries)
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should be evicted")
	}
	last := fmt.Sprintf("k%d", DefaultMaxEntries+9)
	if _, ok := c.Get(last); !ok {
		t.Error("most recent entry must never be evicted")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewCache(16, time.Minute, clockwork.NewFakeClock())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n+j)%32)
				c.Set(key, "v")
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Fatalf("Len = %d exceeds bound", c.Len())
	}
}
