// file: internal/cache/cache_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func withClock[T any](c *Cache[T]) (*Cache[T], *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c.now = clk.now
	return c, clk
}

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("q=knee", "v")
	if v, ok := c.Get("q=knee"); !ok || v != "v" {
		t.Fatalf("expected v, got %q ok=%v", v, ok)
	}
	if _, ok := c.Get("q=back"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestExpiredEntryIsDroppedOnRead(t *testing.T) {
	c, clk := withClock(New[int](time.Minute))
	c.Set("k", 42)
	clk.advance(time.Minute + time.Second)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry removed, len=%d", c.Len())
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Invalidate("a")
	c.Invalidate("missing")

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be invalidated")
	}
	if v, ok := c.Get("b"); !ok || v != "2" {
		t.Fatal("expected b to remain")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatal("expected cache usable after InvalidateAll")
	}
}

func TestZeroTTLStoresNothing(t *testing.T) {
	c := New[int](0)
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected nothing cached with zero TTL")
	}

	calls := 0
	for i := 0; i < 2; i++ {
		c.GetOrLoad("k", func() int { calls++; return 1 })
	}
	if calls != 2 || c.Len() != 0 {
		t.Fatalf("expected uncached loads, calls=%d len=%d", calls, c.Len())
	}
}

func TestGetOrLoad(t *testing.T) {
	c := New[string](time.Minute)
	calls := 0
	load := func() string {
		calls++
		return "loaded"
	}

	if v, hit := c.GetOrLoad("q=knee", load); hit || v != "loaded" {
		t.Fatalf("first call: got %q hit=%v", v, hit)
	}
	if v, hit := c.GetOrLoad("q=knee", load); !hit || v != "loaded" {
		t.Fatalf("second call: got %q hit=%v", v, hit)
	}
	if calls != 1 {
		t.Fatalf("expected load once, got %d", calls)
	}
}

func TestGetOrLoadSharesConcurrentMisses(t *testing.T) {
	c := New[int](time.Minute)
	release := make(chan struct{})
	var calls atomic.Int32

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.GetOrLoad("q=tinnitus", func() int {
				calls.Add(1)
				<-release
				return 7
			})
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected a single load, got %d", n)
	}
	for i, v := range results {
		if v != 7 {
			t.Fatalf("result %d = %d, want 7", i, v)
		}
	}
}

func TestBoundedEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewBounded[int](time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now more recent than b
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a kept")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatal("expected c stored")
	}
}

func TestBoundedOverwriteDoesNotEvict(t *testing.T) {
	c := NewBounded[int](time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != 10 {
		t.Fatalf("expected overwritten value, got %d", v)
	}
}

func TestPrune(t *testing.T) {
	c, clk := withClock(New[int](time.Minute))
	c.SetWithTTL("a", 1, time.Second)
	c.Set("b", 2)
	clk.advance(2 * time.Second)

	if n := c.Prune(); n != 1 {
		t.Fatalf("expected 1 pruned, got %d", n)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", c.Len())
	}
}
