package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite: got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	clk.advance(30 * time.Second)
	c.Set("b", "2")
	clk.advance(30 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Errorf("CleanExpired = %d, want 0 (a already dropped on Get)", n)
	}
	clk.advance(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d, want 0", c.Size())
	}
}

func TestLRUCache_PurgeAndDelete(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a deleted")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Errorf("size after purge = %d", c.Size())
	}
	c.Set("c", "3")
	if _, ok := c.Get("c"); !ok {
		t.Error("cache unusable after purge")
	}
}

func TestLRUCache_SetIfGeneration(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	gen := c.Generation()
	if !c.SetIfGeneration("a", "1", gen) {
		t.Fatal("expected store with current generation")
	}
	c.Purge()
	if c.Generation() == gen {
		t.Fatal("purge did not advance generation")
	}
	if c.SetIfGeneration("b", "2", gen) {
		t.Fatal("stored with a stale generation")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("stale entry visible")
	}
	if !c.SetIfGeneration("b", "2", c.Generation()) {
		t.Fatal("expected store after re-reading generation")
	}
}

func TestLRUCache_ZeroTTLDisables(t *testing.T) {
	c, _ := newTestCache(10, 0)
	c.Set("a", "1")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected no caching with zero ttl")
	}
}

func TestManager_Sweep(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clk.advance(2 * time.Minute)

	m := NewManager()
	m.Register(c)
	if n := m.Sweep(); n != 2 {
		t.Fatalf("Sweep = %d, want 2", n)
	}

	m.Start(context.Background(), time.Hour)
	m.Stop()
	m.Stop()
}
