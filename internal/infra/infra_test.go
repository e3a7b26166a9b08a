package infra

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock lets tests move time forward.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time         { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)}
	c := NewCache[string](ttl)
	c.now = clk.now
	return c, clk
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", "1")

	v, ok := c.Get("a")
	if !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("missing key should not be found")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", "1")
	c.SetWithTTL("b", "2", time.Hour)

	clk.advance(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should still be live")
	}
	if n := c.Cleanup(); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheTouchSlidesExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", "1")

	clk.advance(50 * time.Second)
	if !c.Touch("a") {
		t.Fatal("Touch should find live entry")
	}
	clk.advance(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("touched entry should still be live")
	}

	clk.advance(2 * time.Minute)
	if c.Touch("a") {
		t.Error("Touch should not revive an expired entry")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", "1")
	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated key should be gone")
	}
}

func TestCacheRunCleanupStops(t *testing.T) {
	c := NewCache[int](time.Nanosecond)
	c.Set("x", 1)

	ctx, cancel := context.WithCancel(context.Background())
	var sweeps int32
	done := make(chan error, 1)
	go func() {
		done <- c.RunCleanup(ctx, time.Millisecond, func(int) { atomic.AddInt32(&sweeps, 1) })
	}()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&sweeps) == 0 {
		select {
		case <-deadline:
			t.Fatal("cleanup never ran")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("RunCleanup returned %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not swept, Len = %d", c.Len())
	}
}
