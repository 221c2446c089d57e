package cache

import (
	"sync"
	"testing"
	"time"
)

func TestMemory_SetAndGet(t *testing.T) {
	c := NewMemory[string]()
	c.Set("key1", "value1", time.Minute)

	got, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "value1" {
		t.Errorf("expected value1, got %s", got)
	}
}

func TestMemory_Miss(t *testing.T) {
	c := NewMemory[string]()
	_, ok := c.Get("missing")
	if ok {
		t.Error("expected cache miss")
	}
}

func TestMemory_TTLExpiration(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock[string](func() time.Time { return now })

	c.Set("key1", "value1", time.Minute)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Error("expected hit before TTL")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Error("expected miss at exactly the deadline")
	}
}

func TestMemory_ExpiredEntryRemovedOnRead(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock[int](func() time.Time { return now })

	c.Set("key1", 1, time.Second)
	now = now.Add(2 * time.Second)

	c.Get("key1")
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be evicted on read, len=%d", c.Len())
	}
}

func TestMemory_Overwrite(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock[string](func() time.Time { return now })

	c.Set("key1", "old", time.Second)
	c.Set("key1", "new", time.Minute)

	now = now.Add(30 * time.Second)
	got, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected hit, overwrite should refresh the deadline")
	}
	if got != "new" {
		t.Errorf("expected new, got %s", got)
	}
}

func TestMemory_DeleteAndClear(t *testing.T) {
	c := NewMemory[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be deleted")
	}
	if c.Len() != 1 {
		t.Errorf("expected len 1, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	c := NewMemory[int]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("shared", n, time.Minute)
				c.Get("shared")
			}
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get("shared"); !ok {
		t.Error("expected value after concurrent writes")
	}
}
