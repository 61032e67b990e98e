package cache

import (
	"testing"
	"time"
)

func TestVectorCache_GetSet(t *testing.T) {
	c := NewVectorCache(4, 0)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("what is hemoglobin", []float32{0.1, 0.2})
	vec, ok := c.Get("what is hemoglobin")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(vec) != 2 || vec[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestVectorCache_EvictsOldest(t *testing.T) {
	c := NewVectorCache(2, 0)

	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	c.Set("c", []float32{3})

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive eviction")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestVectorCache_TTLExpiry(t *testing.T) {
	c := NewVectorCache(4, 10*time.Millisecond)

	c.Set("a", []float32{1})
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestVectorCache_Purge(t *testing.T) {
	c := NewVectorCache(4, 0)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})

	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after purge, got %d entries", c.Len())
	}
}
