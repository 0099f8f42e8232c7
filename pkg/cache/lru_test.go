package cache

import "testing"

func TestLRU_EvictsOldest(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected \"a\" to be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("Get(b) = %v, %v; want 2, true", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("Get(c) = %v, %v; want 3, true", v, ok)
	}
	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestLRU_GetPromotesToFront(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")    // promote "a"
	c.Set("c", 3) // should evict "b", not "a"

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected \"b\" to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected \"a\" to survive eviction")
	}
}

func TestLRU_ZeroSizeTreatedAsOne(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestLRU_Purge(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Set("a", 1)
	c.Purge()
	if got := c.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0 after Purge", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected cache empty after Purge")
	}
}

func TestSingle_ReplacesOnNewKey(t *testing.T) {
	s := NewSingle[[2]string, int]()
	s.Set([2]string{"a", "b"}, 1)
	if v, ok := s.Get([2]string{"a", "b"}); !ok || v != 1 {
		t.Fatalf("Get = %v, %v; want 1, true", v, ok)
	}

	s.Set([2]string{"a", "c"}, 2)
	if _, ok := s.Get([2]string{"a", "b"}); ok {
		t.Fatal("expected previous entry to be evicted by single-entry cache")
	}
	if v, ok := s.Get([2]string{"a", "c"}); !ok || v != 2 {
		t.Fatalf("Get = %v, %v; want 2, true", v, ok)
	}
}

func TestSingle_Reset(t *testing.T) {
	s := NewSingle[string, int]()
	s.Set("k", 1)
	s.Reset()
	if _, ok := s.Get("k"); ok {
		t.Fatal("expected empty cache after Reset")
	}
}
