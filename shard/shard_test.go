package shard

import (
	"fmt"
	"sync"
	"testing"
)

func TestShardEvictsThroughCallback(t *testing.T) {
	var evicted []string
	s, err := NewShard(2, false, func(key string, _ any, freq int) {
		evicted = append(evicted, fmt.Sprintf("%s@%d", key, freq))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Put("a", 1, nil)
	s.Put("b", 2, nil)
	s.Get("a")
	s.Put("c", 3, nil)

	if len(evicted) != 1 || evicted[0] != "b@1" {
		t.Fatalf("expected [b@1], got %v", evicted)
	}
	if f, _ := s.Frequency("a"); f != 2 {
		t.Fatalf("expected freq 2 for a, got %d", f)
	}
	if s.Len() != 2 || s.Cap() != 2 {
		t.Fatalf("expected len 2 cap 2, got %d/%d", s.Len(), s.Cap())
	}
}

func TestShardRejectsNegativeCapacity(t *testing.T) {
	if _, err := NewShard(-1, false, nil); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestShardConcurrentAccess(t *testing.T) {
	s, _ := NewShard(50, true, nil)

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*7+i)%80)
				s.Put(key, i, nil)
				s.Get(key)
				if i%10 == 0 {
					s.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if s.Len() > 50 {
		t.Fatalf("len %d exceeds capacity", s.Len())
	}
}

func TestHashSelectorIsStable(t *testing.T) {
	shards := make([]*Shard, 8)
	for i := range shards {
		shards[i], _ = NewShard(1, false, nil)
	}

	var sel HashSelector
	used := map[*Shard]bool{}
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		first := sel.Select(key, shards)
		if sel.Select(key, shards) != first {
			t.Fatalf("key %s moved between shards", key)
		}
		used[first] = true
	}
	if len(used) != len(shards) {
		t.Fatalf("expected all %d shards used, got %d", len(shards), len(used))
	}
}

func TestShardPutIfAbsent(t *testing.T) {
	s, _ := NewShard(2, false, nil)

	if v, stored := s.PutIfAbsent("a", 1); !stored || v != 1 {
		t.Fatalf("expected (1, true), got (%v, %v)", v, stored)
	}
	if v, stored := s.PutIfAbsent("a", 2); stored || v != 1 {
		t.Fatalf("expected the existing value (1, false), got (%v, %v)", v, stored)
	}
	if f, _ := s.Frequency("a"); f != 1 {
		t.Fatalf("PutIfAbsent must not count an access, got freq %d", f)
	}

	zero, _ := NewShard(0, false, nil)
	if v, stored := zero.PutIfAbsent("a", 1); stored || v != 1 || zero.Len() != 0 {
		t.Fatalf("zero capacity: expected (1, false) and nothing stored, got (%v, %v) len %d", v, stored, zero.Len())
	}
}
