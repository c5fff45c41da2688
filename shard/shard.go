package shard

import (
	"sync"

	"github.com/krisalay/lfu-cache/lfu"
)

/*
This file defines what a "Shard" is. A shard is a small, independent piece of the cache.
Instead of having: One big cache and one big lock
We split the cache into many shards. Each shard:
- Holds some portion of the data
- Runs its own LFU bookkeeping
- Has its own lock

The LFU core mutates linked lists on every read, so reads need the lock too.
Splitting the keys across shards is what keeps that lock from becoming a bottleneck.
*/
type Shard struct {
	mu sync.Mutex

	// core holds the key → value data and the frequency lists of this shard.
	core *lfu.Cache[string, any]
}

// EvictFunc is called, under the shard lock, for every key the LFU policy pushes out.
type EvictFunc func(key string, value any, freq int)

// NewShard creates a shard holding at most capacity keys.
func NewShard(capacity int, promoteOnUpdate bool, onEvict EvictFunc) (*Shard, error) {
	opts := []lfu.Option[string, any]{
		lfu.WithPromoteOnUpdate[string, any](promoteOnUpdate),
	}
	if onEvict != nil {
		opts = append(opts, lfu.WithOnEvict[string, any](onEvict))
	}

	c, err := lfu.New[string, any](capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Shard{core: c}, nil
}

// Get returns the value for key and counts the access.
func (s *Shard) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Get(key)
}

// Peek returns the value for key without counting an access.
func (s *Shard) Peek(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Peek(key)
}

// PutIfAbsent stores value unless key is already cached, in one critical section.
// It returns the value the shard holds afterwards and whether it was stored.
// A zero-capacity shard stores nothing: it hands value back with false.
func (s *Shard) PutIfAbsent(key string, value any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.core.Peek(key); ok {
		return v, false
	}
	s.core.Put(key, value)
	return value, s.core.Cap() > 0
}

// Put stores value under key, evicting the LFU key when the shard is full.
// after, when non-nil, runs before the lock is released.
func (s *Shard) Put(key string, value any, after func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.core.Put(key, value)
	if after != nil {
		after()
	}
}

// Remove deletes key. It reports whether the key was present.
func (s *Shard) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Remove(key)
}

// Frequency returns the access count of key.
func (s *Shard) Frequency(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Frequency(key)
}

// Len returns how many keys the shard holds.
func (s *Shard) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Len()
}

// Cap returns the shard capacity.
func (s *Shard) Cap() int {
	return s.core.Cap()
}
