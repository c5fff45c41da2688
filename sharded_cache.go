package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krisalay/lfu-cache/api"
	"github.com/krisalay/lfu-cache/engine"
	"github.com/krisalay/lfu-cache/lfu"
	"github.com/krisalay/lfu-cache/shard"
	"golang.org/x/sync/singleflight"
)

var _ api.Cache = (*ShardedCache)(nil)

// LoadTimeout bounds one backing-store load on a miss.
const LoadTimeout = 10 * time.Second

// ErrInvalidShards is returned when a cache is created with fewer than one shard.
var ErrInvalidShards = errors.New("cache: shard count must be positive")

/*
ShardedCache is the main cache implementation.
This struct is the orchestrator that connects:
- shards (each one an LFU core behind its own lock)
- loading on miss
- write policies
- eviction listeners
- metrics
*/
type ShardedCache struct {
	// shards are the actual storage units. Each shard is an independent LFU cache.
	shards []*shard.Shard

	// engine contains the "rules" of the cache: loader, write policy, listener, metrics.
	engine *engine.CacheEngine

	// selector decides which shard a key should go to.
	selector shard.Selector

	// capacity is the maximum number of entries in the cache. This is divided across shards.
	capacity int

	// singleflight prevents multiple goroutines from loading the same key from the backing store simultaneously.
	sf singleflight.Group
}

/*
NewShardedCache creates a cache of the given total capacity split over shards.

The split is exact: the first capacity%shards shards get one extra slot,
so the shard capacities always add up to capacity. Eviction is per shard,
which makes the global policy an approximation of LFU when shards > 1.
*/
func NewShardedCache(
	shards int,
	capacity int,
	promoteOnUpdate bool,
	eng *engine.CacheEngine,
) (*ShardedCache, error) {
	if shards <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShards, shards)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("cache: %w: got %d", lfu.ErrNegativeCapacity, capacity)
	}

	// A nil engine means: no loader, no write policy, no metrics.
	if eng == nil {
		eng = engine.NewCacheEngine(nil, nil, nil, nil, nil)
	}

	s := make([]*shard.Shard, shards)
	for i := range s {
		size := capacity / shards
		if i < capacity%shards {
			size++
		}

		sh, err := shard.NewShard(size, promoteOnUpdate, eng.OnEvict)
		if err != nil {
			return nil, fmt.Errorf("cache: shard %d: %w", i, err)
		}
		s[i] = sh
	}

	return &ShardedCache{
		shards:   s,
		engine:   eng,
		selector: shard.HashSelector{},
		capacity: capacity,
	}, nil
}

/*
Get retrieves a value from the cache.

A hit counts as an access for the LFU policy. A miss goes to the loader;
a nil loaded value is reported as (nil, nil).
*/
func (c *ShardedCache) Get(ctx context.Context, key string) (any, error) {

	// Decide which shard should handle this key
	sh := c.selector.Select(key, c.shards)

	if v, ok := sh.Get(key); ok {
		c.engine.Metrics.Hit()
		return v, nil
	}

	// Cache miss
	c.engine.Metrics.Miss()

	/*
		singleflight ensures that:
		- If 100 goroutines request the same missing key,
		  only ONE of them loads it from the backing store.
		- Others wait for the result.
	*/
	ch := c.sf.DoChan(key, func() (any, error) {
		// another caller may have filled the key while we waited
		if v, ok := sh.Peek(key); ok {
			return v, nil
		}

		// The load is shared by every waiter, so it must not die with
		// the context of whichever caller happened to start it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		v, err := c.engine.Load(loadCtx, key)
		if err != nil || v == nil {
			return v, err
		}

		// The value came from the store, so it is not written back.
		// A Put that landed during the load wins over the stored copy.
		v, _ = sh.PutIfAbsent(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

/*
Put stores a value in the cache.

The write policy runs while the shard is still locked, so writes of the
same key reach the backing store in the order they hit the cache.
*/
func (c *ShardedCache) Put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sh := c.selector.Select(key, c.shards)
	sh.Put(key, value, func() {
		c.engine.OnWrite(ctx, key, value)
	})
	return nil
}

/*
Remove deletes a key from the cache immediately.
It is not counted as an eviction and does not touch the backing store.
*/
func (c *ShardedCache) Remove(key string) {
	c.selector.Select(key, c.shards).Remove(key)
}

/*
Invalidate removes key from the cache AND from the backing store, when the
store supports deletes (types.Deleter). Under write-back, a write of key
still queued when Invalidate runs can recreate the store copy.
*/
func (c *ShardedCache) Invalidate(ctx context.Context, key string) error {
	c.Remove(key)
	return c.engine.Delete(ctx, key)
}

// Frequency returns the access count the LFU policy holds for key.
func (c *ShardedCache) Frequency(key string) (int, bool) {
	return c.selector.Select(key, c.shards).Frequency(key)
}

// Len returns the number of keys across all shards.
func (c *ShardedCache) Len() int {
	n := 0
	for _, sh := range c.shards {
		n += sh.Len()
	}
	return n
}

// Cap returns the total capacity.
func (c *ShardedCache) Cap() int {
	return c.capacity
}

/*
Close gracefully shuts down the cache.
This is important for write-back policies, so pending writes are flushed.
*/
func (c *ShardedCache) Close() {
	c.engine.Close()
}
