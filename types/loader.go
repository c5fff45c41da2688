package types

import "context"

// Loader is the contract between the cache and the backing store.
type Loader interface {

	/*
		Load is called when the cache misses. The key was not found in its shard,
		so the cache asks the Loader to fetch it.
		1. Shard lookup → key not found
		2. Cache calls Load(key), once per key thanks to singleflight
		3. Loader fetches from Redis/DB/API
		4. Cache stores the result at frequency 1
		5. Cache returns the value

		A key the store does not have is reported as (nil, nil).
	*/
	Load(ctx context.Context, key string) (any, error)

	/*
		Put is called when the cache needs to write data back to the backing store.

		This is used by write policies:
		-------------------------------
		- Write-through: write immediately
		- Write-back: write asynchronously later

		This does NOT store data in the cache. It stores data in the backing store.
	*/
	Put(ctx context.Context, key string, value any) error
}

// Deleter is implemented by backing stores that can drop a key.
// ShardedCache.Invalidate uses it to clear the store copy as well.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}
