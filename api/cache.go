package api

import "context"

/*
Cache defines the PUBLIC API of the sharded LFU cache.
Sharding, locking, loading and write propagation are hidden behind it.
*/
type Cache interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. If the key is in the cache:
		   - Count one access for the LFU policy
		   - Return the value immediately (cache hit)

		2. If the key is NOT in the cache:
		   - Load the value from the backing store, if one is configured
		   - Store it in cache
		   - Return the value (cache miss)

		A miss with nothing to load returns (nil, nil).
	*/
	Get(ctx context.Context, key string) (any, error)

	/*
		Put stores a key-value pair in the cache.

		BEHAVIOR:
		---------
		- A new key on a full shard evicts that shard's least frequently used key
		- An existing key keeps its access count
		- Applies the write policy (write-through or write-back)
	*/
	Put(ctx context.Context, key string, value any) error

	/*
		Remove deletes a key from the cache immediately.

		- Removes it from LFU tracking
		- Is NOT reported as an eviction
		- Does NOT affect the backing store

		Removing a non-existing key is safe.
	*/
	Remove(key string)

	// Len returns the number of cached keys.
	Len() int

	/*
		Close gracefully shuts down the cache.

		- Flushes any pending write-back operations
		- Stops background goroutines
	*/
	Close()
}
