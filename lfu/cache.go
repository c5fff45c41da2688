/*
Package lfu implements a fixed-capacity Least-Frequently-Used cache with O(1)
Get and Put.

When the cache is full, the key with the smallest access count is evicted.
Ties between keys with the same count are broken by recency: the key that
entered that count first is evicted first.

Internally there are two levels of doubly-linked lists:
- a list of frequency buckets, ordered by increasing frequency
- inside each bucket, a list of keys ordered from oldest to newest

The lowest-frequency bucket is always the head of the list, so eviction
never scans.

A Cache is NOT safe for concurrent use. Callers that share one between
goroutines must hold a single lock around every call (see package shard).
*/
package lfu

import "errors"

// ErrNegativeCapacity is returned by New when the capacity is below zero.
var ErrNegativeCapacity = errors.New("lfu: capacity must not be negative")

// Cache is an LFU cache with LRU tie-breaking.
type Cache[K comparable, V any] struct {
	// head is the bucket with the lowest frequency, nil when the cache is empty.
	head *bucket[K]

	// entries finds the list node of a key in O(1).
	entries map[K]*entry[K]

	// values holds the stored value of each key.
	values map[K]V

	capacity int
	size     int

	promoteOnUpdate bool
	onEvict         func(key K, value V, freq int)
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithOnEvict registers fn to be called with every evicted key, its value
// and the frequency it had reached. Keys removed with Remove are not reported.
func WithOnEvict[K comparable, V any](fn func(key K, value V, freq int)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = fn
	}
}

// WithPromoteOnUpdate makes Put on an existing key count as an access.
// By default overwriting a value does not change the key's frequency.
func WithPromoteOnUpdate[K comparable, V any](promote bool) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.promoteOnUpdate = promote
	}
}

// New creates a cache holding at most capacity keys.
// A zero capacity cache stores nothing.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}

	c := &Cache[K, V]{
		entries:  make(map[K]*entry[K], capacity),
		values:   make(map[K]V, capacity),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNew is like New but panics on a negative capacity.
func MustNew[K comparable, V any](capacity int, opts ...Option[K, V]) *Cache[K, V] {
	c, err := New(capacity, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

/*
Get returns the value stored for key.

A hit counts as an access: the key moves to the next frequency bucket and
becomes the most recently used key there. A miss changes nothing.
*/
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	c.increment(e)
	return c.values[key], true
}

// Peek returns the value stored for key without counting an access.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	v, ok := c.values[key]
	return v, ok
}

/*
Put stores value under key.

BEHAVIOR:
---------
  - capacity 0: nothing is stored
  - existing key: the value is replaced, the frequency is kept
    (unless WithPromoteOnUpdate is set)
  - new key on a full cache: the LFU key is evicted first
  - new key: it starts at frequency 1 as the newest key of that bucket
*/
func (c *Cache[K, V]) Put(key K, value V) {
	if c.capacity == 0 {
		return
	}

	if e, ok := c.entries[key]; ok {
		c.values[key] = value
		if c.promoteOnUpdate {
			c.increment(e)
		}
		return
	}

	if c.size == c.capacity {
		c.Evict()
	}

	if c.head == nil || c.head.freq != 1 {
		c.insertBucketAfter(nil, 1)
	}

	c.entries[key] = c.head.push(key)
	c.values[key] = value
	c.size++
}

// Evict removes the least frequently used key and returns it with its value.
// It reports false when the cache is empty.
func (c *Cache[K, V]) Evict() (K, V, bool) {
	if c.head == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}

	freq := c.head.freq
	key := c.pop(c.head)
	value := c.values[key]
	c.forget(key)

	if c.onEvict != nil {
		c.onEvict(key, value, freq)
	}
	return key, value, true
}

// Remove deletes key from the cache. It reports whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}

	c.unlink(e)
	c.forget(key)
	return true
}

// forget drops key from both mappings once its entry is unlinked.
func (c *Cache[K, V]) forget(key K) {
	delete(c.entries, key)
	delete(c.values, key)
	c.size--
}

// Frequency returns how many times key has been accessed since it was inserted.
// Insertion itself counts as the first access.
func (c *Cache[K, V]) Frequency(key K) (int, bool) {
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return e.bucket.freq, true
}

// Keys returns the cached keys in eviction order:
// lowest frequency first, oldest first within a frequency.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.size)
	for b := c.head; b != nil; b = b.next {
		for e := b.head; e != nil; e = e.next {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of cached keys.
func (c *Cache[K, V]) Len() int {
	return c.size
}

// Cap returns the maximum number of keys the cache holds.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}
