// This file implements the frequency buckets and the list that orders them.

package lfu

/*
bucket groups all keys that were accessed exactly freq times.

Buckets form a doubly-linked list ordered by strictly increasing freq.
Frequencies may have gaps (1, 3, 7), the list itself never does.
A bucket without entries is never left in the list.
*/
type bucket[K comparable] struct {
	freq int

	prev *bucket[K]
	next *bucket[K]

	// head is the least recently used key of this frequency,
	// tail the most recently used one.
	head *entry[K]
	tail *entry[K]
}

// push appends a brand-new key at the tail of the bucket and returns its entry.
func (b *bucket[K]) push(key K) *entry[K] {
	e := &entry[K]{key: key}
	b.pushEntry(e)
	return e
}

// pushEntry re-homes an existing entry at the tail of the bucket,
// making it the most recently used key of this frequency.
func (b *bucket[K]) pushEntry(e *entry[K]) {
	e.bucket = b
	e.next = nil
	e.prev = b.tail

	if b.tail == nil {
		b.head = e
	} else {
		b.tail.next = e
	}
	b.tail = e
}

// pop removes the head entry of b and returns its key.
// Only eviction pops, and it always pops the lowest-frequency bucket.
func (c *Cache[K, V]) pop(b *bucket[K]) K {
	e := b.head
	c.unlink(e)
	return e.key
}

/*
removeBucket unlinks b from the frequency list.

If b was the head of the list, its successor (possibly nil) becomes the
new head, so the lowest frequency is always reachable from c.head.
*/
func (c *Cache[K, V]) removeBucket(b *bucket[K]) {
	prev, next := b.prev, b.next

	switch {
	case prev == nil && next == nil:
		c.head = nil
	case prev == nil:
		next.prev = nil
		c.head = next
	case next == nil:
		prev.next = nil
	default:
		prev.next = next
		next.prev = prev
	}

	b.prev, b.next = nil, nil
}

// insertBucketAfter creates a bucket for freq and links it right after prev.
// A nil prev inserts the new bucket as the head of the list.
func (c *Cache[K, V]) insertBucketAfter(prev *bucket[K], freq int) *bucket[K] {
	b := &bucket[K]{freq: freq, prev: prev}

	if prev == nil {
		b.next = c.head
		c.head = b
	} else {
		b.next = prev.next
		prev.next = b
	}

	if b.next != nil {
		b.next.prev = b
	}
	return b
}
