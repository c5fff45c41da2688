// This file implements the per-key node of the LFU structure.

package lfu

/*
entry represents ONE cached key.

It lives in exactly one bucket's intra-list. The intra-list is ordered by
recency inside that frequency: head is the oldest key, tail the newest.
At any time exactly one of these holds:
- alone    (prev == nil, next == nil)
- head     (prev == nil, next != nil)
- tail     (prev != nil, next == nil)
- interior (prev != nil, next != nil)
*/
type entry[K comparable] struct {
	key K

	// bucket is the frequency bucket this entry currently belongs to.
	// It is a back reference only; the bucket owns the entry.
	bucket *bucket[K]

	prev *entry[K]
	next *entry[K]
}

/*
unlink removes e from its current bucket.

Steps:
------
1. alone: the bucket becomes empty, so it is removed from the frequency list
2. head: the next entry becomes the new head
3. tail: the previous entry becomes the new tail
4. interior: the neighbours are spliced together

The frequency and the key mappings are not touched. e.prev and e.next are
cleared so the entry never points into a list it is no longer part of.
*/
func (c *Cache[K, V]) unlink(e *entry[K]) {
	b := e.bucket
	prev, next := e.prev, e.next

	switch {
	case prev == nil && next == nil:
		b.head, b.tail = nil, nil
		c.removeBucket(b)
	case prev == nil:
		next.prev = nil
		b.head = next
	case next == nil:
		prev.next = nil
		b.tail = prev
	default:
		prev.next = next
		next.prev = prev
	}

	e.prev, e.next = nil, nil
}

/*
increment promotes e to the bucket for its next frequency.

The neighbours of the current bucket are captured BEFORE unlinking,
because unlinking may destroy the current bucket when e was its only member.
The destination is the existing successor if it already has freq+1,
otherwise a new bucket spliced in right where the current one was.
*/
func (c *Cache[K, V]) increment(e *entry[K]) {
	cur := e.bucket
	freq := cur.freq
	prev, next := cur.prev, cur.next

	c.unlink(e)

	dst := next
	if next == nil || next.freq != freq+1 {
		// cur survives unless e was its only entry.
		after := cur
		if cur.head == nil {
			after = prev
		}
		dst = c.insertBucketAfter(after, freq+1)
	}

	dst.pushEntry(e)
}
