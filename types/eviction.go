package types

import "time"

// Eviction describes one key pushed out of the cache by the LFU policy.
type Eviction struct {
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	Frequency int       `json:"frequency"`
	EvictedAt time.Time `json:"evicted_at"`
}

/*
EvictionListener receives every eviction.

OnEvict runs while the owning shard is locked, so it MUST NOT block and
MUST NOT call back into the cache. Anything slow (network, disk) belongs
on a background worker.
*/
type EvictionListener interface {
	OnEvict(ev Eviction)
}
