package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/krisalay/lfu-cache/types"
	"github.com/krisalay/lfu-cache/writepolicy"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- How data is loaded on cache miss
- How writes are propagated to backing store
- Who hears about evictions
- How metrics are recorded

It does NOT:
- Store data
- Handle sharding
- Handle locking
- Decide eviction order (the LFU core does)
*/
type CacheEngine struct {

	// Loader is how the cache talks to the outside world when it does NOT have the data.
	// This enables "read-through caching".
	// If nil, a miss is just a miss.
	Loader types.Loader

	// WritePolicy decides what happens when data is written to the cache.
	// Examples:
	// - Write-through: write to the backing store immediately
	// - Write-back: write to the backing store asynchronously later
	//
	// If nil, cache writes stay only in memory.
	WritePolicy writepolicy.WritePolicy

	// Listener is told about every key the LFU policy pushes out. Optional.
	Listener types.EvictionListener

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics

	Logger *slog.Logger
}

/*
NewCacheEngine creates a CacheEngine.
Metrics and logger are always non-nil afterwards.
*/
func NewCacheEngine(
	loader types.Loader,
	writePolicy writepolicy.WritePolicy,
	listener types.EvictionListener,
	metrics types.Metrics,
	logger *slog.Logger,
) *CacheEngine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CacheEngine{
		Loader:      loader,
		WritePolicy: writePolicy,
		Listener:    listener,
		Metrics:     metrics,
		Logger:      logger.With("component", "engine"),
	}
}

/*
OnWrite is called whenever something is written to the cache.
Write propagation depends entirely on the configured WritePolicy.
*/
func (e *CacheEngine) OnWrite(ctx context.Context, key string, value any) {
	if e.WritePolicy != nil {
		e.WritePolicy.OnWrite(ctx, key, value)
	}
}

/*
OnEvict is called by a shard, under its lock, every time the LFU core
evicts a key to make room.
*/
func (e *CacheEngine) OnEvict(key string, value any, freq int) {
	e.Metrics.Eviction()
	e.Logger.Debug("evicted", "key", key, "frequency", freq)

	if e.Listener != nil {
		e.Listener.OnEvict(types.Eviction{
			Key:       key,
			Value:     value,
			Frequency: freq,
			EvictedAt: time.Now(),
		})
	}
}

/*
Load is used when the cache does NOT have the data.

This usually means:
- A database call
- A network request

Without a Loader it reports (nil, nil): a plain miss.
*/
func (e *CacheEngine) Load(ctx context.Context, key string) (any, error) {
	if e.Loader == nil {
		return nil, nil
	}

	val, err := e.Loader.Load(ctx, key)
	if err != nil {
		e.Metrics.LoadError()
		e.Logger.Warn("load failed", "key", key, "error", err)
		return nil, err
	}
	if val != nil {
		e.Metrics.Load()
	}
	return val, nil
}

/*
Delete removes key from the backing store, if the Loader can delete.
Stores without deletes make it a no-op.
*/
func (e *CacheEngine) Delete(ctx context.Context, key string) error {
	d, ok := e.Loader.(types.Deleter)
	if !ok {
		return nil
	}
	if err := d.Delete(ctx, key); err != nil {
		e.Logger.Warn("delete failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Close flushes and stops the write policy, if any.
func (e *CacheEngine) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}
