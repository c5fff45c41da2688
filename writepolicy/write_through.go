package writepolicy

import (
	"context"
	"log/slog"

	"github.com/krisalay/lfu-cache/types"
)

/*
This file implements the "write-through" policy.

Whenever the cache writes data, it immediately writes the same data to the backing store.

So the flow is: Cache write → store write (synchronous)
*/

// WriteThroughPolicy forwards every cache write to the backing store.
type WriteThroughPolicy struct {

	// store is the backing store (Redis, DB, API, etc.) where data must be persisted immediately.
	store types.Loader

	logger *slog.Logger
}

// NewWriteThroughPolicy creates a write-through policy. A nil logger uses slog.Default.
func NewWriteThroughPolicy(store types.Loader, logger *slog.Logger) *WriteThroughPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteThroughPolicy{
		store:  store,
		logger: logger.With("component", "write-through"),
	}
}

// OnWrite writes the value to the store on the caller's goroutine.
// The cache already holds the value, so a store failure is logged, not returned.
func (w *WriteThroughPolicy) OnWrite(ctx context.Context, key string, value any) {
	if err := w.store.Put(ctx, key, value); err != nil {
		w.logger.Error("store put failed", "key", key, "error", err)
	}
}

// Close has nothing to flush: write-through keeps no pending work.
func (w *WriteThroughPolicy) Close() {}
