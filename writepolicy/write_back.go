package writepolicy

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/krisalay/lfu-cache/types"
)

// This file implements the "write-back" policy.

// writeReq represents one pending write operation that needs to be sent to the backing store.
type writeReq struct {
	ctx   context.Context
	key   string
	value any
}

/*
WriteBackPolicy manages asynchronous writes to the backing store.
*/
type WriteBackPolicy struct {

	// store is the backing store (Redis, DB, API, etc.)
	store types.Loader

	// ch is a buffered channel that holds pending write requests.
	//
	// Buffering allows bursts of writes without blocking the cache.
	ch chan writeReq

	// dropped counts writes discarded because the buffer was full.
	dropped atomic.Int64

	logger *slog.Logger

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup

	closeOnce sync.Once
}

// NewWriteBackPolicy creates a new write-back policy and starts its worker.
func NewWriteBackPolicy(store types.Loader, buffer int, logger *slog.Logger) *WriteBackPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	w := &WriteBackPolicy{
		store:  store,
		ch:     make(chan writeReq, buffer),
		logger: logger.With("component", "write-back"),
	}

	// Start one background worker
	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite is called whenever the cache writes a key.
// We do NOT write to the backing store immediately. Instead, we push the write into a queue.
// If the queue is full, we DROP the write: blocking here would block the shard lock.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, key string, value any) {
	select {
	case w.ch <- writeReq{context.WithoutCancel(ctx), key, value}:
	default:
		w.dropped.Add(1)
		w.logger.Debug("write dropped, buffer full", "key", key)
	}
}

// Dropped returns how many writes were discarded under pressure.
func (w *WriteBackPolicy) Dropped() int64 {
	return w.dropped.Load()
}

/*
worker runs in the background and processes queued writes.
This is where eventual consistency happens.
*/
func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.Put(req.ctx, req.key, req.value); err != nil {
			w.logger.Error("store put failed", "key", req.key, "error", err)
		}
	}
}

/*
Close shuts down the write-back policy gracefully.
------------------
1. Close the channel (no more writes accepted)
2. Wait for the worker to finish processing queued writes

Without this, pending writes could be lost when the application shuts down.
Close must not race with OnWrite; the cache only calls it after its last write.
*/
func (w *WriteBackPolicy) Close() {
	w.closeOnce.Do(func() {
		close(w.ch)
	})
	w.wg.Wait()
}
