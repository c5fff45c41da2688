package writepolicy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krisalay/lfu-cache/types"
)

/*
This file defines what a "write policy" is.

Different systems have different needs:
- Some want strong consistency (write-through)
- Some want high performance (write-back)
- Some keep everything in memory (none)
*/

/*
WritePolicy is the contract that all write policies must follow.
The cache engine does not care which policy is used. It simply calls these methods.
*/
type WritePolicy interface {

	// OnWrite is called whenever the cache writes a key. It runs under the shard lock.
	OnWrite(ctx context.Context, key string, value any)

	// Close is called when the cache is shutting down.
	Close()
}

// Mode is a simple identifier for supported write policies.
type Mode string

const (
	// None keeps writes in memory only.
	None Mode = "none"

	// Through writes to the backing store synchronously.
	Through Mode = "through"

	// Back queues writes and flushes them from a background worker.
	Back Mode = "back"
)

// New is a small factory: given a Mode, it creates the matching policy.
// None yields a nil policy, which the engine treats as "memory only".
func New(mode Mode, store types.Loader, buffer int, logger *slog.Logger) (WritePolicy, error) {
	if mode != None && mode != "" && store == nil {
		return nil, fmt.Errorf("writepolicy: mode %q needs a backing store", mode)
	}

	switch mode {
	case None, "":
		return nil, nil
	case Through:
		return NewWriteThroughPolicy(store, logger), nil
	case Back:
		return NewWriteBackPolicy(store, buffer, logger), nil
	default:
		return nil, fmt.Errorf("writepolicy: unknown mode %q", mode)
	}
}
