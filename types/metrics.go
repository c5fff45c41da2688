package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when the cache successfully returns a value.
	Hit()

	// Miss is called when the cache does NOT find a key and has to load it from the backing store.
	Miss()

	// Load is called when the backing store returned a value for a missed key.
	Load()

	// Eviction is called when the LFU key is removed because the shard is full and needs space.
	Eviction()

	// LoadError is called when the backing store fails to load a missed key.
	LoadError()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics, the cache still works without
nil checks on every hot path.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()       {}
func (NoopMetrics) Miss()      {}
func (NoopMetrics) Load()      {}
func (NoopMetrics) Eviction()  {}
func (NoopMetrics) LoadError() {}
