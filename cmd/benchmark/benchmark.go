package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/krisalay/lfu-cache"
	"github.com/krisalay/lfu-cache/engine"
	"github.com/krisalay/lfu-cache/writepolicy"
)

// ================= BACKING STORE =================

type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]any)}
}

func (s *InMemoryStore) Load(ctx context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

func (s *InMemoryStore) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// ================= METRICS =================

type hitCounter struct {
	hits, misses atomic.Int64
}

func (m *hitCounter) Hit()       { m.hits.Add(1) }
func (m *hitCounter) Miss()      { m.misses.Add(1) }
func (m *hitCounter) Load()      {}
func (m *hitCounter) Eviction()  {}
func (m *hitCounter) LoadError() {}

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// ---------------- Cache Config ----------------
	const (
		shards     = 8
		capacity   = 20000
		keySpace   = 100000
		hotKeys    = 2000
		hotPercent = 80
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Key Space    :", keySpace)
	fmt.Printf("Hot Keys     : %d (%d%% of reads)\n", hotKeys, hotPercent)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	// ---------------- Backing Store ----------------
	store := NewInMemoryStore()
	for i := 0; i < keySpace; i++ {
		store.Put(ctx, fmt.Sprintf("key-%d", i), i)
	}

	// ---------------- Cache Engine ----------------
	writePolicy := writepolicy.NewWriteBackPolicy(store, 4096, logger)
	metrics := &hitCounter{}

	engine := engine.NewCacheEngine(store, writePolicy, nil, metrics, logger)

	c, err := cache.NewShardedCache(shards, capacity, false, engine)
	if err != nil {
		logger.Error("create cache", "error", err)
		os.Exit(1)
	}

	// ---------------- Load Test ----------------
	// A skewed workload: LFU should keep the hot set resident.
	fmt.Println("\nRunning concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(id)))
			for j := 0; j < opsPerG; j++ {
				k := rng.Intn(keySpace)
				if rng.Intn(100) < hotPercent {
					k = rng.Intn(hotKeys)
				}
				c.Get(ctx, fmt.Sprintf("key-%d", k))
			}
		}(i)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG
	hits, misses := metrics.hits.Load(), metrics.misses.Load()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hit Ratio        : %.2f%%\n", 100*float64(hits)/float64(hits+misses))
	fmt.Println("=========================================")

	c.Close()
}
