package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	cache "github.com/krisalay/lfu-cache"
	"github.com/krisalay/lfu-cache/config"
	"github.com/krisalay/lfu-cache/engine"
	"github.com/krisalay/lfu-cache/lfu"
	"github.com/krisalay/lfu-cache/notify/rabbitmq"
	"github.com/krisalay/lfu-cache/store/redisstore"
	"github.com/krisalay/lfu-cache/types"
	"github.com/krisalay/lfu-cache/writepolicy"
	"github.com/redis/go-redis/v9"
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
	fmt.Println("STORE  → load:", key)
	return s.data[key], nil
}

func (s *InMemoryStore) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// ================= METRICS =================
type Metrics struct {
	mu         sync.Mutex
	hits       int
	misses     int
	loads      int
	evictions  int
	loadErrors int
}

func (m *Metrics) Hit()       { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *Metrics) Miss()      { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *Metrics) Load()      { m.mu.Lock(); m.loads++; m.mu.Unlock() }
func (m *Metrics) Eviction()  { m.mu.Lock(); m.evictions++; m.mu.Unlock() }
func (m *Metrics) LoadError() { m.mu.Lock(); m.loadErrors++; m.mu.Unlock() }

func (m *Metrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS        : %d\n", m.hits)
	fmt.Printf("MISSES      : %d\n", m.misses)
	fmt.Printf("LOADS       : %d\n", m.loads)
	fmt.Printf("EVICTIONS   : %d\n", m.evictions)
	fmt.Printf("LOAD ERRORS : %d\n", m.loadErrors)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// ================= MAIN =================

func main() {
	if err := run(); err != nil {
		slog.Error("lfu-cache demo failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EVICTION POLICY   : LFU (LRU tie-break)")
	fmt.Println("SHARDS            :", cfg.Shards)
	fmt.Println("CAPACITY          :", cfg.Capacity)
	fmt.Println("WRITE MODE        :", cfg.WriteMode)
	fmt.Println("PROMOTE ON UPDATE :", cfg.PromoteOnUpdate)

	// ---------------- Backing Store ----------------
	var store types.Loader
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		store = redisstore.New(client, cfg.RedisPrefix)
		fmt.Println("BACKING STORE     : redis", cfg.RedisAddr)
	} else {
		mem := NewInMemoryStore()
		mem.Put(ctx, "a", "alpha")
		mem.Put(ctx, "b", "beta")
		store = mem
		fmt.Println("BACKING STORE     : in-memory")
	}

	// ---------------- Eviction Events ----------------
	var listener types.EvictionListener
	if cfg.AMQPURL != "" {
		conn, ch, err := rabbitmq.SetupConn(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		defer ch.Close()

		pub := rabbitmq.NewPublisher(ch, cfg.AMQPExchange, cfg.PublishBuffer, logger)
		defer pub.Close()
		listener = pub
		fmt.Println("EVICTION EVENTS   : rabbitmq", cfg.AMQPExchange)
	}

	// ---------------- Cache Engine ----------------
	writePolicy, err := writepolicy.New(cfg.WriteMode, store, cfg.WriteBuffer, logger)
	if err != nil {
		return err
	}

	metrics := &Metrics{}
	eng := engine.NewCacheEngine(store, writePolicy, listener, metrics, logger)

	c, err := cache.NewShardedCache(cfg.Shards, cfg.Capacity, cfg.PromoteOnUpdate, eng)
	if err != nil {
		return err
	}
	// Deferred last, so it runs first: flush writes before the publisher closes.
	defer c.Close()

	// ====================================================
	fmt.Println("\n==================== 1) LFU CORE ====================")
	core := lfu.MustNew[int, int](2)
	core.Put(1, 1)
	core.Put(2, 2)
	v1, _ := core.Get(1)
	fmt.Println("CORE   → GET 1 =", v1)
	core.Put(3, 3)
	_, ok := core.Get(2)
	fmt.Println("CORE   → PUT 3, key 2 still cached:", ok)
	core.Put(4, 4)
	_, ok = core.Get(3)
	fmt.Println("CORE   → PUT 4, key 3 still cached:", ok)
	fmt.Println("CORE   → eviction order:", core.Keys())

	// ====================================================
	fmt.Println("\n==================== 2) CACHE MISS ====================")
	v, err := c.Get(ctx, "a")
	if err != nil {
		return err
	}
	fmt.Println("CACHE  → GET a =", v)

	// ====================================================
	fmt.Println("\n==================== 3) CACHE HIT ====================")
	v, _ = c.Get(ctx, "a")
	f, _ := c.Frequency("a")
	fmt.Println("CACHE  → GET a =", v, "frequency =", f)

	// ====================================================
	fmt.Println("\n==================== 4) SINGLEFLIGHT ====================")
	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := c.Get(ctx, "b")
			fmt.Printf("GOROUTINE-%d → GET b = %v\n", id, val)
		}(i)
	}
	wg.Wait()

	// ====================================================
	fmt.Println("\n==================== 5) EVICTION ====================")
	for i := 0; i < cfg.Capacity*2; i++ {
		c.Put(ctx, fmt.Sprintf("k%d", i), i)
	}
	f, ok = c.Frequency("a")
	fmt.Println("CACHE  → a survived the flood:", ok, "frequency =", f)
	fmt.Println("CACHE  → size =", c.Len(), "of", c.Cap())

	// ====================================================
	fmt.Println("\n==================== 6) REMOVE ====================")
	c.Remove("a")
	_, ok = c.Frequency("a")
	fmt.Println("CACHE  → REMOVE a, still cached:", ok)

	if err := c.Invalidate(ctx, "b"); err != nil {
		return err
	}
	v, _ = c.Get(ctx, "b")
	fmt.Println("CACHE  → INVALIDATE b, GET b =", v)

	// ====================================================
	metrics.Print()

	fmt.Println("\n==================== SHUTDOWN ====================")
	return nil
}
