/*
Package config holds the settings of the cache binaries.

Every field has a default and can be overridden from the environment
with an LFU_ prefixed variable, for example LFU_CAPACITY=5000.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/krisalay/lfu-cache/writepolicy"
)

type Config struct {
	Shards   int // LFU_SHARDS
	Capacity int // LFU_CAPACITY

	// PromoteOnUpdate makes overwriting a key count as an access.
	PromoteOnUpdate bool // LFU_PROMOTE_ON_UPDATE

	WriteMode   writepolicy.Mode // LFU_WRITE_MODE: none, through, back
	WriteBuffer int              // LFU_WRITE_BUFFER

	// RedisAddr enables the Redis backing store when set.
	RedisAddr   string // LFU_REDIS_ADDR
	RedisPrefix string // LFU_REDIS_PREFIX

	// AMQPURL enables eviction events on RabbitMQ when set.
	AMQPURL       string // LFU_AMQP_URL
	AMQPExchange  string // LFU_AMQP_EXCHANGE
	PublishBuffer int    // LFU_PUBLISH_BUFFER

	LogLevel string // LFU_LOG_LEVEL: debug, info, warn, error
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Shards:        4,
		Capacity:      1024,
		WriteMode:     writepolicy.None,
		WriteBuffer:   1024,
		RedisPrefix:   "lfu:",
		AMQPExchange:  "lfu_cache",
		PublishBuffer: 1024,
		LogLevel:      "info",
	}
}

// FromEnv starts from Default and applies every LFU_ variable found through lookup.
// Pass os.LookupEnv in production.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()

	ints := []struct {
		name string
		dst  *int
	}{
		{"LFU_SHARDS", &c.Shards},
		{"LFU_CAPACITY", &c.Capacity},
		{"LFU_WRITE_BUFFER", &c.WriteBuffer},
		{"LFU_PUBLISH_BUFFER", &c.PublishBuffer},
	}
	for _, f := range ints {
		if v, ok := lookup(f.name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return c, fmt.Errorf("config: %s: %w", f.name, err)
			}
			*f.dst = n
		}
	}

	if v, ok := lookup("LFU_PROMOTE_ON_UPDATE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("config: LFU_PROMOTE_ON_UPDATE: %w", err)
		}
		c.PromoteOnUpdate = b
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"LFU_REDIS_ADDR", &c.RedisAddr},
		{"LFU_REDIS_PREFIX", &c.RedisPrefix},
		{"LFU_AMQP_URL", &c.AMQPURL},
		{"LFU_AMQP_EXCHANGE", &c.AMQPExchange},
		{"LFU_LOG_LEVEL", &c.LogLevel},
	}
	for _, f := range strs {
		if v, ok := lookup(f.name); ok {
			*f.dst = v
		}
	}
	if v, ok := lookup("LFU_WRITE_MODE"); ok {
		c.WriteMode = writepolicy.Mode(v)
	}

	return c, c.Validate()
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromEnv(os.LookupEnv)
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Shards <= 0:
		return fmt.Errorf("config: shards must be positive, got %d", c.Shards)
	case c.Capacity < 0:
		return fmt.Errorf("config: capacity must not be negative, got %d", c.Capacity)
	case c.WriteBuffer < 0 || c.PublishBuffer < 0:
		return errors.New("config: buffers must not be negative")
	}

	switch c.WriteMode {
	case writepolicy.None, "":
	case writepolicy.Through, writepolicy.Back:
		if c.RedisAddr == "" {
			return fmt.Errorf("config: write mode %q needs LFU_REDIS_ADDR", c.WriteMode)
		}
	default:
		return fmt.Errorf("config: unknown write mode %q", c.WriteMode)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
