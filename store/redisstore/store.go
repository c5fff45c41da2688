// Package redisstore implements the cache's backing store on Redis.
//
// Values are stored as JSON under a key prefix. Because of the JSON round
// trip, loaded values come back as the generic JSON types: strings,
// float64, bool, []any and map[string]any.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krisalay/lfu-cache/types"
	"github.com/redis/go-redis/v9"
)

var (
	_ types.Loader  = (*Store)(nil)
	_ types.Deleter = (*Store)(nil)
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "lfu:"

// Store is a types.Loader and types.Deleter backed by Redis.
type Store struct {
	client redis.Cmdable
	prefix string
}

// New creates a store on top of client. An empty prefix uses DefaultPrefix.
func New(client redis.Cmdable, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Load fetches key. A key Redis does not have is reported as (nil, nil).
func (s *Store) Load(ctx context.Context, key string) (any, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %q: %w", key, err)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("redisstore: decode %q: %w", key, err)
	}
	return v, nil
}

// Put writes value under key with no expiry.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redisstore: encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), string(payload), 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key from Redis.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redisstore: del %q: %w", key, err)
	}
	return nil
}
