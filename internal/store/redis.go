package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

const redisKeyPrefix = "tcm:snapshot:"

// RedisCache stores snapshots as JSON in Redis. Keys expire together with
// the snapshot ttl, so a stale entry is usually gone rather than returned.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// OpenRedis opens a client for addr. It returns nil when addr is empty.
func OpenRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func (c *RedisCache) Get(ctx context.Context, key string) (weather.Snapshot, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return weather.Snapshot{}, weather.ErrCacheMiss
	}
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("redis get: %w", err)
	}

	var snap weather.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return snap, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, snap weather.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	expiry := snap.TTL
	if expiry < 0 {
		expiry = 0
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, expiry).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the connection; used at startup to fall back to memory.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
