package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent. Callers fall through to the
// database on it.
var ErrCacheMiss = errors.New("cache miss")

// KeyPrefix namespaces every key so the instance can share a redis with
// other deployments.
const KeyPrefix = "mealmart:"

type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Increment bumps a counter and stamps the TTL on first use. Serves the
	// login rate limiter.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type cacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) CacheService {
	return &cacheService{client: client}
}

func (c *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal(data, dest)
}

func (c *cacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, KeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *cacheService) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = KeyPrefix + key
	}
	return c.client.Del(ctx, prefixed...).Err()
}

func (c *cacheService) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, KeyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache incr %s: %w", key, err)
	}
	if count == 1 {
		_ = c.client.Expire(ctx, KeyPrefix+key, ttl).Err()
	}
	return count, nil
}
