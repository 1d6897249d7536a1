package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisResultCache implements ResultCache backed by Redis.
// Suitable for distributed deployments where multiple instances share
// the same memoized results.
type RedisResultCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisResultCache connects to Redis and returns a result cache
func NewRedisResultCache(cfg RedisConfig) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisResultCache{
		client:    client,
		keyPrefix: "result:",
	}, nil
}

// NewRedisResultCacheWithClient wraps an existing client, useful for tests
// and for sharing one client across components
func NewRedisResultCacheWithClient(client *redis.Client, keyPrefix string) *RedisResultCache {
	if keyPrefix == "" {
		keyPrefix = "result:"
	}
	return &RedisResultCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get fetches a stored snapshot by key
func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}
	return value, true, nil
}

// Set stores a snapshot with TTL, last write wins
func (c *RedisResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

var _ ResultCache = (*RedisResultCache)(nil)
