// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"prouni-simulator/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client and the key namespace it writes under.
type RedisClient struct {
	Client    *redis.Client
	keyPrefix string
}

// NewRedis connects to cfg.Address and pings it.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	client := &RedisClient{Client: rdb, keyPrefix: cfg.KeyPrefix}
	if err := client.Ping(ctx); err != nil {
		rdb.Close()
		return nil, err
	}
	return client, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// KeyPrefix is the namespace every key of this client starts with.
func (c *RedisClient) KeyPrefix() string {
	return c.keyPrefix
}
