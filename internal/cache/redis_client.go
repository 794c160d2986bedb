package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// RedisClient stores JSON encoded values of type T with a fixed expiration.
type RedisClient[T any] struct {
	client     *redis.Client
	logger     *zap.Logger
	expiration time.Duration
}

func NewRedisClient[T any](client *redis.Client, logger *zap.Logger, expiration time.Duration) *RedisClient[T] {
	return &RedisClient[T]{client: client, logger: logger, expiration: expiration}
}

// Connect dials Redis and checks it answers before handing out the client.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func (c *RedisClient[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.expiration).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	c.logger.Debug("cache write", zap.String("key", key), zap.Duration("expiration", c.expiration))
	return nil
}

//nolint:ireturn
func (c *RedisClient[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrMiss
	}
	if err != nil {
		return zero, fmt.Errorf("redis GET %s: %w", key, err)
	}

	result := new(T)
	if err := json.Unmarshal(data, result); err != nil {
		return zero, fmt.Errorf("unmarshal: %w", err)
	}
	return *result, nil
}
