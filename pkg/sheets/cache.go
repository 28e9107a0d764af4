package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache memoizes expensive fetches. GetOrCompute returns the cached payload
// when present, otherwise runs fill and stores its result for ttl.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, fill func(ctx context.Context) ([]byte, error)) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, fill func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, redis.Nil) {
		// redis being down should not break imports, fall through to fill
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	payload, err := fill(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}

	return payload, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func marshalCached(value any) ([]byte, error) {
	return json.Marshal(value)
}
