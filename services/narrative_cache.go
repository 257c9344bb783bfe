package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// NarrativeCache 缓存已成功生成的描述，按提示词哈希寻址
type NarrativeCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RedisNarrativeCache 基于 Redis 的 NarrativeCache
type RedisNarrativeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNarrativeCache(client *redis.Client, ttl time.Duration) *RedisNarrativeCache {
	return &RedisNarrativeCache{client: client, ttl: ttl}
}

func (c *RedisNarrativeCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, "narrative:"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisNarrativeCache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, "narrative:"+key, value, c.ttl).Err()
}
