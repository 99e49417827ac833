package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-events/internal/models"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "event:slug:"

func Key(slug string) string {
	return keyPrefix + slug
}

// RedisEventCache stores events as JSON under their slug.
type RedisEventCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) *RedisEventCache {
	return &RedisEventCache{Client: client, TTL: ttl}
}

// Get returns nil, nil when slug is not cached.
func (c *RedisEventCache) Get(ctx context.Context, slug string) (*models.Event, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	data, err := c.Client.Get(ctx, Key(slug)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get event from Redis: %w", err)
	}

	var ev models.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached event: %w", err)
	}
	return &ev, nil
}

func (c *RedisEventCache) Set(ctx context.Context, ev *models.Event) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.Client.Set(ctx, Key(ev.Slug), data, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache event in Redis: %w", err)
	}
	return nil
}

func (c *RedisEventCache) Invalidate(ctx context.Context, slugs ...string) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	if len(slugs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, Key(slug))
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached events: %w", err)
	}
	return nil
}

// NopCache never holds anything. Used when Redis is disabled.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*models.Event, error) { return nil, nil }

func (NopCache) Set(context.Context, *models.Event) error { return nil }

func (NopCache) Invalidate(context.Context, ...string) error { return nil }
