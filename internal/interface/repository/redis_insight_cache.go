package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	goredis "github.com/redis/go-redis/v9"
)

// RedisInsightCache caches insights as JSON until they expire
type RedisInsightCache struct {
	rdb *goredis.Client
	now func() time.Time
}

// NewRedisInsightCache creates a new insight cache
func NewRedisInsightCache(rdb *goredis.Client) repository.InsightCache {
	return &RedisInsightCache{
		rdb: rdb,
		now: time.Now,
	}
}

func insightCacheKey(flightID int64) string {
	return fmt.Sprintf("insight:%d", flightID)
}

// cacheTTL keeps an entry no longer than the insight stays fresh
func cacheTTL(expiresAt, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		return 0
	}
	return ttl
}

// Get returns entity.ErrNotFound on a cache miss
func (c *RedisInsightCache) Get(ctx context.Context, flightID int64) (*entity.Insight, error) {
	raw, err := c.rdb.Get(ctx, insightCacheKey(flightID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var insight entity.Insight
	if err := json.Unmarshal(raw, &insight); err != nil {
		return nil, fmt.Errorf("decode cached insight: %w", err)
	}
	return &insight, nil
}

// Set stores the insight until its expiry. An already expired insight is not
// cached and drops whatever entry the flight had.
func (c *RedisInsightCache) Set(ctx context.Context, insight *entity.Insight) error {
	ttl := cacheTTL(insight.ExpiresAt, c.now())
	if ttl == 0 {
		return c.Delete(ctx, insight.FlightID)
	}

	raw, err := json.Marshal(insight)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, insightCacheKey(insight.FlightID), raw, ttl).Err()
}

// Delete drops the cached insight of a flight; a missing entry is not an error
func (c *RedisInsightCache) Delete(ctx context.Context, flightID int64) error {
	if err := c.rdb.Del(ctx, insightCacheKey(flightID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
