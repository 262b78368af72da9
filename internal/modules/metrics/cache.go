package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix is the Redis key prefix for cached summaries.
const cacheKeyPrefix = "metrics:summary:"

// Cache stores computed summaries in Redis with a short TTL. Cache failures
// are logged and otherwise ignored: the summary is always recomputable from
// the database, so Redis being down degrades latency, never correctness.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a summary cache with the given TTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached summary for the user, or nil on a miss.
func (c *Cache) Get(ctx context.Context, userID string) *Summary {
	data, err := c.rdb.Get(ctx, cacheKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		slog.Warn("metrics cache read failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return nil
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		// A corrupt entry is as good as a miss.
		return nil
	}

	return &summary
}

// Set stores the summary for the user.
func (c *Cache) Set(ctx context.Context, userID string, summary *Summary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, cacheKeyPrefix+userID, data, c.ttl).Err(); err != nil {
		slog.Warn("metrics cache write failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// Invalidate drops the cached summary for the user. Called by the accounts
// service after every write.
func (c *Cache) Invalidate(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, cacheKeyPrefix+userID).Err(); err != nil {
		slog.Warn("metrics cache invalidation failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}
