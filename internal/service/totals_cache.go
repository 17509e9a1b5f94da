package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jokeruros/fitapp/internal/nutrition"
)

const totalsCacheTTL = 30 * time.Second

// totalsStore is the slice of the Redis API the cache needs. *redis.Client
// satisfies it.
type totalsStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// TotalsCache keeps the last computed day totals per user in Redis.
// Aggregation stays pull-based and cheap; the cache is invalidated explicitly
// on every mutation that can change totals rather than recomputed reactively.
// A nil client disables caching entirely.
type TotalsCache struct {
	rdb totalsStore
}

func NewTotalsCache(rdb *redis.Client) *TotalsCache {
	if rdb == nil {
		return &TotalsCache{}
	}
	return &TotalsCache{rdb: rdb}
}

func totalsKey(userID uuid.UUID) string {
	return "daytotals:" + userID.String()
}

// Get returns the cached totals for the user, or ok=false on miss or when
// caching is disabled. Cache errors degrade to a miss.
func (c *TotalsCache) Get(ctx context.Context, userID uuid.UUID) (nutrition.Totals, bool) {
	if c == nil || c.rdb == nil {
		return nutrition.Totals{}, false
	}
	raw, err := c.rdb.Get(ctx, totalsKey(userID)).Bytes()
	if err != nil {
		return nutrition.Totals{}, false
	}
	var totals nutrition.Totals
	if err := json.Unmarshal(raw, &totals); err != nil {
		return nutrition.Totals{}, false
	}
	return totals, true
}

// Set stores the totals with a short TTL.
func (c *TotalsCache) Set(ctx context.Context, userID uuid.UUID, totals nutrition.Totals) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(totals)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, totalsKey(userID), raw, totalsCacheTTL)
}

// Invalidate drops the cached totals after a mutation.
func (c *TotalsCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, totalsKey(userID))
}
