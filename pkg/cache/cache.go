package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small TTL cache for entitlement snapshots. It is constructed in
// main and handed to its consumers; nothing in this package holds process
// scoped state. A nil *Cache is valid and behaves as a permanent miss, so
// the API works without Redis in development.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

func usageKey(userID uint) string {
	return fmt.Sprintf("usage:%d", userID)
}

func (c *Cache) GetUsage(ctx context.Context, userID uint, out interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, usageKey(userID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *Cache) SetUsage(ctx context.Context, userID uint, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, usageKey(userID), data, c.ttl)
}

// InvalidateUsage drops a user's cached entitlement, called after anything
// that changes their counters or plan.
func (c *Cache) InvalidateUsage(ctx context.Context, userID uint) {
	if c == nil {
		return
	}
	c.client.Del(ctx, usageKey(userID))
}
