package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	var c *Cache

	var out map[string]interface{}
	assert.False(t, c.GetUsage(context.Background(), 1, &out))

	// no-ops, must not panic
	c.SetUsage(context.Background(), 1, map[string]int{"remaining": 3})
	c.InvalidateUsage(context.Background(), 1)
}
