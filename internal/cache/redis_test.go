package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachable(t *testing.T) *RedisCache {
	t.Helper()
	c := NewRedisCache(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache_Unreachable(t *testing.T) {
	c := unreachable(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var dst map[string]int
	hit, err := c.Load(ctx, "stats:events", &dst)
	assert.False(t, hit)
	assert.ErrorContains(t, err, "redis get stats:events")

	err = c.Store(ctx, "stats:events", map[string]int{"a": 1}, time.Minute)
	assert.ErrorContains(t, err, "redis set stats:events")

	assert.Error(t, c.Ping(ctx))
}

func TestRedisCache_StoreEncodeError(t *testing.T) {
	c := unreachable(t)

	err := c.Store(context.Background(), "bad", make(chan int), time.Minute)
	assert.ErrorContains(t, err, "encode bad")
}
