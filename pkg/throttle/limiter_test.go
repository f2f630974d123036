package throttle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, time.Hour)
	l.now = func() time.Time { return time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "user:1", 3)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i+1)
	}
	ok, err := l.Allow(ctx, "user:1", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "user:2", 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	l := NewMemoryLimiter(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "anon:1.2.3.4", 1)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "anon:1.2.3.4", 1)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "anon:1.2.3.4", 1)
	assert.True(t, ok)
}

func TestMemoryLimiterSweepsExpiredKeys(t *testing.T) {
	l := NewMemoryLimiter(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < sweepEvery-1; i++ {
		_, err := l.Allow(ctx, fmt.Sprintf("anon:10.0.%d.%d", i/256, i%256), 5)
		require.NoError(t, err)
	}
	assert.Len(t, l.counts, sweepEvery-1)

	now = now.Add(time.Minute)
	ok, err := l.Allow(ctx, "anon:192.0.2.1", 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, l.counts, 1)
}
