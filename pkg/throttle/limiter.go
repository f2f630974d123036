// Package throttle implements fixed-window request counters.
package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	// Allow counts one hit for key and reports whether it stays within limit
	// for the current window.
	Allow(ctx context.Context, key string, limit int) (bool, error)
}

type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int) (bool, error) {
	bucket := fmt.Sprintf("throttle:%s:%d", key, l.now().UnixNano()/int64(l.window))

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// sweepEvery is how many Allow calls pass between purges of expired windows.
const sweepEvery = 1024

// MemoryLimiter is used when no Redis is configured. Counts are per process.
type MemoryLimiter struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	counts map[string]windowCount
	calls  int
}

type windowCount struct {
	start time.Time
	n     int
}

func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{window: window, now: time.Now, counts: map[string]windowCount{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(now)
	}

	wc := l.counts[key]
	if now.Sub(wc.start) >= l.window {
		wc = windowCount{start: now}
	}
	wc.n++
	l.counts[key] = wc
	return wc.n <= limit, nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for k, wc := range l.counts {
		if now.Sub(wc.start) >= l.window {
			delete(l.counts, k)
		}
	}
}
