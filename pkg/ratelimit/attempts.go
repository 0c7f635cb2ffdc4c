package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to url. An empty url returns a nil client, which
// disables every limiter built on it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Printf("Connected to Redis at %s", opt.Addr)
	return client, nil
}

// AttemptLimiter counts failures per key in fixed windows stored in Redis.
type AttemptLimiter struct {
	client      *redis.Client
	prefix      string
	maxAttempts int64
	window      time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter. A nil client never blocks.
func NewAttemptLimiter(client *redis.Client, prefix string, maxAttempts int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client:      client,
		prefix:      prefix,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func (l *AttemptLimiter) key(k string) string {
	return l.prefix + ":" + k
}

// Blocked reports whether k has used up its attempts in the current window.
func (l *AttemptLimiter) Blocked(ctx context.Context, k string) (bool, error) {
	if l.client == nil || l.maxAttempts <= 0 {
		return false, nil
	}
	n, err := l.client.Get(ctx, l.key(k)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure counts one failure for k. The window starts at the first failure.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, k string) error {
	if l.client == nil {
		return nil
	}
	key := l.key(k)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

// Reset forgets the failures recorded for k.
func (l *AttemptLimiter) Reset(ctx context.Context, k string) error {
	if l.client == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(k)).Err()
}
