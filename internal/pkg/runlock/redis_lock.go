// Package runlock guards the one-active-run-per-search-session
// invariant. The lock's TTL is tied to the heartbeat timeout, so a
// stalled run's lock expires on its own and the session becomes
// retryable without manual cleanup.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Locker interface {
	// Acquire takes the run lock for a search session. Returns false
	// when another run already holds it.
	Acquire(ctx context.Context, searchSessionId uuid.UUID) (bool, error)
	// Refresh extends the lock TTL; called on every heartbeat.
	Refresh(ctx context.Context, searchSessionId uuid.UUID) error
	Release(ctx context.Context, searchSessionId uuid.UUID) error
}

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(redisURL string, ttl time.Duration) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &RedisLocker{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func lockKey(searchSessionId uuid.UUID) string {
	return "pipeline:run-lock:" + searchSessionId.String()
}

func (l *RedisLocker) Acquire(ctx context.Context, searchSessionId uuid.UUID) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(searchSessionId), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

func (l *RedisLocker) Refresh(ctx context.Context, searchSessionId uuid.UUID) error {
	return l.client.Expire(ctx, lockKey(searchSessionId), l.ttl).Err()
}

func (l *RedisLocker) Release(ctx context.Context, searchSessionId uuid.UUID) error {
	return l.client.Del(ctx, lockKey(searchSessionId)).Err()
}

// NoopLocker satisfies Locker when Redis is unavailable; the
// repository-level status check still rejects concurrent runs within a
// single process.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, searchSessionId uuid.UUID) (bool, error) {
	return true, nil
}

func (NoopLocker) Refresh(ctx context.Context, searchSessionId uuid.UUID) error { return nil }

func (NoopLocker) Release(ctx context.Context, searchSessionId uuid.UUID) error { return nil }
