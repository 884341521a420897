// Package lock serializes dispatches per application. The engine assumes at
// most one transition is in flight for an application at a time; the lock
// enforces that across processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrAlreadyLocked signals a concurrent dispatch holds the application lock.
var ErrAlreadyLocked = errors.New("application is locked by another dispatch")

// Locker grants exclusive dispatch rights for an application.
type Locker interface {
	Acquire(ctx context.Context, applicationID int64, ttl time.Duration) (Release, error)
}

// Release frees an acquired lock. Safe to call once; errors are advisory.
type Release func(ctx context.Context) error

// RedisLocker implements Locker on a shared redis with SET NX. The token
// guards release: only the holder that set the key may delete it.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "alur:dispatch:"}
}

func (l *RedisLocker) key(applicationID int64) string {
	return fmt.Sprintf("%s%d", l.prefix, applicationID)
}

func (l *RedisLocker) Acquire(ctx context.Context, applicationID int64, ttl time.Duration) (Release, error) {
	token := uuid.New().String()
	key := l.key(applicationID)

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for application %d: %w", applicationID, err)
	}

	if !ok {
		return nil, ErrAlreadyLocked
	}

	release := func(ctx context.Context) error {
		current, err := l.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read lock for application %d: %w", applicationID, err)
		}

		if current != token {
			// Expired and re-acquired by someone else; not ours to delete.
			return nil
		}

		if err := l.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to release lock for application %d: %w", applicationID, err)
		}

		return nil
	}

	return release, nil
}

// NoopLocker grants every acquisition. Used by single-process deployments and
// tests that do not need cross-process exclusion.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, int64, time.Duration) (Release, error) {
	return func(context.Context) error { return nil }, nil
}
