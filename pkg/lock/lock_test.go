package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client), mr
}

func TestAcquireIsExclusivePerApplication(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, 42, time.Minute)
	assert.ErrorIs(t, err, ErrAlreadyLocked)

	// A different application locks independently.
	otherRelease, err := locker.Acquire(ctx, 43, time.Minute)
	require.NoError(t, err)
	require.NoError(t, otherRelease(ctx))

	require.NoError(t, release(ctx))

	// Released, the application can be locked again.
	release, err = locker.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestReleaseOnlyDeletesOwnToken(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)

	// The lock expires and another dispatch grabs it.
	mr.FastForward(2 * time.Minute)

	_, err = locker.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)

	// The stale holder's release must not free the new holder's lock.
	require.NoError(t, release(ctx))

	_, err = locker.Acquire(ctx, 42, time.Minute)
	assert.ErrorIs(t, err, ErrAlreadyLocked)
}

func TestReleaseAfterExpiryIsANoop(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	assert.NoError(t, release(ctx))
}

func TestNoopLockerAlwaysGrants(t *testing.T) {
	ctx := context.Background()

	var locker NoopLocker

	release, err := locker.Acquire(ctx, 1, time.Minute)
	require.NoError(t, err)

	again, err := locker.Acquire(ctx, 1, time.Minute)
	require.NoError(t, err)

	assert.NoError(t, release(ctx))
	assert.NoError(t, again(ctx))
}
