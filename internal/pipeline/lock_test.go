// internal/pipeline/lock_test.go
package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLockerUnderTest(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisLocker(client, 5*time.Second)
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	mr, locker := newLockerUnderTest(t)

	release, acquired, err := locker.Acquire(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, acquired)

	t.Run("second acquire is refused while held", func(t *testing.T) {
		_, again, err := locker.Acquire(ctx, "doc-1")
		require.NoError(t, err)
		assert.False(t, again)
	})

	t.Run("different document is independent", func(t *testing.T) {
		releaseOther, acquired, err := locker.Acquire(ctx, "doc-2")
		require.NoError(t, err)
		require.True(t, acquired)
		releaseOther()
	})

	t.Run("release frees the lock", func(t *testing.T) {
		release()
		releaseAgain, acquired, err := locker.Acquire(ctx, "doc-1")
		require.NoError(t, err)
		assert.True(t, acquired)
		releaseAgain()
	})

	t.Run("expired lock can be reacquired", func(t *testing.T) {
		_, acquired, err := locker.Acquire(ctx, "doc-3")
		require.NoError(t, err)
		require.True(t, acquired)

		mr.FastForward(6 * time.Second)

		releaseNew, acquired, err := locker.Acquire(ctx, "doc-3")
		require.NoError(t, err)
		assert.True(t, acquired)
		releaseNew()
	})
}

func TestReleaseDoesNotClobberNewOwner(t *testing.T) {
	ctx := context.Background()
	mr, locker := newLockerUnderTest(t)

	staleRelease, acquired, err := locker.Acquire(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, acquired)

	// Simulate TTL expiry and a second worker taking over.
	mr.FastForward(6 * time.Second)
	_, acquired, err = locker.Acquire(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, acquired)

	// The stale release must leave the new owner's lock in place.
	staleRelease()
	_, acquired, err = locker.Acquire(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, acquired)
}
