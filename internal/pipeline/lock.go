// Package pipeline drives a document from upload through classification,
// extraction and the case checklist refresh.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "intake:lock:"

// releaseScript deletes the lock key only if it still holds our token, so an
// expired lock reacquired by another worker is never released from here.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker serializes processing per document.
type Locker interface {
	// Acquire returns a release func and true when the lock was taken, or
	// false when another worker holds it.
	Acquire(ctx context.Context, documentID string) (release func(), acquired bool, err error)
}

// RedisLocker implements Locker on a shared Redis instance.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, documentID string) (func(), bool, error) {
	key := lockKeyPrefix + documentID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Best effort; the TTL covers a lost connection.
		releaseScript.Run(context.Background(), l.client, []string{key}, token)
	}
	return release, true, nil
}

// noopLocker is used when no Redis is configured, e.g. in tests.
type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

// NewNoopLocker returns a Locker that always succeeds.
func NewNoopLocker() Locker { return noopLocker{} }
