// internal/queue/queue_test.go
package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-intake/internal/common/errors"
	"housing-intake/internal/common/logger"
)

func newQueueUnderTest(t *testing.T) (*miniredis.Miniredis, *Queue) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, New(client, "intake:process", logger.NewNoOpLogger())
}

func TestEnqueueConsume(t *testing.T) {
	_, q := newQueueUnderTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Enqueue(ctx, "doc-1"))
	require.NoError(t, q.Enqueue(ctx, "doc-2"))

	received := make(chan string, 2)
	go q.Consume(ctx, func(ctx context.Context, documentID string) error {
		received <- documentID
		return nil
	})

	assert.Equal(t, "doc-1", waitFor(t, received))
	assert.Equal(t, "doc-2", waitFor(t, received))
}

func TestConsumeRequeuesLockedDocument(t *testing.T) {
	_, q := newQueueUnderTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Enqueue(ctx, "doc-1"))

	attempts := make(chan int, 4)
	calls := 0
	go q.Consume(ctx, func(ctx context.Context, documentID string) error {
		calls++
		attempts <- calls
		if calls == 1 {
			return errors.NewDocumentLockedError(documentID)
		}
		return nil
	})

	assert.Equal(t, 1, waitFor(t, attempts))
	// The locked document comes back around.
	assert.Equal(t, 2, waitFor(t, attempts))
}

func TestConsumeStopsOnCancel(t *testing.T) {
	_, q := newQueueUnderTest(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- q.Consume(ctx, func(context.Context, string) error { return nil }) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func waitFor[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for value")
		panic("unreachable")
	}
}
