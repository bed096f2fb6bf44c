// Package queue moves document ids between the upload path and the
// processing workers over a Redis list.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "housing-intake/internal/common/errors"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/common/metrics"
)

// Queue is a Redis-list backed work queue of document ids.
type Queue struct {
	client *redis.Client
	name   string
	log    logger.Logger
}

func New(client *redis.Client, name string, log logger.Logger) *Queue {
	return &Queue{client: client, name: name, log: log}
}

// Enqueue pushes one document id onto the queue.
func (q *Queue) Enqueue(ctx context.Context, documentID string) error {
	if err := q.client.LPush(ctx, q.name, documentID).Err(); err != nil {
		return err
	}
	if depth, err := q.client.LLen(ctx, q.name).Result(); err == nil {
		metrics.QueueDepth.Set(float64(depth))
	}
	return nil
}

// Handler processes one dequeued document id.
type Handler func(ctx context.Context, documentID string) error

// Consume blocks on the queue until ctx is cancelled, handing each id to the
// handler. Handler errors are logged and the id is dropped; a locked document
// is requeued so the holder's run is not lost.
func (q *Queue) Consume(ctx context.Context, handler Handler) error {
	for {
		result, err := q.client.BRPop(ctx, 5*time.Second, q.name).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.log.Error("queue read failed", map[string]interface{}{"error": err.Error()})
			time.Sleep(time.Second)
			continue
		}
		if len(result) != 2 {
			continue
		}
		documentID := result[1]

		if depth, err := q.client.LLen(ctx, q.name).Result(); err == nil {
			metrics.QueueDepth.Set(float64(depth))
		}

		if err := handler(ctx, documentID); err != nil {
			if stderrors.CodeOf(err) == stderrors.ErrCodeDocumentLocked {
				q.log.Warn("document locked, requeueing", map[string]interface{}{"documentId": documentID})
				if err := q.Enqueue(ctx, documentID); err != nil {
					q.log.Error("requeue failed", map[string]interface{}{"documentId": documentID, "error": err.Error()})
				}
				continue
			}
			q.log.Error("document processing failed", map[string]interface{}{
				"documentId": documentID,
				"error":      err.Error(),
			})
		}
	}
}
