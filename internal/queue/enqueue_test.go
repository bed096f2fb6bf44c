// internal/queue/enqueue_test.go
package queue

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-intake/internal/common/logger"
)

func TestEnqueuePushesAndMeasuresDepth(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := New(client, "intake:process", logger.NewNoOpLogger())

	mock.ExpectLPush("intake:process", "doc-1").SetVal(1)
	mock.ExpectLLen("intake:process").SetVal(1)

	require.NoError(t, q.Enqueue(context.Background(), "doc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueuePropagatesError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := New(client, "intake:process", logger.NewNoOpLogger())

	mock.ExpectLPush("intake:process", "doc-1").SetErr(assert.AnError)

	err := q.Enqueue(context.Background(), "doc-1")
	assert.ErrorIs(t, err, assert.AnError)
}
