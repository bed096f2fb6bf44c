// Package storage abstracts the blob store that holds uploaded documents and
// extraction artifacts.
package storage

import (
	"context"
	"time"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BlobStore is the interface the pipeline uses to persist document bytes and
// extraction artifacts.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
