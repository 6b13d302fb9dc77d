package ports

import (
	"context"
	"errors"

	"github.com/taskflow/core/internal/domain/entities"
)

// ErrBlobNotFound is returned by a BlobStore when no blob is stored under a key
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore defines an opaque key-value store for serialized documents
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// TaskRepository defines how the full task collection is loaded and saved.
// Load never fails: a missing or unreadable collection loads as empty.
type TaskRepository interface {
	Load(ctx context.Context) []entities.Task
	Save(ctx context.Context, tasks []entities.Task) error
}
