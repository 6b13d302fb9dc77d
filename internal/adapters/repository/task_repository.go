package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// TaskRepository persists the whole task collection as one JSON blob
type TaskRepository struct {
	store  ports.BlobStore
	key    string
	logger *logger.Logger
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new task repository
func NewTaskRepository(store ports.BlobStore, key string, log *logger.Logger) *TaskRepository {
	return &TaskRepository{
		store:  store,
		key:    key,
		logger: log.WithComponent("task_repository"),
	}
}

// Load reads the collection. A missing, unreadable or corrupt blob loads as
// an empty collection so startup never fails on bad storage.
func (r *TaskRepository) Load(ctx context.Context) []entities.Task {
	start := time.Now()
	data, err := r.store.Get(ctx, r.key)
	r.logger.LogStorageOperation("get", r.key, len(data), sinceMs(start), ignoreNotFound(err))

	if err != nil {
		if !errors.Is(err, ports.ErrBlobNotFound) {
			r.logger.Warnw("Failed to read task collection, starting empty", "key", r.key, "error", err)
		}
		return []entities.Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		r.logger.Warnw("Stored task collection is corrupt, starting empty", "key", r.key, "error", err)
		return []entities.Task{}
	}

	return tasks
}

// Save overwrites the stored collection with tasks
func (r *TaskRepository) Save(ctx context.Context, tasks []entities.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	start := time.Now()
	err = r.store.Put(ctx, r.key, data)
	r.logger.LogStorageOperation("put", r.key, len(data), sinceMs(start), err)
	if err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}

	return nil
}

// Encode serializes a collection into the persisted JSON layout
func Encode(tasks []entities.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []entities.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses the persisted JSON layout. Empty input and null decode as
// an empty collection.
func Decode(data []byte) ([]entities.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []entities.Task{}, nil
	}

	var tasks []entities.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return tasks, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ports.ErrBlobNotFound) {
		return nil
	}
	return err
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1000000
}
