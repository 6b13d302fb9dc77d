package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// TaskService owns the task collection and applies mutations to it.
// Every mutation and the save that follows it happen under one lock.
type TaskService struct {
	mu       sync.Mutex
	tasks    []entities.Task
	repo     ports.TaskRepository
	logger   *logger.Logger
	validate *validator.Validate
	now      func() time.Time
	newID    func() string

	saveTimeout time.Duration
}

var _ ports.TaskService = (*TaskService)(nil)

// Option configures a TaskService
type Option func(*TaskService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) {
		s.newID = newID
	}
}

// WithSaveTimeout bounds every save. Zero leaves saves unbounded.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *TaskService) {
		s.saveTimeout = d
	}
}

// NewTaskService creates a new task service seeded from the repository
func NewTaskService(ctx context.Context, repo ports.TaskRepository, log *logger.Logger, opts ...Option) *TaskService {
	s := &TaskService{
		repo:     repo,
		logger:   log.WithComponent("task_service"),
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = repo.Load(ctx)
	s.logger.Debugw("Task collection loaded", "count", len(s.tasks))

	return s
}

// Add creates a new task at the front of the collection
func (s *TaskService) Add(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Priority == "" {
		req.Priority = entities.DefaultPriority
	}
	if err := s.check(req.Text, req.Priority, req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// createdAt is kept at millisecond precision so it survives the JSON round trip unchanged
	task := entities.Task{
		ID:        s.newID(),
		Text:      req.Text,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Priority:  req.Priority,
		DueDate:   cloneDate(req.DueDate),
	}

	s.tasks = append([]entities.Task{task}, s.tasks...)
	s.persist(ctx)

	s.logger.LogTaskAction(task.ID, "add", map[string]interface{}{"priority": task.Priority})

	created := task.Clone()
	return &created, nil
}

// Update replaces text, priority and due date of a task. A nil due date
// clears the existing one. Unknown ids are ignored.
func (s *TaskService) Update(ctx context.Context, id string, req ports.UpdateTaskRequest) (bool, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Priority == "" {
		req.Priority = entities.DefaultPriority
	}
	if err := s.check(req.Text, req.Priority, req); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	s.tasks[i].Text = req.Text
	s.tasks[i].Priority = req.Priority
	s.tasks[i].DueDate = cloneDate(req.DueDate)
	s.persist(ctx)

	s.logger.LogTaskAction(id, "update", nil)
	return true, nil
}

// ToggleComplete flips the completed flag of a task
func (s *TaskService) ToggleComplete(ctx context.Context, id string) bool {
	return s.mutate(ctx, id, "toggle_complete", func(t *entities.Task) bool {
		t.Completed = !t.Completed
		return true
	})
}

// ToggleStar flips the starred flag of a task
func (s *TaskService) ToggleStar(ctx context.Context, id string) bool {
	return s.mutate(ctx, id, "toggle_star", func(t *entities.Task) bool {
		t.Starred = !t.Starred
		return true
	})
}

// Archive hides a task from every view while keeping it stored
func (s *TaskService) Archive(ctx context.Context, id string) bool {
	return s.mutate(ctx, id, "archive", func(t *entities.Task) bool {
		if t.Archived {
			return false
		}
		t.Archived = true
		return true
	})
}

// Delete removes a task from the collection for good
func (s *TaskService) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persist(ctx)

	s.logger.LogTaskAction(id, "delete", nil)
	return true
}

// Tasks returns a copy of the whole collection, archived tasks included
func (s *TaskService) Tasks(ctx context.Context) []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// View returns the filtered, searched and sorted live tasks
func (s *TaskService) View(ctx context.Context, filter entities.Filter, query string) []entities.Task {
	return ProjectTasks(s.Tasks(ctx), filter, query)
}

// Stats returns the aggregate counts over live tasks
func (s *TaskService) Stats(ctx context.Context) entities.Stats {
	return ComputeStats(s.Tasks(ctx))
}

// mutate applies fn to the task with id and saves when fn reports a change
func (s *TaskService) mutate(ctx context.Context, id, action string, fn func(*entities.Task) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || !fn(&s.tasks[i]) {
		return false
	}

	s.persist(ctx)
	s.logger.LogTaskAction(id, action, nil)
	return true
}

// check rejects empty text and unknown priorities before any state changes
func (s *TaskService) check(text string, priority entities.Priority, req interface{}) error {
	if text == "" {
		return entities.ErrEmptyText
	}
	if !priority.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidPriority, priority)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidTask, err)
	}
	return nil
}

// persist saves the collection. Must be called with mu held. The save is
// detached from ctx cancellation so a dropped caller cannot skip it. Failures
// are logged and otherwise ignored: memory stays the source of truth.
func (s *TaskService) persist(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.saveTimeout)
		defer cancel()
	}

	if err := s.repo.Save(ctx, s.snapshot()); err != nil {
		s.logger.Errorw("Failed to persist tasks, keeping in-memory state", "error", err, "count", len(s.tasks))
	}
}

func (s *TaskService) snapshot() []entities.Task {
	out := make([]entities.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *TaskService) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneDate(d *entities.Date) *entities.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	c := *d
	return &c
}
