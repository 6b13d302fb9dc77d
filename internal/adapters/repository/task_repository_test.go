package repository

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/taskflow/core/internal/adapters/blob"
	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// failingStore is a BlobStore whose every call fails.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingStore) Put(context.Context, string, []byte) error   { return errors.New("quota exceeded") }
func (failingStore) Ping(context.Context) error                  { return errors.New("down") }
func (failingStore) Close() error                                { return nil }

func setupRepo(t *testing.T) (*TaskRepository, ports.BlobStore) {
	t.Helper()

	store, err := blob.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewTaskRepository(store, "todos", logger.NewNop()), store
}

func representativeTasks() []entities.Task {
	due := entities.NewDate(2024, time.July, 4)
	base := time.Date(2024, time.June, 1, 9, 30, 0, 123000000, time.UTC)

	return []entities.Task{
		{ID: "a", Text: "Buy milk", CreatedAt: base.Add(3 * time.Minute), Priority: entities.PriorityHigh, DueDate: &due, Starred: true},
		{ID: "b", Text: "Walk dog", CreatedAt: base.Add(2 * time.Minute), Priority: entities.PriorityMedium, Completed: true},
		{ID: "c", Text: "File taxes", CreatedAt: base.Add(time.Minute), Priority: entities.PriorityLow, Archived: true},
		{ID: "d", Text: "Call mom", CreatedAt: base, Priority: entities.PriorityLow},
	}
}

func TestTaskRepository_RoundTrip(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	want := representativeTasks()

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := repo.Load(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() after Save() mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestTaskRepository_LoadMissing(t *testing.T) {
	repo, _ := setupRepo(t)

	got := repo.Load(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil slice", got)
	}
}

func TestTaskRepository_LoadCorrupt(t *testing.T) {
	repo, store := setupRepo(t)
	ctx := context.Background()

	for _, blobData := range []string{`{not json`, `{"id":"1"}`, `[{"createdAt": 12}]`} {
		if err := store.Put(ctx, "todos", []byte(blobData)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if got := repo.Load(ctx); len(got) != 0 {
			t.Errorf("Load(%s) = %+v, want empty", blobData, got)
		}
	}
}

func TestTaskRepository_LoadNull(t *testing.T) {
	repo, store := setupRepo(t)
	ctx := context.Background()

	if err := store.Put(ctx, "todos", []byte(`null`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if got := repo.Load(ctx); got == nil || len(got) != 0 {
		t.Errorf("Load(null) = %#v, want empty non-nil slice", got)
	}
}

func TestTaskRepository_StoreFailures(t *testing.T) {
	repo := NewTaskRepository(failingStore{}, "todos", logger.NewNop())
	ctx := context.Background()

	if got := repo.Load(ctx); len(got) != 0 {
		t.Errorf("Load() = %+v, want empty", got)
	}
	if err := repo.Save(ctx, representativeTasks()); err == nil {
		t.Error("expected Save() to report the store failure")
	}
}

func TestEncode_FieldNames(t *testing.T) {
	due := entities.NewDate(2024, time.January, 2)
	data, err := Encode([]entities.Task{{
		ID:        "x",
		Text:      "t",
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 500000000, time.UTC),
		Priority:  entities.PriorityLow,
		DueDate:   &due,
		Archived:  true,
	}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `[{"id":"x","text":"t","completed":false,"createdAt":"2024-01-01T00:00:00.5Z","priority":"low","dueDate":"2024-01-02","starred":false,"archived":true}]`
	if string(data) != want {
		t.Errorf("Encode() = %s\nwant %s", data, want)
	}
}

func TestEncode_OmitsOptionalFields(t *testing.T) {
	data, err := Encode([]entities.Task{{ID: "x", Text: "t", Priority: entities.PriorityMedium}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `[{"id":"x","text":"t","completed":false,"createdAt":"0001-01-01T00:00:00Z","priority":"medium","starred":false}]`
	if string(data) != want {
		t.Errorf("Encode() = %s\nwant %s", data, want)
	}
}

func TestEncode_Nil(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("Encode(nil) = %s, want []", data)
	}
}

func TestDecode_OriginalLayout(t *testing.T) {
	// Blob as written by the browser version of the app
	data := []byte(`[{"id":"1717230000000","text":"Buy milk","completed":false,"createdAt":"2024-06-01T08:20:00.000Z","priority":"high","dueDate":"2024-06-03","starred":true}]`)

	tasks, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Decode() returned %d tasks", len(tasks))
	}

	got := tasks[0]
	if got.ID != "1717230000000" || got.Text != "Buy milk" || !got.Starred || got.Priority != entities.PriorityHigh {
		t.Errorf("Decode() = %+v", got)
	}
	if got.DueDate == nil || got.DueDate.String() != "2024-06-03" {
		t.Errorf("due date = %v", got.DueDate)
	}
	if !got.CreatedAt.Equal(time.Date(2024, time.June, 1, 8, 20, 0, 0, time.UTC)) {
		t.Errorf("createdAt = %v", got.CreatedAt)
	}
}

func TestDecode_EmptyDueDate(t *testing.T) {
	data := []byte(`[{"id":"1","text":"Someday","completed":false,"createdAt":"2024-06-01T08:20:00.000Z","priority":"low","dueDate":"","starred":false}]`)

	tasks, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].DueDate != nil {
		t.Fatalf("Decode() = %+v, want one task without a due date", tasks)
	}

	out, err := Encode(tasks)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(string(out), "dueDate") {
		t.Errorf("Encode() = %s, want no dueDate", out)
	}
}
