package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"

	"github.com/taskflow/core/internal/adapters/blob"
	"github.com/taskflow/core/internal/adapters/repository"
	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

func setupHandler(t *testing.T) (*echo.Echo, *services.TaskService) {
	t.Helper()

	store, err := blob.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	log := logger.NewNop()
	repo := repository.NewTaskRepository(store, "todos", log)
	svc := services.NewTaskService(context.Background(), repo, log)

	e := echo.New()
	NewTaskHandler(svc, log).Register(e.Group("/api/v1"))
	return e, svc
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createTask(t *testing.T, e *echo.Echo, body string) entities.Task {
	t.Helper()

	rec := doRequest(e, http.MethodPost, "/api/v1/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /tasks status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var task entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	return task
}

func listTasks(t *testing.T, e *echo.Echo, query string) ports.ListTasksResponse {
	t.Helper()

	rec := doRequest(e, http.MethodGet, "/api/v1/tasks"+query, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tasks%s status = %d, body = %s", query, rec.Code, rec.Body.String())
	}
	var resp ports.ListTasksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return resp
}

func TestCreateTask(t *testing.T) {
	e, svc := setupHandler(t)

	task := createTask(t, e, `{"text":"  Buy milk ","priority":"high","dueDate":"2024-06-03"}`)

	if task.ID == "" || task.Text != "Buy milk" || task.Priority != entities.PriorityHigh {
		t.Errorf("created task = %+v", task)
	}
	if task.DueDate == nil || task.DueDate.String() != "2024-06-03" {
		t.Errorf("due date = %v", task.DueDate)
	}
	if got := len(svc.Tasks(context.Background())); got != 1 {
		t.Errorf("collection size = %d, want 1", got)
	}
}

func TestCreateTask_EmptyDueDate(t *testing.T) {
	e, _ := setupHandler(t)

	task := createTask(t, e, `{"text":"no deadline","dueDate":""}`)
	if task.DueDate != nil {
		t.Errorf("due date = %v, want none", task.DueDate)
	}
}

func TestCreateTask_BadRequests(t *testing.T) {
	e, svc := setupHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"text":""}`},
		{"whitespace text", `{"text":"   "}`},
		{"unknown priority", `{"text":"x","priority":"urgent"}`},
		{"bad date", `{"text":"x","dueDate":"soon"}`},
		{"malformed json", `{"text":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/api/v1/tasks", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
		})
	}

	if got := len(svc.Tasks(context.Background())); got != 0 {
		t.Errorf("rejected requests added %d tasks", got)
	}
}

func TestListTasks(t *testing.T) {
	e, _ := setupHandler(t)

	milk := createTask(t, e, `{"text":"Buy milk","priority":"low"}`)
	createTask(t, e, `{"text":"Walk dog","priority":"high"}`)
	doRequest(e, http.MethodPost, "/api/v1/tasks/"+milk.ID+"/star", "")

	resp := listTasks(t, e, "")
	if len(resp.Tasks) != 2 || resp.Tasks[0].ID != milk.ID {
		t.Errorf("tasks = %+v, want starred task first", resp.Tasks)
	}
	want := entities.Stats{Total: 2, Active: 2, Starred: 1}
	if resp.Stats != want {
		t.Errorf("stats = %+v, want %+v", resp.Stats, want)
	}

	resp = listTasks(t, e, "?search=MIL")
	if len(resp.Tasks) != 1 || resp.Tasks[0].ID != milk.ID {
		t.Errorf("search result = %+v", resp.Tasks)
	}
	if resp.Stats.Total != 2 {
		t.Errorf("stats follow the search: %+v", resp.Stats)
	}

	resp = listTasks(t, e, "?filter=completed")
	if len(resp.Tasks) != 0 {
		t.Errorf("completed filter = %+v, want empty", resp.Tasks)
	}
	if resp.Tasks == nil {
		t.Error("empty list encoded as null")
	}
}

func TestListTasks_InvalidFilter(t *testing.T) {
	e, _ := setupHandler(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/tasks?filter=someday", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateTask(t *testing.T) {
	e, svc := setupHandler(t)
	task := createTask(t, e, `{"text":"draft","priority":"low","dueDate":"2024-01-01"}`)

	rec := doRequest(e, http.MethodPut, "/api/v1/tasks/"+task.ID, `{"text":"final","priority":"high"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp ports.UpdateTaskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Updated {
		t.Errorf("response = %s", rec.Body.String())
	}

	got := svc.Tasks(context.Background())[0]
	if got.Text != "final" || got.Priority != entities.PriorityHigh || got.DueDate != nil {
		t.Errorf("updated task = %+v", got)
	}

	rec = doRequest(e, http.MethodPut, "/api/v1/tasks/"+task.ID, `{"text":" "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank update status = %d, want 400", rec.Code)
	}

	rec = doRequest(e, http.MethodPut, "/api/v1/tasks/missing", `{"text":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestSingleTaskActions(t *testing.T) {
	e, svc := setupHandler(t)
	ctx := context.Background()
	task := createTask(t, e, `{"text":"laundry"}`)

	for _, action := range []string{"complete", "star"} {
		rec := doRequest(e, http.MethodPost, "/api/v1/tasks/"+task.ID+"/"+action, "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("POST %s status = %d, want 204", action, rec.Code)
		}
	}

	got := svc.Tasks(ctx)[0]
	if !got.Completed || !got.Starred {
		t.Errorf("task after actions = %+v", got)
	}

	if rec := doRequest(e, http.MethodPost, "/api/v1/tasks/"+task.ID+"/archive", ""); rec.Code != http.StatusNoContent {
		t.Errorf("archive status = %d, want 204", rec.Code)
	}
	if resp := listTasks(t, e, ""); len(resp.Tasks) != 0 || resp.Stats.Total != 0 {
		t.Errorf("archived task still listed: %+v", resp)
	}

	if rec := doRequest(e, http.MethodDelete, "/api/v1/tasks/"+task.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if got := len(svc.Tasks(ctx)); got != 0 {
		t.Errorf("collection size after delete = %d", got)
	}
}

func TestSingleTaskActions_UnknownID(t *testing.T) {
	e, _ := setupHandler(t)

	requests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/tasks/missing/complete"},
		{http.MethodPost, "/api/v1/tasks/missing/star"},
		{http.MethodPost, "/api/v1/tasks/missing/archive"},
		{http.MethodDelete, "/api/v1/tasks/missing"},
	}

	for _, r := range requests {
		if rec := doRequest(e, r.method, r.path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", r.method, r.path, rec.Code)
		}
	}
}

func TestGetStats(t *testing.T) {
	e, _ := setupHandler(t)

	a := createTask(t, e, `{"text":"a"}`)
	createTask(t, e, `{"text":"b"}`)
	createTask(t, e, `{"text":"c"}`)
	doRequest(e, http.MethodPost, "/api/v1/tasks/"+a.ID+"/complete", "")

	rec := doRequest(e, http.MethodGet, "/api/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats entities.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	want := entities.Stats{Total: 3, Completed: 1, Active: 2, CompletionRate: 33}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}
