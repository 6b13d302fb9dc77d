package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// Register mounts the task routes on g
func (h *TaskHandler) Register(g *echo.Group) {
	g.GET("/tasks", h.ListTasks)
	g.POST("/tasks", h.CreateTask)
	g.PUT("/tasks/:id", h.UpdateTask)
	g.DELETE("/tasks/:id", h.DeleteTask)
	g.POST("/tasks/:id/complete", h.ToggleComplete)
	g.POST("/tasks/:id/star", h.ToggleStar)
	g.POST("/tasks/:id/archive", h.ArchiveTask)
	g.GET("/stats", h.GetStats)
}

// ListTasks godoc
// @Summary List tasks
// @Description Filtered, searched and sorted live tasks together with the stats
// @Tags tasks
// @Produce json
// @Param filter query string false "all, active, completed or starred"
// @Param search query string false "case-insensitive text search"
// @Success 200 {object} ports.ListTasksResponse
// @Failure 400 {object} ports.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter, err := entities.ParseFilter(c.QueryParam("filter"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid filter parameter")
	}
	search := strings.TrimSpace(c.QueryParam("search"))

	ctx := c.Request().Context()
	tasks := h.taskService.View(ctx, filter, search)

	return c.JSON(http.StatusOK, ports.ListTasksResponse{
		Filter: filter,
		Search: search,
		Tasks:  tasks,
		Stats:  h.taskService.Stats(ctx),
	})
}

// CreateTask godoc
// @Summary Create a new task
// @Description Add a task at the front of the collection
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.Add(c.Request().Context(), req)
	if err != nil {
		return h.taskError(err, "Create task failed")
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Replace text, priority and due date. Omitting dueDate clears it.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Task data"
// @Success 200 {object} ports.UpdateTaskResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id := c.Param("id")

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	updated, err := h.taskService.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.taskError(err, "Update task failed", "task_id", id)
	}
	if !updated {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}

	return c.JSON(http.StatusOK, ports.UpdateTaskResponse{Updated: true})
}

// ToggleComplete godoc
// @Summary Toggle the completed flag
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) ToggleComplete(c echo.Context) error {
	return h.apply(c, h.taskService.ToggleComplete)
}

// ToggleStar godoc
// @Summary Toggle the starred flag
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id}/star [post]
func (h *TaskHandler) ToggleStar(c echo.Context) error {
	return h.apply(c, h.taskService.ToggleStar)
}

// ArchiveTask godoc
// @Summary Archive a task
// @Description Archived tasks stay stored but leave every view and the stats
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id}/archive [post]
func (h *TaskHandler) ArchiveTask(c echo.Context) error {
	return h.apply(c, h.taskService.Archive)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	return h.apply(c, h.taskService.Delete)
}

// GetStats godoc
// @Summary Task statistics
// @Tags tasks
// @Produce json
// @Success 200 {object} entities.Stats
// @Router /stats [get]
func (h *TaskHandler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.taskService.Stats(c.Request().Context()))
}

// apply runs a single-id mutation. An unknown id, or an archive of an
// already archived task, answers 404.
func (h *TaskHandler) apply(c echo.Context, op func(ctx context.Context, id string) bool) error {
	id := c.Param("id")
	if !op(c.Request().Context(), id) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHandler) taskError(err error, msg string, fields ...interface{}) error {
	switch {
	case errors.Is(err, entities.ErrEmptyText),
		errors.Is(err, entities.ErrInvalidPriority),
		errors.Is(err, entities.ErrInvalidDate),
		errors.Is(err, entities.ErrInvalidTask):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.logger.Errorw(msg, append(fields, "error", err)...)
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}
