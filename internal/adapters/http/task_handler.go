package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// TaskHandler handles task, subtask, quick-task and log requests.
type TaskHandler struct {
	docs   *services.DocumentService
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(docs *services.DocumentService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		docs:   docs,
		logger: logger,
	}
}

func (h *TaskHandler) ListTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Document().Tasks)
}

func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.docs.CreateTask(req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c echo.Context) error {
	t := h.docs.Document().FindTask(c.Param("id"))
	if t == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.docs.UpdateTask(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if err := h.docs.DeleteTask(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "task deleted"})
}

// Subtasks. Responses carry the affected subtask id so the client can
// focus the row it just touched.

func (h *TaskHandler) AddSubtask(c echo.Context) error {
	var req ports.AddSubtaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.docs.AddSubtask(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, ports.IDResponse{ID: id})
}

func (h *TaskHandler) UpdateSubtask(c echo.Context) error {
	var req ports.UpdateSubtaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.docs.UpdateSubtask(c.Param("id"), c.Param("subtaskId"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.IDResponse{ID: id})
}

func (h *TaskHandler) RemoveSubtask(c echo.Context) error {
	id, err := h.docs.RemoveSubtask(c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.IDResponse{ID: id})
}

// Quick tasks

func (h *TaskHandler) ListQuickTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Document().QuickTasks)
}

func (h *TaskHandler) CreateQuickTask(c echo.Context) error {
	var req ports.CreateQuickTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	quickTask := h.docs.CreateQuickTask(req)
	return c.JSON(http.StatusCreated, quickTask)
}

func (h *TaskHandler) UpdateQuickTask(c echo.Context) error {
	var req ports.UpdateQuickTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	quickTask, err := h.docs.UpdateQuickTask(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, quickTask)
}

func (h *TaskHandler) DeleteQuickTask(c echo.Context) error {
	if err := h.docs.DeleteQuickTask(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "quick task deleted"})
}

// Logs are attached to tasks, quick tasks or personal todos; the
// owner id resolves across all three. Acting on a nonexistent owner or
// log is tolerated and reported as a no-op, never a failure.

func (h *TaskHandler) AddLog(c echo.Context) error {
	var req ports.AddLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	log, ok := h.docs.AddLog(c.Param("ownerId"), req.Content)
	if !ok {
		return c.JSON(http.StatusOK, ports.MessageResponse{Message: "log ignored"})
	}
	return c.JSON(http.StatusCreated, log)
}

func (h *TaskHandler) UpdateLog(c echo.Context) error {
	var req ports.UpdateLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if !h.docs.UpdateLog(c.Param("ownerId"), c.Param("logId"), req.Content) {
		return c.JSON(http.StatusOK, ports.MessageResponse{Message: "log ignored"})
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "log updated"})
}

func (h *TaskHandler) DeleteLog(c echo.Context) error {
	if !h.docs.DeleteLog(c.Param("ownerId"), c.Param("logId")) {
		return c.JSON(http.StatusOK, ports.MessageResponse{Message: "log ignored"})
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "log deleted"})
}
