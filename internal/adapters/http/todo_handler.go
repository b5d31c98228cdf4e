package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// TodoHandler handles personal todo and todo category requests.
type TodoHandler struct {
	docs   *services.DocumentService
	logger *logger.Logger
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(docs *services.DocumentService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		docs:   docs,
		logger: logger,
	}
}

func (h *TodoHandler) GetPersonalTodos(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Document().PersonalTodos)
}

// Todo categories

func (h *TodoHandler) CreateTodoCategory(c echo.Context) error {
	var req ports.CreateTodoCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category := h.docs.CreateTodoCategory(req)
	return c.JSON(http.StatusCreated, category)
}

func (h *TodoHandler) UpdateTodoCategory(c echo.Context) error {
	var req ports.UpdateTodoCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.docs.UpdateTodoCategory(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *TodoHandler) DeleteTodoCategory(c echo.Context) error {
	if err := h.docs.DeleteTodoCategory(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "todo category deleted"})
}

// Todos

func (h *TodoHandler) CreateTodo(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo := h.docs.CreateTodo(req)
	return c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	var req ports.UpdateTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.docs.UpdateTodo(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	if err := h.docs.DeleteTodo(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "todo deleted"})
}

func (h *TodoHandler) MoveTodoToActive(c echo.Context) error {
	if err := h.docs.MoveTodoToActive(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.docs.Document().PersonalTodos)
}

func (h *TodoHandler) MoveTodoToBacklog(c echo.Context) error {
	if err := h.docs.MoveTodoToBacklog(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.docs.Document().PersonalTodos)
}

func (h *TodoHandler) ReorderActiveTodos(c echo.Context) error {
	var req ports.ReorderActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.docs.ReorderActiveTodos(req); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.docs.Document().PersonalTodos)
}
