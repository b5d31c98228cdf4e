package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// ProjectHandler handles project, note and project-category requests.
type ProjectHandler struct {
	docs   *services.DocumentService
	logger *logger.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(docs *services.DocumentService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		docs:   docs,
		logger: logger,
	}
}

func (h *ProjectHandler) ListProjects(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Document().Projects)
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ports.CreateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project := h.docs.CreateProject(req)
	return c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(c echo.Context) error {
	doc := h.docs.Document()
	p := doc.FindProject(c.Param("id"))
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	var req ports.UpdateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.docs.UpdateProject(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	if err := h.docs.DeleteProject(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "project deleted"})
}

func (h *ProjectHandler) GetProjectTasks(c echo.Context) error {
	doc := h.docs.Document()
	if doc.FindProject(c.Param("id")) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	return c.JSON(http.StatusOK, doc.ProjectTasks(c.Param("id")))
}

// Notes

func (h *ProjectHandler) AddNote(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.docs.AddNote(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, note)
}

func (h *ProjectHandler) UpdateNote(c echo.Context) error {
	var req ports.UpdateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.docs.UpdateNote(c.Param("id"), c.Param("noteId"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, note)
}

func (h *ProjectHandler) DeleteNote(c echo.Context) error {
	if err := h.docs.DeleteNote(c.Param("id"), c.Param("noteId")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "note deleted"})
}

// Categories

func (h *ProjectHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Document().Categories)
}

func (h *ProjectHandler) CreateCategory(c echo.Context) error {
	var req ports.CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category := h.docs.CreateCategory(req)
	return c.JSON(http.StatusCreated, category)
}

func (h *ProjectHandler) UpdateCategory(c echo.Context) error {
	var req ports.UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.docs.UpdateCategory(c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *ProjectHandler) DeleteCategory(c echo.Context) error {
	if err := h.docs.DeleteCategory(c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "category deleted"})
}
