package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// DocumentHandler exposes the whole-document boundary: GET returns the
// current normalized document (seeding on first use), POST merges the
// supplied top-level keys and writes the document back in full.
type DocumentHandler struct {
	docs   *services.DocumentService
	logger *logger.Logger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(docs *services.DocumentService, logger *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		docs:   docs,
		logger: logger,
	}
}

// GetDocument returns the current document.
func (h *DocumentHandler) GetDocument(c echo.Context) error {
	return c.JSON(http.StatusOK, h.docs.Document())
}

// SaveDocument merges zero or more top-level keys over the persisted
// document. Keys not present in the body are left unchanged.
func (h *DocumentHandler) SaveDocument(c echo.Context) error {
	var patch ports.DocumentPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	doc, err := h.docs.ApplyPatch(c.Request().Context(), patch)
	if err != nil {
		h.logger.Errorw("Save document failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save document")
	}
	return c.JSON(http.StatusOK, doc)
}

// UpdateScratchpad replaces the scratchpad text.
func (h *DocumentHandler) UpdateScratchpad(c echo.Context) error {
	var req ports.UpdateScratchpadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.docs.UpdateScratchpad(req.Content)
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "scratchpad updated"})
}
