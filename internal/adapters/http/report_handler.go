package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/infrastructure/logger"
)

// ReportHandler serves aggregated project reports.
type ReportHandler struct {
	reports *services.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports *services.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// GetProjectReports renders per-project summaries. The format query
// parameter selects json (default), csv or markdown.
func (h *ReportHandler) GetProjectReports(c echo.Context) error {
	reports := h.reports.ProjectReports()

	switch c.QueryParam("format") {
	case "", "json":
		return c.JSON(http.StatusOK, reports)
	case "csv":
		data, err := h.reports.RenderCSV(reports)
		if err != nil {
			h.logger.Errorw("Failed to render CSV report", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render report")
		}
		return c.Blob(http.StatusOK, "text/csv", data)
	case "markdown":
		return c.Blob(http.StatusOK, "text/markdown", h.reports.RenderMarkdown(reports))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown report format")
	}
}
