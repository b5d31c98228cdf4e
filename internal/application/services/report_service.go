package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/soloplan/core/internal/domain/entities"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// ReportService produces simple per-project summaries from the
// current document. Quick tasks are folded in through their Task
// shape so the aggregation logic is shared.
type ReportService struct {
	docs   *DocumentService
	logger *logger.Logger
}

// NewReportService creates a new report service.
func NewReportService(docs *DocumentService, logger *logger.Logger) *ReportService {
	return &ReportService{
		docs:   docs,
		logger: logger,
	}
}

// ProjectReports builds one summary row per project.
func (s *ReportService) ProjectReports() []ports.ProjectReport {
	doc := s.docs.Document()

	reports := make([]ports.ProjectReport, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		r := ports.ProjectReport{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Status:      p.Status,
			TasksByStatus: map[entities.TaskStatus]int{
				entities.TaskStatusTodo:       0,
				entities.TaskStatusInProgress: 0,
				entities.TaskStatusDone:       0,
			},
		}

		for _, t := range doc.ProjectTasks(p.ID) {
			r.TasksByStatus[t.Status]++
			r.TotalPoints += t.StoryPoints
			r.CompletedPoints += t.CompletedPoints()
			r.LogEntries += len(t.Logs)
		}
		for _, q := range doc.QuickTasks {
			if q.ProjectID != p.ID {
				continue
			}
			t := q.AsTask()
			r.QuickTasks++
			r.TasksByStatus[t.Status]++
			r.TotalPoints += t.StoryPoints
			if q.IsDone {
				r.CompletedPoints += t.StoryPoints
			}
			r.LogEntries += len(t.Logs)
		}

		reports = append(reports, r)
	}
	return reports
}

// RenderCSV renders the reports as CSV.
func (s *ReportService) RenderCSV(reports []ports.ProjectReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"project", "status", "todo", "in_progress", "done", "quick_tasks", "total_points", "completed_points", "log_entries"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	for _, r := range reports {
		row := []string{
			r.ProjectName,
			string(r.Status),
			strconv.Itoa(r.TasksByStatus[entities.TaskStatusTodo]),
			strconv.Itoa(r.TasksByStatus[entities.TaskStatusInProgress]),
			strconv.Itoa(r.TasksByStatus[entities.TaskStatusDone]),
			strconv.Itoa(r.QuickTasks),
			strconv.Itoa(r.TotalPoints),
			strconv.Itoa(r.CompletedPoints),
			strconv.Itoa(r.LogEntries),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMarkdown renders the reports as a Markdown table.
func (s *ReportService) RenderMarkdown(reports []ports.ProjectReport) []byte {
	var buf bytes.Buffer
	buf.WriteString("| Project | Status | To Do | In Progress | Done | Quick | Points | Completed |\n")
	buf.WriteString("|---------|--------|-------|-------------|------|-------|--------|-----------|\n")
	for _, r := range reports {
		fmt.Fprintf(&buf, "| %s | %s | %d | %d | %d | %d | %d | %d |\n",
			r.ProjectName,
			r.Status,
			r.TasksByStatus[entities.TaskStatusTodo],
			r.TasksByStatus[entities.TaskStatusInProgress],
			r.TasksByStatus[entities.TaskStatusDone],
			r.QuickTasks,
			r.TotalPoints,
			r.CompletedPoints,
		)
	}
	return buf.Bytes()
}
