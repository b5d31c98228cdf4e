package mutate

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// Log mutators never return an error: acting on a nonexistent owner
// or log id is a no-op, reported as ok=false so the caller can warn.

// findLogs resolves the log list of a task, quick task or personal
// todo by owner id, in that order.
func findLogs(doc *entities.Document, ownerID string) *[]entities.Log {
	if t := doc.FindTask(ownerID); t != nil {
		return &t.Logs
	}
	if q := doc.FindQuickTask(ownerID); q != nil {
		return &q.Logs
	}
	if td := doc.PersonalTodos.FindTodo(ownerID); td != nil {
		return &td.Logs
	}
	return nil
}

// AddLog appends a log entry to the owner's log list. Entries that are
// empty after trimming are rejected.
func AddLog(doc *entities.Document, ownerID, content string) (*entities.Log, bool) {
	if strings.TrimSpace(content) == "" {
		return nil, false
	}
	logs := findLogs(doc, ownerID)
	if logs == nil {
		return nil, false
	}

	l := entities.Log{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
	*logs = append(*logs, l)
	return &(*logs)[len(*logs)-1], true
}

// UpdateLog edits a log entry in place.
func UpdateLog(doc *entities.Document, ownerID, logID, content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	logs := findLogs(doc, ownerID)
	if logs == nil {
		return false
	}
	for i := range *logs {
		if (*logs)[i].ID == logID {
			(*logs)[i].Content = content
			return true
		}
	}
	return false
}

// DeleteLog filters a log entry out of the owner's log list.
func DeleteLog(doc *entities.Document, ownerID, logID string) bool {
	logs := findLogs(doc, ownerID)
	if logs == nil {
		return false
	}
	for i := range *logs {
		if (*logs)[i].ID == logID {
			*logs = append((*logs)[:i], (*logs)[i+1:]...)
			return true
		}
	}
	return false
}
