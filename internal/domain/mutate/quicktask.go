package mutate

import (
	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// QuickTaskDraft describes a quick task to create.
type QuickTaskDraft struct {
	ProjectID   string
	Title       string
	Description string
	Points      int
	Priority    entities.TaskPriority
	Status      entities.TaskStatus
	Link        string
}

// QuickTaskUpdate carries the fields an update may change.
type QuickTaskUpdate struct {
	ProjectID   *string
	Title       *string
	Description *string
	Points      *int
	Priority    *entities.TaskPriority
	Status      *entities.TaskStatus
	IsDone      *bool
	Link        *string
}

// CreateQuickTask appends a quick task with the same defaulting the
// normalizer applies: points clamped, invalid priority/status replaced,
// title derived, done flag derived from status.
func CreateQuickTask(doc *entities.Document, draft QuickTaskDraft) *entities.QuickTask {
	if !draft.Priority.IsValid() {
		draft.Priority = entities.TaskPriorityLow
	}
	if !draft.Status.IsValid() {
		draft.Status = entities.TaskStatusTodo
	}

	q := entities.QuickTask{
		ID:          uuid.NewString(),
		ProjectID:   draft.ProjectID,
		Title:       draft.Title,
		Description: draft.Description,
		Points:      clampPoints(draft.Points),
		Priority:    draft.Priority,
		Status:      draft.Status,
		Link:        draft.Link,
		Logs:        []entities.Log{},
	}
	q.IsDone = q.Status == entities.TaskStatusDone
	q.Title = q.DisplayTitle()

	doc.QuickTasks = append(doc.QuickTasks, q)
	return &doc.QuickTasks[len(doc.QuickTasks)-1]
}

// UpdateQuickTask shallow-merges the supplied fields onto the quick
// task and re-derives the done flag and title.
func UpdateQuickTask(doc *entities.Document, id string, upd QuickTaskUpdate) (*entities.QuickTask, error) {
	q := doc.FindQuickTask(id)
	if q == nil {
		return nil, entities.ErrQuickTaskNotFound
	}

	if upd.ProjectID != nil {
		q.ProjectID = *upd.ProjectID
	}
	if upd.Title != nil {
		q.Title = *upd.Title
	}
	if upd.Description != nil {
		q.Description = *upd.Description
	}
	if upd.Points != nil {
		q.Points = clampPoints(*upd.Points)
	}
	if upd.Priority != nil && upd.Priority.IsValid() {
		q.Priority = *upd.Priority
	}
	if upd.Status != nil && upd.Status.IsValid() {
		q.Status = *upd.Status
	}
	if upd.IsDone != nil {
		q.IsDone = *upd.IsDone
	}
	q.IsDone = q.IsDone || q.Status == entities.TaskStatusDone
	q.Title = q.DisplayTitle()

	return q, nil
}

// DeleteQuickTask removes the quick task from the document.
func DeleteQuickTask(doc *entities.Document, id string) error {
	if doc.FindQuickTask(id) == nil {
		return entities.ErrQuickTaskNotFound
	}
	quickTasks := doc.QuickTasks[:0]
	for _, q := range doc.QuickTasks {
		if q.ID != id {
			quickTasks = append(quickTasks, q)
		}
	}
	doc.QuickTasks = quickTasks
	return nil
}

func clampPoints(n int) int {
	if n < entities.MinPoints {
		return entities.MinPoints
	}
	if n > entities.MaxPoints {
		return entities.MaxPoints
	}
	return n
}
