package mutate

import (
	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// SubtaskDraft describes a subtask supplied as part of a task create
// or update.
type SubtaskDraft struct {
	ID          string
	Title       string
	Completed   bool
	StoryPoints int
}

// TaskDraft describes a task to create.
type TaskDraft struct {
	ProjectID   string
	Title       string
	Description string
	Status      entities.TaskStatus
	Priority    entities.TaskPriority
	Deadline    int64
	Link        string
	Subtasks    []SubtaskDraft
}

// TaskUpdate carries the fields an update may change. There is
// deliberately no StoryPoints field: the value is derived from
// subtasks and a caller can never overwrite it independently.
type TaskUpdate struct {
	ProjectID   *string
	Title       *string
	Description *string
	Status      *entities.TaskStatus
	Priority    *entities.TaskPriority
	Deadline    *int64
	Link        *string
	Subtasks    *[]SubtaskDraft
}

// SubtaskUpdate carries the fields a subtask update may change.
type SubtaskUpdate struct {
	Title       *string
	Completed   *bool
	StoryPoints *int
}

// CreateTask appends a new task to the document. When subtasks are
// supplied, StoryPoints is computed from them.
func CreateTask(doc *entities.Document, draft TaskDraft) (*entities.Task, error) {
	if doc.FindProject(draft.ProjectID) == nil {
		return nil, entities.ErrProjectNotFound
	}

	if !draft.Status.IsValid() {
		draft.Status = entities.TaskStatusTodo
	}
	if !draft.Priority.IsValid() {
		draft.Priority = entities.TaskPriorityMedium
	}

	t := entities.Task{
		ID:          uuid.NewString(),
		ProjectID:   draft.ProjectID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		Deadline:    draft.Deadline,
		Link:        draft.Link,
		Subtasks:    buildSubtasks(draft.Subtasks),
		Logs:        []entities.Log{},
	}
	t.RecalcStoryPoints()

	doc.Tasks = append(doc.Tasks, t)
	return &doc.Tasks[len(doc.Tasks)-1], nil
}

// UpdateTask shallow-merges the supplied fields onto the task. When
// subtasks are part of the update they replace the existing list and
// StoryPoints is recomputed from them.
func UpdateTask(doc *entities.Document, id string, upd TaskUpdate) (*entities.Task, error) {
	t := doc.FindTask(id)
	if t == nil {
		return nil, entities.ErrTaskNotFound
	}

	if upd.ProjectID != nil && doc.FindProject(*upd.ProjectID) != nil {
		t.ProjectID = *upd.ProjectID
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Status != nil && upd.Status.IsValid() {
		t.Status = *upd.Status
	}
	if upd.Priority != nil && upd.Priority.IsValid() {
		t.Priority = *upd.Priority
	}
	if upd.Deadline != nil {
		t.Deadline = *upd.Deadline
	}
	if upd.Link != nil {
		t.Link = *upd.Link
	}
	if upd.Subtasks != nil {
		t.Subtasks = buildSubtasks(*upd.Subtasks)
	}
	t.RecalcStoryPoints()

	return t, nil
}

// DeleteTask removes the task from the document.
func DeleteTask(doc *entities.Document, id string) error {
	if doc.FindTask(id) == nil {
		return entities.ErrTaskNotFound
	}
	tasks := doc.Tasks[:0]
	for _, t := range doc.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	doc.Tasks = tasks
	return nil
}

// AddSubtask appends a subtask, recomputes the parent's StoryPoints
// and returns the new subtask's id so callers can focus the row.
func AddSubtask(doc *entities.Document, taskID, title string, storyPoints int) (string, error) {
	t := doc.FindTask(taskID)
	if t == nil {
		return "", entities.ErrTaskNotFound
	}

	st := entities.Subtask{
		ID:          uuid.NewString(),
		Title:       title,
		StoryPoints: storyPoints,
	}
	t.Subtasks = append(t.Subtasks, st)
	t.RecalcStoryPoints()
	return st.ID, nil
}

// UpdateSubtask shallow-merges the supplied fields onto a subtask,
// recomputes the parent's StoryPoints and returns the subtask id.
func UpdateSubtask(doc *entities.Document, taskID, subtaskID string, upd SubtaskUpdate) (string, error) {
	t := doc.FindTask(taskID)
	if t == nil {
		return "", entities.ErrTaskNotFound
	}
	st := t.FindSubtask(subtaskID)
	if st == nil {
		return "", entities.ErrTaskNotFound
	}

	if upd.Title != nil {
		st.Title = *upd.Title
	}
	if upd.Completed != nil {
		st.Completed = *upd.Completed
	}
	if upd.StoryPoints != nil {
		st.StoryPoints = *upd.StoryPoints
	}
	t.RecalcStoryPoints()
	return st.ID, nil
}

// RemoveSubtask deletes a subtask and recomputes the parent's
// StoryPoints. The removed subtask's id is returned.
func RemoveSubtask(doc *entities.Document, taskID, subtaskID string) (string, error) {
	t := doc.FindTask(taskID)
	if t == nil {
		return "", entities.ErrTaskNotFound
	}
	if t.FindSubtask(subtaskID) == nil {
		return "", entities.ErrTaskNotFound
	}

	subtasks := t.Subtasks[:0]
	for _, st := range t.Subtasks {
		if st.ID != subtaskID {
			subtasks = append(subtasks, st)
		}
	}
	t.Subtasks = subtasks
	t.RecalcStoryPoints()
	return subtaskID, nil
}

func buildSubtasks(drafts []SubtaskDraft) []entities.Subtask {
	out := make([]entities.Subtask, 0, len(drafts))
	for _, d := range drafts {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		points := d.StoryPoints
		if points < 0 {
			points = 0
		}
		out = append(out, entities.Subtask{
			ID:          id,
			Title:       d.Title,
			Completed:   d.Completed,
			StoryPoints: points,
		})
	}
	return out
}
