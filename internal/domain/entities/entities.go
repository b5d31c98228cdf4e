package entities

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrQuickTaskNotFound    = errors.New("quick task not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrTodoNotFound         = errors.New("todo not found")
	ErrTodoCategoryNotFound = errors.New("todo category not found")
	ErrDefaultCategory      = errors.New("default category cannot be deleted")
	ErrInvalidStatus        = errors.New("invalid status")
)

// DefaultCategoryID is the reserved, undeletable project category.
// Projects that would otherwise end up without a category fall back to it.
const DefaultCategoryID = "cat-default"

// DefaultProjectPriority is the priority assigned to new projects.
// Lower value means more important.
const DefaultProjectPriority = 4

// Quick task points are conventionally clamped to this range.
const (
	MinPoints = 1
	MaxPoints = 5
)

// Enums and types
type ProjectStatus string

const (
	ProjectStatusBacklog    ProjectStatus = "Backlog"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusDone       ProjectStatus = "Done"
	ProjectStatusArchived   ProjectStatus = "Archived"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type TodoStatus string

const (
	TodoStatusBacklog TodoStatus = "backlog"
	TodoStatusActive  TodoStatus = "active"
)

// Document is the single JSON-serializable object holding all
// application state. It is read and rewritten wholesale on every
// change; there is no partial persistence below the top-level keys.
type Document struct {
	Projects      []Project         `json:"projects"`
	Tasks         []Task            `json:"tasks"`
	QuickTasks    []QuickTask       `json:"quickTasks"`
	Categories    []ProjectCategory `json:"categories"`
	PersonalTodos PersonalTodos     `json:"personalTodos"`
	Scratchpad    string            `json:"scratchpad"`
}

// Project represents a project on the board.
//
// CategoryIDs is canonical and never empty; CategoryID is the legacy
// single-category field older documents used and is always kept equal
// to CategoryIDs[0].
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Priority    int           `json:"priority"`
	CategoryID  string        `json:"categoryId"`
	CategoryIDs []string      `json:"categoryIds"`
	Notes       []Note        `json:"notes"`
}

// Note is a rich-text note attached to a project. Notes form a tree
// via ParentID. At most one note per project carries IsMain.
type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ParentID    string `json:"parentId,omitempty"`
	IsCollapsed bool   `json:"isCollapsed,omitempty"`
	IsMain      bool   `json:"isMain,omitempty"`
}

// Task represents a task in a project.
//
// StoryPoints is derived: it always equals the sum of the subtask
// story points and is recomputed by every mutation that touches
// subtasks. A caller-supplied value is never trusted when subtasks
// are part of the same update.
type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Deadline    int64        `json:"deadline,omitempty"`
	Link        string       `json:"link"`
	StoryPoints int          `json:"storyPoints"`
	Subtasks    []Subtask    `json:"subtasks"`
	Logs        []Log        `json:"logs"`
}

// Subtask is a unit of work inside a task. Points are conventionally
// 1-5 but the data layer does not enforce the range.
type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Completed   bool   `json:"completed"`
	StoryPoints int    `json:"storyPoints"`
}

// QuickTask is a lightweight task variant used for fast capture. It
// has no subtasks; Points plays the role StoryPoints plays on Task.
type QuickTask struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Points      int          `json:"points"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	IsDone      bool         `json:"isDone"`
	Link        string       `json:"link"`
	Logs        []Log        `json:"logs"`
}

// Log is a timestamped free-form entry attached to a task, quick task
// or personal todo.
type Log struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// ProjectCategory groups projects on the board.
type ProjectCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PersonalTodos is the personal todo domain, independent of projects.
// ActiveOrder defines the display order of active todos and is state in
// its own right: it must stay pruned of stale ids whenever todos are
// removed or demoted.
type PersonalTodos struct {
	Categories  []TodoCategory `json:"categories"`
	Todos       []TodoItem     `json:"todos"`
	ActiveOrder []string       `json:"activeOrder"`
}

// TodoCategory groups personal todos.
type TodoCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// TodoItem is a personal todo.
type TodoItem struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	CategoryID string     `json:"categoryId"`
	Status     TodoStatus `json:"status"`
	Done       bool       `json:"done"`
	CreatedAt  int64      `json:"createdAt"`
	Notes      string     `json:"notes"`
	Link       string     `json:"link,omitempty"`
	Logs       []Log      `json:"logs"`
}

// Business logic methods for Project

// SyncCategories enforces the category invariant: CategoryIDs is
// non-empty and CategoryID mirrors CategoryIDs[0]. When CategoryIDs is
// empty the legacy CategoryID is promoted, falling back to the default
// category.
func (p *Project) SyncCategories() {
	if len(p.CategoryIDs) == 0 {
		if p.CategoryID != "" {
			p.CategoryIDs = []string{p.CategoryID}
		} else {
			p.CategoryIDs = []string{DefaultCategoryID}
		}
	}
	p.CategoryID = p.CategoryIDs[0]
}

// HasCategory reports whether the project references the category.
func (p *Project) HasCategory(categoryID string) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// MainNote returns the note to display for the project: the one
// flagged IsMain, else the first top-level note, else the first note
// overall. Returns nil when the project has no notes.
func (p *Project) MainNote() *Note {
	for i := range p.Notes {
		if p.Notes[i].IsMain {
			return &p.Notes[i]
		}
	}
	for i := range p.Notes {
		if p.Notes[i].ParentID == "" {
			return &p.Notes[i]
		}
	}
	if len(p.Notes) > 0 {
		return &p.Notes[0]
	}
	return nil
}

// Business logic methods for Task

// RecalcStoryPoints recomputes the derived StoryPoints field as the
// sum of the current subtask points.
func (t *Task) RecalcStoryPoints() {
	total := 0
	for _, st := range t.Subtasks {
		total += st.StoryPoints
	}
	t.StoryPoints = total
}

// FindSubtask returns a pointer to the subtask with the given id, or
// nil if the task has no such subtask.
func (t *Task) FindSubtask(id string) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// CompletedPoints returns the summed points of completed subtasks.
func (t *Task) CompletedPoints() int {
	total := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			total += st.StoryPoints
		}
	}
	return total
}

// Business logic methods for QuickTask

// AsTask converts the quick task to the Task shape so it can flow
// through aggregation and reporting logic shared with regular tasks:
// zero subtasks, Points mapped onto StoryPoints.
func (q *QuickTask) AsTask() Task {
	return Task{
		ID:          q.ID,
		ProjectID:   q.ProjectID,
		Title:       q.Title,
		Description: q.Description,
		Status:      q.Status,
		Priority:    q.Priority,
		Link:        q.Link,
		StoryPoints: q.Points,
		Subtasks:    []Subtask{},
		Logs:        q.Logs,
	}
}

// DisplayTitle derives the quick task title: trimmed title, else
// trimmed description, else a literal placeholder.
func (q *QuickTask) DisplayTitle() string {
	if t := strings.TrimSpace(q.Title); t != "" {
		return t
	}
	if d := strings.TrimSpace(q.Description); d != "" {
		return d
	}
	return "Quick task"
}

// Business logic methods for PersonalTodos

// FindTodo returns a pointer to the todo with the given id, or nil.
func (pt *PersonalTodos) FindTodo(id string) *TodoItem {
	for i := range pt.Todos {
		if pt.Todos[i].ID == id {
			return &pt.Todos[i]
		}
	}
	return nil
}

// FindCategory returns a pointer to the todo category with the given
// id, or nil.
func (pt *PersonalTodos) FindCategory(id string) *TodoCategory {
	for i := range pt.Categories {
		if pt.Categories[i].ID == id {
			return &pt.Categories[i]
		}
	}
	return nil
}

// SyncActiveOrder rebuilds ActiveOrder so it contains exactly the ids
// of active todos: stale, dangling and duplicate ids are dropped, and
// active todos missing from the list are appended in collection order.
func (pt *PersonalTodos) SyncActiveOrder() {
	active := make(map[string]bool, len(pt.Todos))
	for _, td := range pt.Todos {
		if td.Status == TodoStatusActive {
			active[td.ID] = true
		}
	}

	order := make([]string, 0, len(active))
	seen := make(map[string]bool, len(active))
	for _, id := range pt.ActiveOrder {
		if active[id] && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, td := range pt.Todos {
		if td.Status == TodoStatusActive && !seen[td.ID] {
			order = append(order, td.ID)
			seen[td.ID] = true
		}
	}
	pt.ActiveOrder = order
}

// Document lookup helpers

// FindProject returns a pointer to the project with the given id.
func (d *Document) FindProject(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// FindTask returns a pointer to the task with the given id.
func (d *Document) FindTask(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// FindQuickTask returns a pointer to the quick task with the given id.
func (d *Document) FindQuickTask(id string) *QuickTask {
	for i := range d.QuickTasks {
		if d.QuickTasks[i].ID == id {
			return &d.QuickTasks[i]
		}
	}
	return nil
}

// FindCategory returns a pointer to the project category with the
// given id.
func (d *Document) FindCategory(id string) *ProjectCategory {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// ProjectTasks returns the tasks belonging to the project.
func (d *Document) ProjectTasks(projectID string) []Task {
	var tasks []Task
	for _, t := range d.Tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Utility methods
func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusBacklog, ProjectStatusInProgress, ProjectStatusDone, ProjectStatusArchived:
		return true
	default:
		return false
	}
}

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (tp TaskPriority) IsValid() bool {
	switch tp {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

func (ts TodoStatus) IsValid() bool {
	switch ts {
	case TodoStatusBacklog, TodoStatusActive:
		return true
	default:
		return false
	}
}
