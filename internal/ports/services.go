package ports

import (
	"github.com/soloplan/core/internal/domain/entities"
)

// Request/Response Types
//
// Validation happens at the HTTP boundary, before any mutator is
// invoked: a request that fails validation never touches the document.

// Project related types
type CreateProjectRequest struct {
	Name        string                 `json:"name" validate:"required,max=200"`
	Description string                 `json:"description" validate:"omitempty,max=2000"`
	Status      entities.ProjectStatus `json:"status" validate:"omitempty"`
	Priority    *int                   `json:"priority" validate:"omitempty,min=1"`
	CategoryIDs []string               `json:"categoryIds"`
	CategoryID  string                 `json:"categoryId"`
}

type UpdateProjectRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,max=200"`
	Description *string                 `json:"description" validate:"omitempty,max=2000"`
	Status      *entities.ProjectStatus `json:"status" validate:"omitempty"`
	Priority    *int                    `json:"priority" validate:"omitempty,min=1"`
	CategoryIDs *[]string               `json:"categoryIds"`
	CategoryID  *string                 `json:"categoryId"`
}

// Note related types
type CreateNoteRequest struct {
	Title    string `json:"title" validate:"omitempty,max=300"`
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}

type UpdateNoteRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=300"`
	Content     *string `json:"content"`
	ParentID    *string `json:"parentId"`
	IsCollapsed *bool   `json:"isCollapsed"`
	IsMain      *bool   `json:"isMain"`
}

// Task related types
type SubtaskInput struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=500"`
	Completed   bool   `json:"completed"`
	StoryPoints int    `json:"storyPoints" validate:"omitempty,min=0"`
}

type CreateTaskRequest struct {
	ProjectID   string                `json:"projectId" validate:"required"`
	Title       string                `json:"title" validate:"required,max=500"`
	Description string                `json:"description" validate:"omitempty,max=5000"`
	Status      entities.TaskStatus   `json:"status" validate:"omitempty"`
	Priority    entities.TaskPriority `json:"priority" validate:"omitempty"`
	Deadline    int64                 `json:"deadline" validate:"omitempty,min=0"`
	Link        string                `json:"link" validate:"omitempty,max=2000"`
	Subtasks    []SubtaskInput        `json:"subtasks"`
}

type UpdateTaskRequest struct {
	ProjectID   *string                `json:"projectId"`
	Title       *string                `json:"title" validate:"omitempty,max=500"`
	Description *string                `json:"description" validate:"omitempty,max=5000"`
	Status      *entities.TaskStatus   `json:"status" validate:"omitempty"`
	Priority    *entities.TaskPriority `json:"priority" validate:"omitempty"`
	Deadline    *int64                 `json:"deadline" validate:"omitempty,min=0"`
	Link        *string                `json:"link" validate:"omitempty,max=2000"`
	Subtasks    *[]SubtaskInput        `json:"subtasks"`
}

type AddSubtaskRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	StoryPoints int    `json:"storyPoints" validate:"omitempty,min=0"`
}

type UpdateSubtaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=500"`
	Completed   *bool   `json:"completed"`
	StoryPoints *int    `json:"storyPoints" validate:"omitempty,min=0"`
}

// Log related types
type AddLogRequest struct {
	Content string `json:"content" validate:"required"`
}

type UpdateLogRequest struct {
	Content string `json:"content" validate:"required"`
}

// Quick task related types
type CreateQuickTaskRequest struct {
	ProjectID   string                `json:"projectId"`
	Title       string                `json:"title" validate:"omitempty,max=500"`
	Description string                `json:"description" validate:"omitempty,max=5000"`
	Points      int                   `json:"points" validate:"omitempty,min=1,max=5"`
	Priority    entities.TaskPriority `json:"priority" validate:"omitempty"`
	Status      entities.TaskStatus   `json:"status" validate:"omitempty"`
	Link        string                `json:"link" validate:"omitempty,max=2000"`
}

type UpdateQuickTaskRequest struct {
	ProjectID   *string                `json:"projectId"`
	Title       *string                `json:"title" validate:"omitempty,max=500"`
	Description *string                `json:"description" validate:"omitempty,max=5000"`
	Points      *int                   `json:"points" validate:"omitempty,min=1,max=5"`
	Priority    *entities.TaskPriority `json:"priority" validate:"omitempty"`
	Status      *entities.TaskStatus   `json:"status" validate:"omitempty"`
	IsDone      *bool                  `json:"isDone"`
	Link        *string                `json:"link" validate:"omitempty,max=2000"`
}

// Category related types
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=50"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Color *string `json:"color" validate:"omitempty,max=50"`
}

// Personal todo related types
type CreateTodoCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=50"`
}

type UpdateTodoCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Color *string `json:"color" validate:"omitempty,max=50"`
	Order *int    `json:"order" validate:"omitempty,min=0"`
}

type CreateTodoRequest struct {
	Text       string `json:"text" validate:"required,max=1000"`
	CategoryID string `json:"categoryId"`
	Link       string `json:"link" validate:"omitempty,max=2000"`
}

type UpdateTodoRequest struct {
	Text       *string `json:"text" validate:"omitempty,max=1000"`
	CategoryID *string `json:"categoryId"`
	Done       *bool   `json:"done"`
	Notes      *string `json:"notes"`
	Link       *string `json:"link" validate:"omitempty,max=2000"`
}

type ReorderActiveRequest struct {
	TodoID   string `json:"todoId" validate:"required"`
	Position int    `json:"position" validate:"min=0"`
}

type UpdateScratchpadRequest struct {
	Content string `json:"content"`
}

// Report types
type ProjectReport struct {
	ProjectID       string                      `json:"projectId"`
	ProjectName     string                      `json:"projectName"`
	Status          entities.ProjectStatus      `json:"status"`
	TasksByStatus   map[entities.TaskStatus]int `json:"tasksByStatus"`
	TotalPoints     int                         `json:"totalPoints"`
	CompletedPoints int                         `json:"completedPoints"`
	QuickTasks      int                         `json:"quickTasks"`
	LogEntries      int                         `json:"logEntries"`
}

// Response types for common structures
type IDResponse struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
