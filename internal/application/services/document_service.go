package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/soloplan/core/internal/application/persist"
	"github.com/soloplan/core/internal/domain/entities"
	"github.com/soloplan/core/internal/domain/mutate"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// DocumentService owns the in-memory document. All mutations go
// through it: they are applied synchronously under a lock, in the
// order issued, and each one schedules a debounced persist of the
// latest state. A persistence failure never rolls the in-memory state
// back.
type DocumentService struct {
	mu        sync.Mutex
	doc       *entities.Document
	repo      ports.DocumentRepository
	persister *persist.Debouncer
	logger    *logger.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(repo ports.DocumentRepository, persister *persist.Debouncer, logger *logger.Logger) *DocumentService {
	return &DocumentService{
		repo:      repo,
		persister: persister,
		logger:    logger,
	}
}

// Init loads (or seeds) the persisted document into memory.
func (s *DocumentService) Init(ctx context.Context) error {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize document state: %w", err)
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Document returns a deep copy of the current in-memory document.
func (s *DocumentService) Document() *entities.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDocument(s.doc)
}

// ApplyPatch merges the supplied top-level keys into the persisted
// document synchronously, then reloads the normalized result into
// memory. This is the POST /document path; keys absent from the patch
// are left unchanged. The reloaded state is rescheduled with the
// persister so a snapshot debounced before the patch cannot fire
// later and overwrite it.
func (s *DocumentService) ApplyPatch(ctx context.Context, patch ports.DocumentPatch) (*entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, patch); err != nil {
		return nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	s.scheduleSave()
	return cloneDocument(doc), nil
}

// Flush persists any pending state immediately. Called on shutdown.
func (s *DocumentService) Flush(ctx context.Context) error {
	return s.persister.Close(ctx)
}

// scheduleSave hands the latest state to the debounced persister.
// Must be called with the lock held; the snapshot is deep-copied so
// later mutations cannot race the in-flight write.
func (s *DocumentService) scheduleSave() {
	snapshot := cloneDocument(s.doc)
	s.persister.Schedule(ports.FullPatch(snapshot))
}

// Project operations

func (s *DocumentService) CreateProject(req ports.CreateProjectRequest) *entities.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := mutate.CreateProject(s.doc, req.Name, req.Description, req.Status, req.Priority, req.CategoryIDs, req.CategoryID)
	s.logger.Infow("Project created", "project_id", p.ID, "name", p.Name)
	s.scheduleSave()
	return clone(p)
}

func (s *DocumentService) UpdateProject(id string, req ports.UpdateProjectRequest) (*entities.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := mutate.UpdateProject(s.doc, id, mutate.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CategoryIDs: req.CategoryIDs,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(p), nil
}

func (s *DocumentService) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteProject(s.doc, id); err != nil {
		return err
	}
	s.logger.Infow("Project deleted", "project_id", id)
	s.scheduleSave()
	return nil
}

// Note operations

func (s *DocumentService) AddNote(projectID string, req ports.CreateNoteRequest) (*entities.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := mutate.AddNote(s.doc, projectID, req.Title, req.Content, req.ParentID)
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(n), nil
}

func (s *DocumentService) UpdateNote(projectID, noteID string, req ports.UpdateNoteRequest) (*entities.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := mutate.UpdateNote(s.doc, projectID, noteID, mutate.NoteUpdate{
		Title:       req.Title,
		Content:     req.Content,
		ParentID:    req.ParentID,
		IsCollapsed: req.IsCollapsed,
		IsMain:      req.IsMain,
	})
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(n), nil
}

func (s *DocumentService) DeleteNote(projectID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteNote(s.doc, projectID, noteID); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

// Task operations

func (s *DocumentService) CreateTask(req ports.CreateTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := mutate.CreateTask(s.doc, mutate.TaskDraft{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Link:        req.Link,
		Subtasks:    subtaskDrafts(req.Subtasks),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("Task created", "task_id", t.ID, "project_id", t.ProjectID, "title", t.Title)
	s.scheduleSave()
	return clone(t), nil
}

func (s *DocumentService) UpdateTask(id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upd := mutate.TaskUpdate{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		Link:        req.Link,
	}
	if req.Subtasks != nil {
		drafts := subtaskDrafts(*req.Subtasks)
		upd.Subtasks = &drafts
	}

	t, err := mutate.UpdateTask(s.doc, id, upd)
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(t), nil
}

func (s *DocumentService) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteTask(s.doc, id); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

// Subtask operations. Each returns the affected subtask id so the UI
// can focus newly created rows.

func (s *DocumentService) AddSubtask(taskID string, req ports.AddSubtaskRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := mutate.AddSubtask(s.doc, taskID, req.Title, req.StoryPoints)
	if err != nil {
		return "", err
	}
	s.scheduleSave()
	return id, nil
}

func (s *DocumentService) UpdateSubtask(taskID, subtaskID string, req ports.UpdateSubtaskRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := mutate.UpdateSubtask(s.doc, taskID, subtaskID, mutate.SubtaskUpdate{
		Title:       req.Title,
		Completed:   req.Completed,
		StoryPoints: req.StoryPoints,
	})
	if err != nil {
		return "", err
	}
	s.scheduleSave()
	return id, nil
}

func (s *DocumentService) RemoveSubtask(taskID, subtaskID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := mutate.RemoveSubtask(s.doc, taskID, subtaskID)
	if err != nil {
		return "", err
	}
	s.scheduleSave()
	return id, nil
}

// Log operations. Acting on a nonexistent owner or log is tolerated
// with a warning, not an error.

func (s *DocumentService) AddLog(ownerID, content string) (*entities.Log, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := mutate.AddLog(s.doc, ownerID, content)
	if !ok {
		s.logger.Warnw("Ignoring log append for unknown owner", "owner_id", ownerID)
		return nil, false
	}
	s.scheduleSave()
	return clone(l), true
}

func (s *DocumentService) UpdateLog(ownerID, logID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !mutate.UpdateLog(s.doc, ownerID, logID, content) {
		s.logger.Warnw("Ignoring log edit for unknown owner or log", "owner_id", ownerID, "log_id", logID)
		return false
	}
	s.scheduleSave()
	return true
}

func (s *DocumentService) DeleteLog(ownerID, logID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !mutate.DeleteLog(s.doc, ownerID, logID) {
		s.logger.Warnw("Ignoring log delete for unknown owner or log", "owner_id", ownerID, "log_id", logID)
		return false
	}
	s.scheduleSave()
	return true
}

// Quick task operations

func (s *DocumentService) CreateQuickTask(req ports.CreateQuickTaskRequest) *entities.QuickTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := mutate.CreateQuickTask(s.doc, mutate.QuickTaskDraft{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Priority:    req.Priority,
		Status:      req.Status,
		Link:        req.Link,
	})
	s.scheduleSave()
	return clone(q)
}

func (s *DocumentService) UpdateQuickTask(id string, req ports.UpdateQuickTaskRequest) (*entities.QuickTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := mutate.UpdateQuickTask(s.doc, id, mutate.QuickTaskUpdate{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Priority:    req.Priority,
		Status:      req.Status,
		IsDone:      req.IsDone,
		Link:        req.Link,
	})
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(q), nil
}

func (s *DocumentService) DeleteQuickTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteQuickTask(s.doc, id); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

// Category operations

func (s *DocumentService) CreateCategory(req ports.CreateCategoryRequest) *entities.ProjectCategory {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := mutate.CreateCategory(s.doc, req.Name, req.Color)
	s.scheduleSave()
	return clone(c)
}

func (s *DocumentService) UpdateCategory(id string, req ports.UpdateCategoryRequest) (*entities.ProjectCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := mutate.UpdateCategory(s.doc, id, mutate.CategoryUpdate{Name: req.Name, Color: req.Color})
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(c), nil
}

func (s *DocumentService) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteCategory(s.doc, id); err != nil {
		return err
	}
	s.logger.Infow("Category deleted", "category_id", id)
	s.scheduleSave()
	return nil
}

// Personal todo operations

func (s *DocumentService) CreateTodoCategory(req ports.CreateTodoCategoryRequest) *entities.TodoCategory {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := mutate.CreateTodoCategory(s.doc, req.Name, req.Color)
	s.scheduleSave()
	return clone(c)
}

func (s *DocumentService) UpdateTodoCategory(id string, req ports.UpdateTodoCategoryRequest) (*entities.TodoCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := mutate.UpdateTodoCategory(s.doc, id, mutate.TodoCategoryUpdate{
		Name:  req.Name,
		Color: req.Color,
		Order: req.Order,
	})
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(c), nil
}

func (s *DocumentService) DeleteTodoCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteTodoCategory(s.doc, id); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

func (s *DocumentService) CreateTodo(req ports.CreateTodoRequest) *entities.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := mutate.CreateTodo(s.doc, req.Text, req.CategoryID, req.Link)
	s.scheduleSave()
	return clone(td)
}

func (s *DocumentService) UpdateTodo(id string, req ports.UpdateTodoRequest) (*entities.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td, err := mutate.UpdateTodo(s.doc, id, mutate.TodoUpdate{
		Text:       req.Text,
		CategoryID: req.CategoryID,
		Done:       req.Done,
		Notes:      req.Notes,
		Link:       req.Link,
	})
	if err != nil {
		return nil, err
	}
	s.scheduleSave()
	return clone(td), nil
}

func (s *DocumentService) DeleteTodo(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.DeleteTodo(s.doc, id); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

func (s *DocumentService) MoveTodoToActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.MoveTodoToActive(s.doc, id); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

func (s *DocumentService) MoveTodoToBacklog(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.MoveTodoToBacklog(s.doc, id); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

func (s *DocumentService) ReorderActiveTodos(req ports.ReorderActiveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate.ReorderActiveTodos(s.doc, req.TodoID, req.Position); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

// Scratchpad

func (s *DocumentService) UpdateScratchpad(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Scratchpad = content
	s.scheduleSave()
}

// helpers

func subtaskDrafts(inputs []ports.SubtaskInput) []mutate.SubtaskDraft {
	drafts := make([]mutate.SubtaskDraft, 0, len(inputs))
	for _, in := range inputs {
		drafts = append(drafts, mutate.SubtaskDraft{
			ID:          in.ID,
			Title:       in.Title,
			Completed:   in.Completed,
			StoryPoints: in.StoryPoints,
		})
	}
	return drafts
}

func cloneDocument(doc *entities.Document) *entities.Document {
	return clone(doc)
}

// clone deep-copies plain data via JSON. The document types are pure
// data; encoding them cannot fail.
func clone[T any](v T) T {
	data, _ := json.Marshal(v)
	var out T
	_ = json.Unmarshal(data, &out)
	return out
}
