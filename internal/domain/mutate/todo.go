package mutate

import (
	"time"

	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// TodoCategoryUpdate carries the fields a todo category update may
// change.
type TodoCategoryUpdate struct {
	Name  *string
	Color *string
	Order *int
}

// TodoUpdate carries the fields a todo update may change.
type TodoUpdate struct {
	Text       *string
	CategoryID *string
	Done       *bool
	Notes      *string
	Link       *string
}

// CreateTodoCategory appends a personal todo category and returns it.
func CreateTodoCategory(doc *entities.Document, name, color string) *entities.TodoCategory {
	pt := &doc.PersonalTodos
	c := entities.TodoCategory{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
		Order: len(pt.Categories),
	}
	pt.Categories = append(pt.Categories, c)
	return &pt.Categories[len(pt.Categories)-1]
}

// UpdateTodoCategory shallow-merges the supplied fields onto the
// category.
func UpdateTodoCategory(doc *entities.Document, id string, upd TodoCategoryUpdate) (*entities.TodoCategory, error) {
	c := doc.PersonalTodos.FindCategory(id)
	if c == nil {
		return nil, entities.ErrTodoCategoryNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Color != nil {
		c.Color = *upd.Color
	}
	if upd.Order != nil {
		c.Order = *upd.Order
	}
	return c, nil
}

// DeleteTodoCategory removes the category and cascades deletion to its
// todos, keeping ActiveOrder consistent.
func DeleteTodoCategory(doc *entities.Document, id string) error {
	pt := &doc.PersonalTodos
	if pt.FindCategory(id) == nil {
		return entities.ErrTodoCategoryNotFound
	}

	categories := pt.Categories[:0]
	for _, c := range pt.Categories {
		if c.ID != id {
			categories = append(categories, c)
		}
	}
	pt.Categories = categories

	todos := pt.Todos[:0]
	for _, td := range pt.Todos {
		if td.CategoryID != id {
			todos = append(todos, td)
		}
	}
	pt.Todos = todos
	pt.SyncActiveOrder()
	return nil
}

// CreateTodo appends a backlog todo. An unknown category id falls back
// to the first category.
func CreateTodo(doc *entities.Document, text, categoryID, link string) *entities.TodoItem {
	pt := &doc.PersonalTodos
	if pt.FindCategory(categoryID) == nil && len(pt.Categories) > 0 {
		categoryID = pt.Categories[0].ID
	}

	td := entities.TodoItem{
		ID:         uuid.NewString(),
		Text:       text,
		CategoryID: categoryID,
		Status:     entities.TodoStatusBacklog,
		CreatedAt:  time.Now().UnixMilli(),
		Link:       link,
		Logs:       []entities.Log{},
	}
	pt.Todos = append(pt.Todos, td)
	return &pt.Todos[len(pt.Todos)-1]
}

// UpdateTodo shallow-merges the supplied fields onto the todo.
func UpdateTodo(doc *entities.Document, id string, upd TodoUpdate) (*entities.TodoItem, error) {
	td := doc.PersonalTodos.FindTodo(id)
	if td == nil {
		return nil, entities.ErrTodoNotFound
	}

	if upd.Text != nil {
		td.Text = *upd.Text
	}
	if upd.CategoryID != nil && doc.PersonalTodos.FindCategory(*upd.CategoryID) != nil {
		td.CategoryID = *upd.CategoryID
	}
	if upd.Done != nil {
		td.Done = *upd.Done
	}
	if upd.Notes != nil {
		td.Notes = *upd.Notes
	}
	if upd.Link != nil {
		td.Link = *upd.Link
	}
	return td, nil
}

// DeleteTodo removes the todo and prunes its id from ActiveOrder.
func DeleteTodo(doc *entities.Document, id string) error {
	pt := &doc.PersonalTodos
	if pt.FindTodo(id) == nil {
		return entities.ErrTodoNotFound
	}

	todos := pt.Todos[:0]
	for _, td := range pt.Todos {
		if td.ID != id {
			todos = append(todos, td)
		}
	}
	pt.Todos = todos
	pt.SyncActiveOrder()
	return nil
}

// MoveTodoToActive promotes a todo to active and prepends its id to
// ActiveOrder, removing any stale occurrence first.
func MoveTodoToActive(doc *entities.Document, id string) error {
	pt := &doc.PersonalTodos
	td := pt.FindTodo(id)
	if td == nil {
		return entities.ErrTodoNotFound
	}

	td.Status = entities.TodoStatusActive

	order := make([]string, 0, len(pt.ActiveOrder)+1)
	order = append(order, id)
	for _, oid := range pt.ActiveOrder {
		if oid != id {
			order = append(order, oid)
		}
	}
	pt.ActiveOrder = order
	pt.SyncActiveOrder()
	return nil
}

// MoveTodoToBacklog demotes a todo and removes its id from
// ActiveOrder.
func MoveTodoToBacklog(doc *entities.Document, id string) error {
	pt := &doc.PersonalTodos
	td := pt.FindTodo(id)
	if td == nil {
		return entities.ErrTodoNotFound
	}

	td.Status = entities.TodoStatusBacklog
	pt.SyncActiveOrder()
	return nil
}

// ReorderActiveTodos splices the todo's id to the given position in
// ActiveOrder without introducing duplicates. Positions beyond the end
// move the id to the end.
func ReorderActiveTodos(doc *entities.Document, id string, position int) error {
	pt := &doc.PersonalTodos
	td := pt.FindTodo(id)
	if td == nil || td.Status != entities.TodoStatusActive {
		return entities.ErrTodoNotFound
	}

	order := make([]string, 0, len(pt.ActiveOrder))
	for _, oid := range pt.ActiveOrder {
		if oid != id {
			order = append(order, oid)
		}
	}
	if position < 0 {
		position = 0
	}
	if position > len(order) {
		position = len(order)
	}
	order = append(order[:position], append([]string{id}, order[position:]...)...)
	pt.ActiveOrder = order
	pt.SyncActiveOrder()
	return nil
}
