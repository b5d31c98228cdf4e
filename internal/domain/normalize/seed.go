package normalize

import "github.com/soloplan/core/internal/domain/entities"

const defaultCategoryColor = "#6b7280"

// Seed returns the built-in initial document used when no blob has
// been persisted yet.
func Seed() *entities.Document {
	return &entities.Document{
		Projects:   []entities.Project{},
		Tasks:      []entities.Task{},
		QuickTasks: []entities.QuickTask{},
		Categories: seedCategories(),
		PersonalTodos: entities.PersonalTodos{
			Categories:  seedTodoCategories(),
			Todos:       []entities.TodoItem{},
			ActiveOrder: []string{},
		},
		Scratchpad: "",
	}
}

func defaultCategory() entities.ProjectCategory {
	return entities.ProjectCategory{
		ID:    entities.DefaultCategoryID,
		Name:  "General",
		Color: defaultCategoryColor,
	}
}

func seedCategories() []entities.ProjectCategory {
	return []entities.ProjectCategory{defaultCategory()}
}

func seedTodoCategories() []entities.TodoCategory {
	return []entities.TodoCategory{
		{
			ID:    "todo-cat-general",
			Name:  "General",
			Color: defaultCategoryColor,
			Order: 0,
		},
	}
}
