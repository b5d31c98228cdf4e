package mutate

import (
	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// CategoryUpdate carries the fields a category update may change.
type CategoryUpdate struct {
	Name  *string
	Color *string
}

// CreateCategory appends a project category and returns it.
func CreateCategory(doc *entities.Document, name, color string) *entities.ProjectCategory {
	c := entities.ProjectCategory{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
	}
	doc.Categories = append(doc.Categories, c)
	return &doc.Categories[len(doc.Categories)-1]
}

// UpdateCategory shallow-merges the supplied fields onto the category.
func UpdateCategory(doc *entities.Document, id string, upd CategoryUpdate) (*entities.ProjectCategory, error) {
	c := doc.FindCategory(id)
	if c == nil {
		return nil, entities.ErrCategoryNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Color != nil {
		c.Color = *upd.Color
	}
	return c, nil
}

// DeleteCategory removes a category and cascades the removal of its id
// from every project's CategoryIDs. A project left without categories
// falls back to the default category. The default category itself is
// undeletable.
func DeleteCategory(doc *entities.Document, id string) error {
	if id == entities.DefaultCategoryID {
		return entities.ErrDefaultCategory
	}
	if doc.FindCategory(id) == nil {
		return entities.ErrCategoryNotFound
	}

	categories := doc.Categories[:0]
	for _, c := range doc.Categories {
		if c.ID != id {
			categories = append(categories, c)
		}
	}
	doc.Categories = categories

	for i := range doc.Projects {
		p := &doc.Projects[i]
		ids := p.CategoryIDs[:0]
		for _, cid := range p.CategoryIDs {
			if cid != id {
				ids = append(ids, cid)
			}
		}
		p.CategoryIDs = ids
		if len(p.CategoryIDs) == 0 {
			p.CategoryID = ""
		}
		p.SyncCategories()
	}

	return nil
}
