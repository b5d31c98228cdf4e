// Package mutate holds the entity mutators: each function applies one
// logical change to an in-memory document and recomputes the derived
// fields the change touches. Mutators depend on the data model only;
// persistence is the caller's concern.
package mutate

import (
	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// ProjectUpdate carries the fields an update may change. Nil fields
// are left untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *entities.ProjectStatus
	Priority    *int
	CategoryIDs *[]string
	CategoryID  *string
}

// CreateProject appends a new project with defaulted fields and a
// single auto-created "Main" note, and returns it.
func CreateProject(doc *entities.Document, name, description string, status entities.ProjectStatus, priority *int, categoryIDs []string, categoryID string) *entities.Project {
	if !status.IsValid() {
		status = entities.ProjectStatusBacklog
	}
	prio := entities.DefaultProjectPriority
	if priority != nil {
		prio = *priority
	}

	p := entities.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Status:      status,
		Priority:    prio,
		CategoryID:  categoryID,
		CategoryIDs: categoryIDs,
		Notes: []entities.Note{
			{
				ID:     uuid.NewString(),
				Title:  "Main",
				IsMain: true,
			},
		},
	}
	p.SyncCategories()

	doc.Projects = append(doc.Projects, p)
	return &doc.Projects[len(doc.Projects)-1]
}

// UpdateProject shallow-merges the supplied fields onto the project.
// Category fields follow a single derivation rule: whichever of
// CategoryIDs/CategoryID is supplied wins and the other is derived
// from it; when both are supplied CategoryIDs is canonical.
func UpdateProject(doc *entities.Document, id string, upd ProjectUpdate) (*entities.Project, error) {
	p := doc.FindProject(id)
	if p == nil {
		return nil, entities.ErrProjectNotFound
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Status != nil && upd.Status.IsValid() {
		p.Status = *upd.Status
	}
	if upd.Priority != nil {
		p.Priority = *upd.Priority
	}

	switch {
	case upd.CategoryIDs != nil:
		p.CategoryIDs = append([]string(nil), (*upd.CategoryIDs)...)
		p.CategoryID = ""
	case upd.CategoryID != nil:
		p.CategoryID = *upd.CategoryID
		p.CategoryIDs = nil
	}
	p.SyncCategories()

	return p, nil
}

// DeleteProject removes the project and cascades deletion to every
// task referencing it. Quick tasks and categories have independent
// lifecycles and are untouched.
func DeleteProject(doc *entities.Document, id string) error {
	if doc.FindProject(id) == nil {
		return entities.ErrProjectNotFound
	}

	projects := doc.Projects[:0]
	for _, p := range doc.Projects {
		if p.ID != id {
			projects = append(projects, p)
		}
	}
	doc.Projects = projects

	tasks := doc.Tasks[:0]
	for _, t := range doc.Tasks {
		if t.ProjectID != id {
			tasks = append(tasks, t)
		}
	}
	doc.Tasks = tasks

	return nil
}
