package mutate

import (
	"github.com/google/uuid"

	"github.com/soloplan/core/internal/domain/entities"
)

// NoteUpdate carries the note fields an update may change.
type NoteUpdate struct {
	Title       *string
	Content     *string
	ParentID    *string
	IsCollapsed *bool
	IsMain      *bool
}

// AddNote appends a note to the project's note tree and returns it.
// The first note of a project becomes the main note.
func AddNote(doc *entities.Document, projectID, title, content, parentID string) (*entities.Note, error) {
	p := doc.FindProject(projectID)
	if p == nil {
		return nil, entities.ErrProjectNotFound
	}

	n := entities.Note{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		ParentID: parentID,
		IsMain:   len(p.Notes) == 0,
	}
	p.Notes = append(p.Notes, n)
	return &p.Notes[len(p.Notes)-1], nil
}

// UpdateNote shallow-merges the supplied fields onto a note. Setting
// IsMain clears the flag on every other note of the project.
func UpdateNote(doc *entities.Document, projectID, noteID string, upd NoteUpdate) (*entities.Note, error) {
	p := doc.FindProject(projectID)
	if p == nil {
		return nil, entities.ErrProjectNotFound
	}

	var note *entities.Note
	for i := range p.Notes {
		if p.Notes[i].ID == noteID {
			note = &p.Notes[i]
			break
		}
	}
	if note == nil {
		return nil, entities.ErrNoteNotFound
	}

	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
	}
	if upd.ParentID != nil {
		note.ParentID = *upd.ParentID
	}
	if upd.IsCollapsed != nil {
		note.IsCollapsed = *upd.IsCollapsed
	}
	if upd.IsMain != nil && *upd.IsMain {
		for i := range p.Notes {
			p.Notes[i].IsMain = p.Notes[i].ID == noteID
		}
	}

	return note, nil
}

// DeleteNote removes a note and its descendants from the project.
func DeleteNote(doc *entities.Document, projectID, noteID string) error {
	p := doc.FindProject(projectID)
	if p == nil {
		return entities.ErrProjectNotFound
	}

	found := false
	for i := range p.Notes {
		if p.Notes[i].ID == noteID {
			found = true
			break
		}
	}
	if !found {
		return entities.ErrNoteNotFound
	}

	doomed := map[string]bool{noteID: true}
	// Fixed point over the tree: children of doomed notes are doomed.
	for changed := true; changed; {
		changed = false
		for _, n := range p.Notes {
			if !doomed[n.ID] && n.ParentID != "" && doomed[n.ParentID] {
				doomed[n.ID] = true
				changed = true
			}
		}
	}

	notes := p.Notes[:0]
	for _, n := range p.Notes {
		if !doomed[n.ID] {
			notes = append(notes, n)
		}
	}
	p.Notes = notes
	return nil
}
