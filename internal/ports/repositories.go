package ports

import (
	"context"
	"errors"

	"github.com/soloplan/core/internal/domain/entities"
)

// ErrNotExist is returned by a BlobStore when no document has been
// persisted yet. It is not a failure: the repository reacts by seeding
// the store with the built-in initial data.
var ErrNotExist = errors.New("document blob does not exist")

// BlobStore is opaque storage for the single JSON document. Writes
// replace the whole blob; there is no partial update below this
// boundary.
type BlobStore interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// DocumentRepository loads and saves the application document,
// normalizing on every crossing of the storage boundary.
type DocumentRepository interface {
	// Load reads and normalizes the persisted document. A missing
	// blob seeds the store and returns the seed.
	Load(ctx context.Context) (*entities.Document, error)

	// Save merges the keys present in the patch over the current
	// persisted document (per-top-level-key, not deep), re-normalizes
	// and writes the result back in full.
	Save(ctx context.Context, patch DocumentPatch) error
}

// DocumentPatch carries zero or more top-level document keys. Nil
// fields are left untouched by Save.
type DocumentPatch struct {
	Projects      *[]entities.Project         `json:"projects,omitempty"`
	Tasks         *[]entities.Task            `json:"tasks,omitempty"`
	QuickTasks    *[]entities.QuickTask       `json:"quickTasks,omitempty"`
	Categories    *[]entities.ProjectCategory `json:"categories,omitempty"`
	PersonalTodos *entities.PersonalTodos     `json:"personalTodos,omitempty"`
	Scratchpad    *string                     `json:"scratchpad,omitempty"`
}

// IsEmpty reports whether the patch carries no keys at all.
func (p DocumentPatch) IsEmpty() bool {
	return p.Projects == nil && p.Tasks == nil && p.QuickTasks == nil &&
		p.Categories == nil && p.PersonalTodos == nil && p.Scratchpad == nil
}

// FullPatch returns a patch carrying every top-level key of the
// document, used when the whole in-memory state is persisted.
func FullPatch(doc *entities.Document) DocumentPatch {
	return DocumentPatch{
		Projects:      &doc.Projects,
		Tasks:         &doc.Tasks,
		QuickTasks:    &doc.QuickTasks,
		Categories:    &doc.Categories,
		PersonalTodos: &doc.PersonalTodos,
		Scratchpad:    &doc.Scratchpad,
	}
}
