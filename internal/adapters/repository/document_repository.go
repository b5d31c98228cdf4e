package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soloplan/core/internal/domain/entities"
	"github.com/soloplan/core/internal/domain/normalize"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// DocumentRepository reads and writes the whole document through a
// blob store, normalizing on every crossing of the boundary.
type DocumentRepository struct {
	store  ports.BlobStore
	logger *logger.Logger
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(store ports.BlobStore, logger *logger.Logger) *DocumentRepository {
	return &DocumentRepository{
		store:  store,
		logger: logger,
	}
}

// Load reads the persisted blob and normalizes it. A missing blob is
// not an error: the store is seeded with the built-in initial data,
// the seed is persisted and returned.
func (r *DocumentRepository) Load(ctx context.Context) (*entities.Document, error) {
	start := time.Now()
	data, err := r.store.Read(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotExist) {
			return r.seed(ctx)
		}
		r.logger.LogStorageOp("read", 0, time.Since(start).Seconds()*1000, err)
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	r.logger.LogStorageOp("read", len(data), time.Since(start).Seconds()*1000, nil)

	return normalize.Document(data), nil
}

// Save merges the keys present in the patch over the current persisted
// document and writes the result back in full. The merge is per
// top-level key, not deep: keys absent from the patch are left
// untouched. There is no retry; the caller decides what to do with a
// failure.
func (r *DocumentRepository) Save(ctx context.Context, patch ports.DocumentPatch) error {
	current, err := r.Load(ctx)
	if err != nil {
		return err
	}

	if patch.Projects != nil {
		current.Projects = *patch.Projects
	}
	if patch.Tasks != nil {
		current.Tasks = *patch.Tasks
	}
	if patch.QuickTasks != nil {
		current.QuickTasks = *patch.QuickTasks
	}
	if patch.Categories != nil {
		current.Categories = *patch.Categories
	}
	if patch.PersonalTodos != nil {
		current.PersonalTodos = *patch.PersonalTodos
	}
	if patch.Scratchpad != nil {
		current.Scratchpad = *patch.Scratchpad
	}

	return r.write(ctx, current)
}

func (r *DocumentRepository) seed(ctx context.Context) (*entities.Document, error) {
	doc := normalize.Seed()
	if err := r.write(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to seed document store: %w", err)
	}
	r.logger.Info("Document store seeded with initial data")
	return doc, nil
}

// write re-normalizes and persists the full document. Normalizing the
// merged result keeps every invariant (derived story points, category
// sync, active order pruning) true on disk, whatever the patch held.
func (r *DocumentRepository) write(ctx context.Context, doc *entities.Document) error {
	normalized := normalize.Value(looseValue(doc))

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	start := time.Now()
	if err := r.store.Write(ctx, data); err != nil {
		r.logger.LogStorageOp("write", len(data), time.Since(start).Seconds()*1000, err)
		return fmt.Errorf("failed to persist document: %w", err)
	}
	r.logger.LogStorageOp("write", len(data), time.Since(start).Seconds()*1000, nil)
	return nil
}

// looseValue round-trips the typed document through JSON so the
// normalizer sees the same loose shape a persisted blob would decode
// to.
func looseValue(doc *entities.Document) any {
	data, err := json.Marshal(doc)
	if err != nil {
		// Document is plain data; marshalling cannot fail in practice.
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}
