package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/soloplan/core/internal/ports"
)

// documentRowID is the fixed id of the single document row. The
// application is single-user; there is never more than one document.
const documentRowID = 1

// PostgresStore persists the document as one row in a documents
// table. Persistence stays wholesale-document: the payload column is
// replaced in full on every write.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Postgres-backed blob store. The documents
// table is managed by the migrate command.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Read returns the stored payload, or ports.ErrNotExist when the row
// has not been created yet.
func (s *PostgresStore) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM documents WHERE id = $1`
	if err := s.db.GetContext(ctx, &payload, query, documentRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read document row: %w", err)
	}
	return payload, nil
}

// Write upserts the single document row.
func (s *PostgresStore) Write(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO documents (id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, documentRowID, data); err != nil {
		return fmt.Errorf("failed to write document row: %w", err)
	}
	return nil
}
