package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// PostgresRepository implements Repository over PostgreSQL.
type PostgresRepository struct {
	queries
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{queries{db: db, numbered: true}}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *models.EditHistoryEntry) (int64, error) {
	query := `INSERT INTO note_edit_history (note_id, field_name, old_value, new_value, timestamp, modified_by, edition_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, e.NoteID, e.FieldName, nullString(e.OldValue), nullString(e.NewValue),
		e.Timestamp, nullString(e.ModifiedBy), e.EditionNumber).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history entry: %w", err)
	}
	return id, nil
}
