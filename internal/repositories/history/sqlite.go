package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// SQLiteRepository implements Repository over SQLite.
type SQLiteRepository struct {
	queries
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{queries{db: db}}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.EditHistoryEntry) (int64, error) {
	query := `INSERT INTO note_edit_history (note_id, field_name, old_value, new_value, timestamp, modified_by, edition_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, e.NoteID, e.FieldName, nullString(e.OldValue), nullString(e.NewValue),
		e.Timestamp, nullString(e.ModifiedBy), e.EditionNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history id: %w", err)
	}
	return id, nil
}
