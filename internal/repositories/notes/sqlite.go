package notes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// SQLiteRepository implements Repository over SQLite (modernc.org/sqlite).
type SQLiteRepository struct {
	queries
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{queries{db: db}}
}

// Insert stores n and returns the new id. AUTOINCREMENT guarantees ids are
// never reused, even after deletes.
func (r *SQLiteRepository) Insert(ctx context.Context, n *models.Note) (int64, error) {
	query := `INSERT INTO notes (name, body, contact, category, subcategory, created_date, modified_date,
			is_urgent, author, is_deleted, deleted_date, deletion_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		n.Name, n.Body, nullString(n.Contact), n.Category, nullString(n.Subcategory),
		n.CreatedDate, n.ModifiedDate, n.IsUrgent, nullString(n.Author),
		n.IsDeleted, nullInt(n.DeletedDate), nullDeletionType(n.DeletionType))
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read note id: %w", err)
	}
	return id, nil
}

// LockByID relies on the connection opening its transactions with
// _txlock=immediate, which takes the database write lock at BEGIN.
func (r *SQLiteRepository) LockByID(ctx context.Context, id int64) (*models.Note, error) {
	return r.GetByID(ctx, id)
}
