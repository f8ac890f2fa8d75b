package notes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// PostgresRepository implements Repository over PostgreSQL (pgx stdlib).
type PostgresRepository struct {
	queries
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{queries{db: db, numbered: true}}
}

func (r *PostgresRepository) Insert(ctx context.Context, n *models.Note) (int64, error) {
	query := `INSERT INTO notes (name, body, contact, category, subcategory, created_date, modified_date,
			is_urgent, author, is_deleted, deleted_date, deletion_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		n.Name, n.Body, nullString(n.Contact), n.Category, nullString(n.Subcategory),
		n.CreatedDate, n.ModifiedDate, n.IsUrgent, nullString(n.Author),
		n.IsDeleted, nullInt(n.DeletedDate), nullDeletionType(n.DeletionType)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) LockByID(ctx context.Context, id int64) (*models.Note, error) {
	return r.selectOne(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1 FOR UPDATE`, id)
}
