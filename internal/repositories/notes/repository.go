// Package notes provides database/sql repositories for the notes table,
// with SQLite and PostgreSQL flavours sharing one query core.
package notes

import (
	"context"

	"github.com/dmitrijs2005/avisos/internal/models"
)

// ListFilter narrows the active-notes listing. Empty fields do not filter.
type ListFilter struct {
	Category    string
	Subcategory string
}

// Repository is the note store. Lookups by id return common.ErrNotFound
// when the row does not exist.
type Repository interface {
	Insert(ctx context.Context, n *models.Note) (int64, error)
	Update(ctx context.Context, n *models.Note) error
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	// LockByID reads the note and holds a write lock on it until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, id int64) (*models.Note, error)

	// List returns active notes, urgent first, then most recently modified.
	List(ctx context.Context, f ListFilter) ([]models.Note, error)
	CountActive(ctx context.Context, category string) (int64, error)
	CountActiveByCategory(ctx context.Context) ([]models.CategoryCount, error)
	// ListDeleted returns soft-deleted notes, most recently deleted first.
	// A nil deletionType returns both kinds.
	ListDeleted(ctx context.Context, deletionType *models.DeletionType) ([]models.Note, error)

	SoftDelete(ctx context.Context, id int64, t models.DeletionType, at int64) error
	// Restore clears the deletion state. It reports false when the note was
	// already active.
	Restore(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error

	// SelectExpired returns soft-deleted notes with deleted_date < threshold.
	SelectExpired(ctx context.Context, threshold int64) ([]models.Note, error)
	// DeleteExpiredByIDs removes the listed notes that are still soft-deleted
	// with deleted_date < threshold and returns how many went.
	DeleteExpiredByIDs(ctx context.Context, ids []int64, threshold int64) (int64, error)
}
