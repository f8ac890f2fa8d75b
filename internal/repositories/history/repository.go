// Package history provides database/sql repositories for the append-only
// note_edit_history table.
package history

import (
	"context"

	"github.com/dmitrijs2005/avisos/internal/models"
)

// Query filters a note's history. Nil fields do not filter; From and To
// are inclusive epoch milliseconds.
type Query struct {
	ModifiedBy *string
	From       *int64
	To         *int64
}

// Repository is the edit-history store.
type Repository interface {
	Insert(ctx context.Context, e *models.EditHistoryEntry) (int64, error)
	// NextEditionNumber returns MAX(edition_number)+1 for the note, or 1.
	// Call it inside the transaction that inserts the edition.
	NextEditionNumber(ctx context.Context, noteID int64) (int64, error)
	MaxEditionNumber(ctx context.Context, noteID int64) (int64, error)

	// List returns entries newest first.
	List(ctx context.Context, noteID int64, q Query) ([]models.EditHistoryEntry, error)
	// DistinctModifiers returns non-null editor identities in ascending order.
	DistinctModifiers(ctx context.Context, noteID int64) ([]string, error)
	Count(ctx context.Context, noteID int64) (int64, error)
	// Editions returns one row per edition number, highest first.
	Editions(ctx context.Context, noteID int64) ([]models.EditionSummary, error)
	// ChangesForEdition returns the entries of one edition, oldest first.
	ChangesForEdition(ctx context.Context, noteID, edition int64) ([]models.EditHistoryEntry, error)
	// ListForNotes returns every entry of the given notes ordered by note and id.
	ListForNotes(ctx context.Context, noteIDs []int64) ([]models.EditHistoryEntry, error)
}
