package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

const entryColumns = `id, note_id, field_name, old_value, new_value, timestamp, modified_by, edition_number`

type queries struct {
	db       dbx.DBTX
	numbered bool
}

func (q *queries) binder() *dbx.Binder { return dbx.NewBinder(q.numbered) }

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func (q *queries) selectEntries(ctx context.Context, query string, args ...any) ([]models.EditHistoryEntry, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	result := []models.EditHistoryEntry{}
	for rows.Next() {
		var e models.EditHistoryEntry
		if err := rows.Scan(&e.ID, &e.NoteID, &e.FieldName, &e.OldValue, &e.NewValue,
			&e.Timestamp, &e.ModifiedBy, &e.EditionNumber); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *queries) NextEditionNumber(ctx context.Context, noteID int64) (int64, error) {
	last, err := q.MaxEditionNumber(ctx, noteID)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (q *queries) MaxEditionNumber(ctx context.Context, noteID int64) (int64, error) {
	b := q.binder()
	query := `SELECT COALESCE(MAX(edition_number), 0) FROM note_edit_history WHERE note_id = ` + b.Bind(noteID)
	var n int64
	if err := q.db.QueryRowContext(ctx, query, b.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to read max edition: %w", err)
	}
	return n, nil
}

func (q *queries) List(ctx context.Context, noteID int64, f Query) ([]models.EditHistoryEntry, error) {
	b := q.binder()
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM note_edit_history WHERE note_id = ` + b.Bind(noteID))
	if f.ModifiedBy != nil {
		sb.WriteString(` AND modified_by = ` + b.Bind(*f.ModifiedBy))
	}
	if f.From != nil {
		sb.WriteString(` AND timestamp >= ` + b.Bind(*f.From))
	}
	if f.To != nil {
		sb.WriteString(` AND timestamp <= ` + b.Bind(*f.To))
	}
	sb.WriteString(` ORDER BY timestamp DESC, id DESC`)
	return q.selectEntries(ctx, sb.String(), b.Args()...)
}

func (q *queries) DistinctModifiers(ctx context.Context, noteID int64) ([]string, error) {
	b := q.binder()
	query := `SELECT DISTINCT modified_by FROM note_edit_history
		WHERE note_id = ` + b.Bind(noteID) + ` AND modified_by IS NOT NULL ORDER BY modified_by ASC`
	rows, err := q.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to select modifiers: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *queries) Count(ctx context.Context, noteID int64) (int64, error) {
	b := q.binder()
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM note_edit_history WHERE note_id = `+b.Bind(noteID), b.Args()...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Editions uses the earliest entry's editor as the edition's representative
// modifier; every entry of one edition is written by the same save.
func (q *queries) Editions(ctx context.Context, noteID int64) ([]models.EditionSummary, error) {
	b := q.binder()
	query := `SELECT edition_number, MIN(timestamp), MIN(modified_by), COUNT(*)
		FROM note_edit_history WHERE note_id = ` + b.Bind(noteID) + `
		GROUP BY edition_number ORDER BY edition_number DESC`
	rows, err := q.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to select editions: %w", err)
	}
	defer rows.Close()

	result := []models.EditionSummary{}
	for rows.Next() {
		s := models.EditionSummary{NoteID: noteID}
		if err := rows.Scan(&s.EditionNumber, &s.Timestamp, &s.ModifiedBy, &s.Changes); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *queries) ChangesForEdition(ctx context.Context, noteID, edition int64) ([]models.EditHistoryEntry, error) {
	b := q.binder()
	query := `SELECT ` + entryColumns + ` FROM note_edit_history
		WHERE note_id = ` + b.Bind(noteID) + ` AND edition_number = ` + b.Bind(edition) + ` ORDER BY timestamp ASC, id ASC`
	return q.selectEntries(ctx, query, b.Args()...)
}

func (q *queries) ListForNotes(ctx context.Context, noteIDs []int64) ([]models.EditHistoryEntry, error) {
	if len(noteIDs) == 0 {
		return []models.EditHistoryEntry{}, nil
	}
	b := q.binder()
	ids := make([]any, len(noteIDs))
	for i, id := range noteIDs {
		ids[i] = id
	}
	query := `SELECT ` + entryColumns + ` FROM note_edit_history
		WHERE note_id IN (` + b.List(ids...) + `) ORDER BY note_id, id`
	return q.selectEntries(ctx, query, b.Args()...)
}
