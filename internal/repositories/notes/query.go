package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

const noteColumns = `id, name, body, contact, category, subcategory, created_date, modified_date,
	is_urgent, author, is_deleted, deleted_date, deletion_type`

// queries holds the statements that are identical across dialects apart
// from placeholder style.
type queries struct {
	db       dbx.DBTX
	numbered bool
}

func (q *queries) binder() *dbx.Binder { return dbx.NewBinder(q.numbered) }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(s rowScanner) (*models.Note, error) {
	var (
		n            models.Note
		deletionType sql.NullString
	)
	if err := s.Scan(
		&n.ID, &n.Name, &n.Body, &n.Contact, &n.Category, &n.Subcategory,
		&n.CreatedDate, &n.ModifiedDate, &n.IsUrgent, &n.Author,
		&n.IsDeleted, &n.DeletedDate, &deletionType,
	); err != nil {
		return nil, err
	}
	if deletionType.Valid {
		dt := models.DeletionType(deletionType.String)
		n.DeletionType = &dt
	}
	return &n, nil
}

func (q *queries) selectMany(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *queries) selectOne(ctx context.Context, query string, args ...any) (*models.Note, error) {
	n, err := scanNote(q.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select note: %w", err)
	}
	return n, nil
}

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullDeletionType(p *models.DeletionType) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%s: unexpected rows affected: %d", op, n)
	}
}

func (q *queries) Update(ctx context.Context, n *models.Note) error {
	b := q.binder()
	query := `UPDATE notes SET name = ` + b.Bind(n.Name) +
		`, body = ` + b.Bind(n.Body) +
		`, contact = ` + b.Bind(nullString(n.Contact)) +
		`, category = ` + b.Bind(n.Category) +
		`, subcategory = ` + b.Bind(nullString(n.Subcategory)) +
		`, modified_date = ` + b.Bind(n.ModifiedDate) +
		`, is_urgent = ` + b.Bind(n.IsUrgent) +
		`, is_deleted = ` + b.Bind(n.IsDeleted) +
		`, deleted_date = ` + b.Bind(nullInt(n.DeletedDate)) +
		`, deletion_type = ` + b.Bind(nullDeletionType(n.DeletionType)) +
		` WHERE id = ` + b.Bind(n.ID)

	res, err := q.db.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return expectOne(res, "update note")
}

func (q *queries) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	b := q.binder()
	return q.selectOne(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = `+b.Bind(id), b.Args()...)
}

func (q *queries) List(ctx context.Context, f ListFilter) ([]models.Note, error) {
	b := q.binder()
	var sb strings.Builder
	sb.WriteString(`SELECT ` + noteColumns + ` FROM notes WHERE is_deleted = ` + b.Bind(false))
	if f.Category != "" {
		sb.WriteString(` AND category = ` + b.Bind(f.Category))
	}
	if f.Subcategory != "" {
		sb.WriteString(` AND subcategory = ` + b.Bind(f.Subcategory))
	}
	sb.WriteString(` ORDER BY is_urgent DESC, modified_date DESC, id DESC`)
	return q.selectMany(ctx, sb.String(), b.Args()...)
}

func (q *queries) CountActive(ctx context.Context, category string) (int64, error) {
	b := q.binder()
	query := `SELECT COUNT(*) FROM notes WHERE is_deleted = ` + b.Bind(false) + ` AND category = ` + b.Bind(category)
	var n int64
	if err := q.db.QueryRowContext(ctx, query, b.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return n, nil
}

func (q *queries) CountActiveByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	b := q.binder()
	query := `SELECT category, COUNT(*) FROM notes WHERE is_deleted = ` + b.Bind(false) +
		` GROUP BY category ORDER BY category`
	rows, err := q.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}
	defer rows.Close()

	result := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *queries) ListDeleted(ctx context.Context, deletionType *models.DeletionType) ([]models.Note, error) {
	b := q.binder()
	query := `SELECT ` + noteColumns + ` FROM notes WHERE is_deleted = ` + b.Bind(true)
	if deletionType != nil {
		query += ` AND deletion_type = ` + b.Bind(string(*deletionType))
	}
	query += ` ORDER BY deleted_date DESC, id DESC`
	return q.selectMany(ctx, query, b.Args()...)
}

func (q *queries) SoftDelete(ctx context.Context, id int64, t models.DeletionType, at int64) error {
	b := q.binder()
	query := `UPDATE notes SET is_deleted = ` + b.Bind(true) +
		`, deleted_date = ` + b.Bind(at) +
		`, deletion_type = ` + b.Bind(string(t)) +
		` WHERE id = ` + b.Bind(id)
	res, err := q.db.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to soft delete note: %w", err)
	}
	return expectOne(res, "soft delete note")
}

func (q *queries) Restore(ctx context.Context, id int64) (bool, error) {
	b := q.binder()
	query := `UPDATE notes SET is_deleted = ` + b.Bind(false) +
		`, deleted_date = NULL, deletion_type = NULL WHERE id = ` + b.Bind(id) +
		` AND is_deleted = ` + b.Bind(true)
	res, err := q.db.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return false, fmt.Errorf("failed to restore note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("restore note: rows affected: %w", err)
	}
	if n == 1 {
		return true, nil
	}
	if _, err := q.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (q *queries) Delete(ctx context.Context, id int64) error {
	b := q.binder()
	res, err := q.db.ExecContext(ctx, `DELETE FROM notes WHERE id = `+b.Bind(id), b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return expectOne(res, "delete note")
}

func (q *queries) SelectExpired(ctx context.Context, threshold int64) ([]models.Note, error) {
	b := q.binder()
	query := `SELECT ` + noteColumns + ` FROM notes WHERE is_deleted = ` + b.Bind(true) +
		` AND deleted_date < ` + b.Bind(threshold) + ` ORDER BY deleted_date, id`
	return q.selectMany(ctx, query, b.Args()...)
}

func (q *queries) DeleteExpiredByIDs(ctx context.Context, ids []int64, threshold int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	b := q.binder()
	query := `DELETE FROM notes WHERE is_deleted = ` + b.Bind(true) +
		` AND deleted_date < ` + b.Bind(threshold) + ` AND id IN (` + b.List(int64Args(ids)...) + `)`

	res, err := q.db.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge notes: rows affected: %w", err)
	}
	return n, nil
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
