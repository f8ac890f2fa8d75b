package history

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryCols = []string{"id", "note_id", "field_name", "old_value", "new_value", "timestamp", "modified_by", "edition_number"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgres_Insert(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO note_edit_history .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\) RETURNING id`).
		WithArgs(int64(1), models.FieldUrgent, "No", "Yes", int64(50), "Pedro", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Insert(context.Background(), &models.EditHistoryEntry{
		NoteID: 1, FieldName: models.FieldUrgent, OldValue: models.StringPtr("No"), NewValue: models.StringPtr("Yes"),
		Timestamp: 50, ModifiedBy: models.StringPtr("Pedro"), EditionNumber: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_NextEditionNumber(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(edition_number\), 0\) FROM note_edit_history WHERE note_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(4)))

	n, err := repo.NextEditionNumber(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestPostgres_NextEditionNumberError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT COALESCE`).WillReturnError(errors.New("conn reset"))

	_, err := repo.NextEditionNumber(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conn reset")
}

func TestPostgres_ListFilterPlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE note_id = \$1 AND modified_by = \$2 AND timestamp >= \$3 AND timestamp <= \$4 ORDER BY timestamp DESC`).
		WithArgs(int64(2), "Isa", int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(int64(7), int64(2), models.FieldName, "a", "b", int64(15), "Isa", int64(1)))

	from, to := int64(10), int64(20)
	got, err := repo.List(context.Background(), 2, Query{ModifiedBy: models.StringPtr("Isa"), From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", *got[0].NewValue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Editions(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT edition_number, MIN\(timestamp\), MIN\(modified_by\), COUNT\(\*\) .* GROUP BY edition_number ORDER BY edition_number DESC`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"edition_number", "min", "min", "count"}).
			AddRow(int64(2), int64(30), nil, 1).
			AddRow(int64(1), int64(10), "Isa", 3))

	got, err := repo.Editions(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []models.EditionSummary{
		{NoteID: 2, EditionNumber: 2, Timestamp: 30, Changes: 1},
		{NoteID: 2, EditionNumber: 1, Timestamp: 10, ModifiedBy: models.StringPtr("Isa"), Changes: 3},
	}, got)
}

func TestPostgres_ListForNotes(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE note_id IN \(\$1, \$2\) ORDER BY note_id, id`).
		WithArgs(int64(3), int64(4)).
		WillReturnRows(sqlmock.NewRows(entryCols))

	got, err := repo.ListForNotes(context.Background(), []int64{3, 4})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
