package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/live"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/repositories/repomanager"
	"github.com/dmitrijs2005/avisos/internal/store"
	"github.com/dmitrijs2005/avisos/internal/versioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base is an arbitrary fixed "now" (2024-01-15T00:00:00Z).
const base int64 = 1705276800000

type testEnv struct {
	deps  Deps
	now   int64
	notes *NoteService
	life  *LifecycleService
	query *QueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(context.Background(), "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	e := &testEnv{now: base}
	e.deps = Deps{
		DB:    st.DB,
		Repos: st.Repos,
		Hub:   live.NewHub(),
		Clock: func() int64 { return e.now },
	}
	e.notes = NewNoteService(e.deps, versioning.Policy{})
	e.life = NewLifecycleService(e.deps, nil, 0)
	e.query = NewQueryService(e.deps, nil)
	return e
}

func (e *testEnv) advance(ms int64) { e.now += ms }

func draft(name, body, category string) models.Draft {
	return models.Draft{Name: name, Body: body, Category: category}
}

func (e *testEnv) create(t *testing.T, d models.Draft, actor string) models.Note {
	t.Helper()
	res, err := e.notes.Create(context.Background(), d, actor)
	require.NoError(t, err)
	return res.Note
}

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("op", nil))
	assert.ErrorIs(t, wrap("op", common.ErrNotFound), common.ErrNotFound)
	assert.NotErrorIs(t, wrap("op", common.ErrNotFound), common.ErrStorage)

	ve := common.NewValidationError("name", "must not be empty")
	var got *common.ValidationError
	require.ErrorAs(t, wrap("op", ve), &got)
	assert.Equal(t, "name", got.Field)

	boom := errors.New("disk full")
	err := wrap("create note", boom)
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "create note")
}

func TestStorageFailuresAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos, err := repomanager.New("sqlite")
	require.NoError(t, err)

	boom := errors.New("database is locked")
	mock.ExpectExec(`INSERT INTO notes`).WillReturnError(boom)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM notes WHERE id = \?`).WillReturnError(boom)
	mock.ExpectRollback()

	hub := live.NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	s := NewNoteService(Deps{DB: db, Repos: repos, Hub: hub}, versioning.Policy{})
	ctx := context.Background()

	_, err = s.Create(ctx, draft("n", "b", models.CategoryNotes), "Isa")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, err = s.Update(ctx, 1, draft("n", "b", models.CategoryNotes), "Isa")
	assert.ErrorIs(t, err, common.ErrStorage)

	select {
	case <-sub.C:
		t.Fatal("failed writes must not notify")
	default:
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
