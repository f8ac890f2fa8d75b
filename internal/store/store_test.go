package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:avisos.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		SQLiteDSN("file:avisos.db"))

	assert.Equal(t,
		"file::memory:?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		SQLiteDSN("file::memory:?cache=shared"))

	assert.Equal(t,
		"x.db?_txlock=deferred&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		SQLiteDSN("x.db?_txlock=deferred"))
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, "sqlite", s.Driver)

	var fk int
	require.NoError(t, s.DB.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	n, err := s.Repos.Notes(s.DB).CountActive(ctx, "Notes")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestOpen_OpenError(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("no driver")
	}
	t.Cleanup(func() { sqlOpen = orig })

	_, err := Open(context.Background(), "pgx", "postgres://nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver")
}
