package repomanager

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/avisos/internal/logging"
)

func TestGooseLogger_Printf(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New("debug", "text", &buf)
	require.NoError(t, err)

	gooseLogger{log: l}.Printf("OK   %s (%s)\n", "00001_notes.sql", "1ms")
	assert.Contains(t, buf.String(), "OK   00001_notes.sql (1ms)")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestGooseLogger_Fatalf(t *testing.T) {
	orig := exit
	t.Cleanup(func() { exit = orig })
	code := -1
	exit = func(c int) { code = c }

	var buf bytes.Buffer
	l, err := logging.New("debug", "text", &buf)
	require.NoError(t, err)

	gooseLogger{log: l}.Fatalf("failed to open %s", "db")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestSetLogger_RoutesMigrationOutput(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	l, err := logging.New("info", "text", &buf)
	require.NoError(t, err)
	SetLogger(l)

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, NewSQLiteRepositoryManager().RunMigrations(context.Background(), db))
	assert.Contains(t, buf.String(), "00001_notes.sql")
	assert.Contains(t, buf.String(), "component=migrations")
}
