// Package repomanager vends dialect-specific repository implementations and
// runs the embedded goose migrations for that dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/repositories/history"
	"github.com/dmitrijs2005/avisos/internal/repositories/notes"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Notes(db dbx.DBTX) notes.Repository
	History(db dbx.DBTX) history.Repository
	// Dialect is the goose dialect name of the backing engine.
	Dialect() string
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB, fsys fs.FS, dialect, dir string) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %s: %w", dialect, err)
	}
	return gooseUpContext(ctx, db, dir)
}

// New returns the manager for a database/sql driver name ("sqlite" or "pgx").
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case "sqlite":
		return NewSQLiteRepositoryManager(), nil
	case "pgx":
		return NewPostgresRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

