// Package store opens the relational store backing the note and history
// repositories and applies the schema migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/avisos/internal/repositories/repomanager"
)

// Store is the explicitly owned database handle plus its repository vendor.
type Store struct {
	DB     *sql.DB
	Repos  repomanager.RepositoryManager
	Driver string
}

// sqlitePragmas are appended to SQLite DSNs that do not set them already.
// Foreign keys are needed for the history cascade; immediate transactions
// take the write lock at BEGIN so read-then-write sequences are serialized.
var sqlitePragmas = []struct{ key, param string }{
	{"foreign_keys", "_pragma=foreign_keys(1)"},
	{"busy_timeout", "_pragma=busy_timeout(5000)"},
	{"_txlock", "_txlock=immediate"},
}

// SQLiteDSN returns dsn with the required connection parameters added.
func SQLiteDSN(dsn string) string {
	for _, p := range sqlitePragmas {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.param
	}
	return dsn
}

var sqlOpen = sql.Open

// Open connects to driver/dsn, verifies the connection and runs migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	repos, err := repomanager.New(driver)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		dsn = SQLiteDSN(dsn)
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// one writer connection; also keeps :memory: databases alive
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{DB: db, Repos: repos, Driver: driver}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
