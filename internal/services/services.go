// Package services implements the note operations on top of the
// repositories: versioned saves, the deletion lifecycle and the read
// projections, including their live variants.
package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/live"
	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/dmitrijs2005/avisos/internal/repositories/repomanager"
	"github.com/dmitrijs2005/avisos/internal/timex"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	DB    *sql.DB
	Repos repomanager.RepositoryManager
	Hub   *live.Hub
	Clock timex.Clock
	Log   logging.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Hub == nil {
		d.Hub = live.NewHub()
	}
	if d.Clock == nil {
		d.Clock = timex.SystemClock
	}
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	return d
}

// wrap passes domain errors through and turns anything else into a storage
// error for op.
func wrap(op string, err error) error {
	if err == nil || common.IsDomainError(err) {
		return err
	}
	return common.StorageError(op, err)
}

func (d Deps) notify(tables []string, ids ...int64) {
	d.Hub.Notify(live.Change{Tables: tables, NoteIDs: ids})
}

func (d Deps) logFailure(ctx context.Context, msg string, err error, args ...any) {
	if common.IsDomainError(err) {
		d.Log.Debug(ctx, msg, append(args, "error", err)...)
		return
	}
	d.Log.Error(ctx, msg, append(args, "error", err)...)
}

var (
	notesTables = []string{live.TableNotes}
	bothTables  = []string{live.TableNotes, live.TableHistory}
)
