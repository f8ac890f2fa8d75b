package services

import (
	"context"

	"github.com/dmitrijs2005/avisos/internal/archive"
	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// LifecycleService moves notes between active, soft-deleted and purged.
type LifecycleService struct {
	Deps
	archiver      archive.Archiver
	retentionDays int
}

// NewLifecycleService returns a lifecycle manager. A nil archiver disables
// archiving; retentionDays <= 0 selects models.RecycleBinRetentionDays.
func NewLifecycleService(d Deps, archiver archive.Archiver, retentionDays int) *LifecycleService {
	if archiver == nil {
		archiver = archive.Nop{}
	}
	if retentionDays <= 0 {
		retentionDays = models.RecycleBinRetentionDays
	}
	return &LifecycleService{Deps: d.withDefaults(), archiver: archiver, retentionDays: retentionDays}
}

// Threshold is the deleted_date below which a soft-deleted note has expired.
func (s *LifecycleService) Threshold(now int64) int64 {
	return now - int64(s.retentionDays)*common.MillisPerDay
}

// SoftDelete moves the note to the recycle bin. Deleting an already deleted
// note overwrites its deletion date and type.
func (s *LifecycleService) SoftDelete(ctx context.Context, id int64, t models.DeletionType) (*models.Note, error) {
	if _, err := models.ParseDeletionType(string(t)); err != nil {
		return nil, common.NewValidationError("deletion_type", err.Error())
	}

	now := s.Clock()
	n, err := dbx.WithTxValue(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Note, error) {
		notes := s.Repos.Notes(tx)
		if err := notes.SoftDelete(ctx, id, t, now); err != nil {
			return nil, err
		}
		return notes.GetByID(ctx, id)
	})
	if err != nil {
		s.logFailure(ctx, "soft delete failed", err, "note_id", id)
		return nil, wrap("soft delete note", err)
	}

	s.notify(notesTables, id)
	s.Log.Info(ctx, "note soft-deleted", "note_id", id, "deletion_type", t)
	return n, nil
}

// Restore brings a soft-deleted note back. Restoring an active note is a no-op.
func (s *LifecycleService) Restore(ctx context.Context, id int64) (*models.Note, error) {
	var changed bool
	n, err := dbx.WithTxValue(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Note, error) {
		notes := s.Repos.Notes(tx)
		var err error
		if changed, err = notes.Restore(ctx, id); err != nil {
			return nil, err
		}
		return notes.GetByID(ctx, id)
	})
	if err != nil {
		s.logFailure(ctx, "restore failed", err, "note_id", id)
		return nil, wrap("restore note", err)
	}

	if changed {
		s.notify(notesTables, id)
		s.Log.Info(ctx, "note restored", "note_id", id)
	}
	return n, nil
}

// PermanentlyDelete purges a soft-deleted note and, through the cascade, its
// history. Active notes must be soft-deleted first.
func (s *LifecycleService) PermanentlyDelete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		notes := s.Repos.Notes(tx)
		n, err := notes.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !n.IsDeleted {
			return common.ErrInvalidState
		}
		return notes.Delete(ctx, id)
	})
	if err != nil {
		s.logFailure(ctx, "permanent delete failed", err, "note_id", id)
		return wrap("permanently delete note", err)
	}

	s.notify(bothTables, id)
	s.Log.Info(ctx, "note purged", "note_id", id)
	return nil
}

// PurgeExpired removes every note soft-deleted before the retention
// threshold relative to now and returns how many were removed. Expired notes
// are handed to the archiver first; nothing is deleted if that fails.
func (s *LifecycleService) PurgeExpired(ctx context.Context, now int64) (int, error) {
	threshold := s.Threshold(now)

	expired, err := s.Repos.Notes(s.DB).SelectExpired(ctx, threshold)
	if err != nil {
		return 0, wrap("select expired notes", err)
	}
	if len(expired) == 0 {
		s.Log.Debug(ctx, "purge sweep found nothing", "threshold", threshold)
		return 0, nil
	}

	ids := make([]int64, len(expired))
	for i, n := range expired {
		ids[i] = n.ID
	}

	entries, err := s.Repos.History(s.DB).ListForNotes(ctx, ids)
	if err != nil {
		return 0, wrap("load expired history", err)
	}
	byNote := make(map[int64][]models.EditHistoryEntry, len(ids))
	for _, e := range entries {
		byNote[e.NoteID] = append(byNote[e.NoteID], e)
	}

	records := make([]archive.Record, len(expired))
	for i, n := range expired {
		h := byNote[n.ID]
		if h == nil {
			h = []models.EditHistoryEntry{}
		}
		records[i] = archive.Record{Note: n, History: h, PurgedAt: now}
	}
	if err := s.archiver.Archive(ctx, records); err != nil {
		s.Log.Error(ctx, "archive before purge failed", "notes", len(records), "error", err)
		return 0, common.StorageError("archive expired notes", err)
	}

	// a note restored after the select no longer matches and is kept
	removed, err := dbx.WithTxValue(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		return s.Repos.Notes(tx).DeleteExpiredByIDs(ctx, ids, threshold)
	})
	if err != nil {
		s.Log.Error(ctx, "purge sweep failed", "error", err)
		return 0, wrap("purge expired notes", err)
	}

	if removed > 0 {
		s.notify(bothTables, ids...)
	}
	s.Log.Info(ctx, "purge sweep done", "removed", removed, "threshold", threshold)
	return int(removed), nil
}
