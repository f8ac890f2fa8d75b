package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/avisos/internal/archive"
	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/repositories/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingArchiver struct {
	records []archive.Record
	err     error
}

func (a *recordingArchiver) Archive(_ context.Context, rs []archive.Record) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, rs...)
	return nil
}

func TestLifecycle_SoftDeleteAndRestore(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	n := e.create(t, draft("A", "x", models.CategoryNotes), "Isa")
	e.advance(500)

	got, err := e.life.SoftDelete(ctx, n.ID, models.DeletionFinished)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedDate)
	assert.Equal(t, base+500, *got.DeletedDate)
	require.NotNil(t, got.DeletionType)
	assert.Equal(t, models.DeletionFinished, *got.DeletionType)
	assert.Equal(t, base, got.ModifiedDate, "deletion does not touch modified date")

	active, err := e.query.ListNotes(ctx, noFilter)
	require.NoError(t, err)
	assert.Empty(t, active)

	bin, err := e.query.RecycleBin(ctx, nil)
	require.NoError(t, err)
	require.Len(t, bin, 1)

	erased := models.DeletionErased
	bin, err = e.query.RecycleBin(ctx, &erased)
	require.NoError(t, err)
	assert.Empty(t, bin)

	got, err = e.life.Restore(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedDate)
	assert.Nil(t, got.DeletionType)

	// restoring an active note changes nothing
	again, err := e.life.Restore(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	count, err := e.query.HistoryCount(ctx, n.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "lifecycle moves are not edits")
}

func TestLifecycle_SoftDeleteErrors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.life.SoftDelete(ctx, 42, models.DeletionErased)
	assert.ErrorIs(t, err, common.ErrNotFound)

	n := e.create(t, draft("A", "x", models.CategoryNotes), "Isa")
	_, err = e.life.SoftDelete(ctx, n.ID, models.DeletionType("Perdudes"))
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "deletion_type", ve.Field)

	_, err = e.life.Restore(ctx, 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLifecycle_PermanentlyDelete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	n := e.create(t, draft("A", "x", models.CategoryNotes), "Isa")
	_, err := e.notes.Update(ctx, n.ID, draft("B", "x", models.CategoryNotes), "Joan")
	require.NoError(t, err)

	err = e.life.PermanentlyDelete(ctx, n.ID)
	assert.ErrorIs(t, err, common.ErrInvalidState, "active notes are soft-deleted first")

	_, err = e.life.SoftDelete(ctx, n.ID, models.DeletionErased)
	require.NoError(t, err)
	require.NoError(t, e.life.PermanentlyDelete(ctx, n.ID))

	_, err = e.query.GetNote(ctx, n.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	es, err := e.query.History(ctx, n.ID, history.Query{})
	require.NoError(t, err)
	assert.Empty(t, es, "history goes with the note")

	assert.ErrorIs(t, e.life.PermanentlyDelete(ctx, n.ID), common.ErrNotFound)
}

func TestLifecycle_Threshold(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, base-15*common.MillisPerDay, e.life.Threshold(base))

	short := NewLifecycleService(e.deps, nil, 3)
	assert.Equal(t, base-3*common.MillisPerDay, short.Threshold(base))
}

func TestLifecycle_PurgeExpiredBoundary(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	arch := &recordingArchiver{}
	life := NewLifecycleService(e.deps, arch, 0)

	now := base + 30*common.MillisPerDay
	threshold := life.Threshold(now)

	mk := func(name string, deletedAt int64) models.Note {
		n := e.create(t, draft(name, "x", models.CategoryNotes), "Isa")
		e.now = deletedAt
		_, err := life.SoftDelete(ctx, n.ID, models.DeletionErased)
		require.NoError(t, err)
		e.now = base
		return n
	}

	old := mk("old", threshold-1)
	_, err := e.notes.Update(ctx, old.ID, draft("old", "y", models.CategoryNotes), "Isa")
	assert.ErrorIs(t, err, common.ErrInvalidState)

	atThreshold := mk("exact", threshold)
	recent := mk("recent", now-14*common.MillisPerDay)
	active := e.create(t, draft("active", "x", models.CategoryNotes), "Isa")

	removed, err := life.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = e.query.GetNote(ctx, old.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	for _, id := range []int64{atThreshold.ID, recent.ID, active.ID} {
		_, err := e.query.GetNote(ctx, id)
		assert.NoError(t, err, "note %d must survive", id)
	}

	require.Len(t, arch.records, 1)
	assert.Equal(t, old.ID, arch.records[0].Note.ID)
	assert.Equal(t, now, arch.records[0].PurgedAt)
	assert.NotNil(t, arch.records[0].History)

	removed, err = life.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, removed, "second sweep finds nothing")
}

func TestLifecycle_PurgeArchivesHistory(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	arch := &recordingArchiver{}
	life := NewLifecycleService(e.deps, arch, 1)

	n := e.create(t, draft("A", "x", models.CategoryNotes), "Isa")
	_, err := e.notes.Update(ctx, n.ID, draft("B", "y", models.CategoryNotes), "Joan")
	require.NoError(t, err)
	_, err = life.SoftDelete(ctx, n.ID, models.DeletionFinished)
	require.NoError(t, err)

	removed, err := life.PurgeExpired(ctx, base+2*common.MillisPerDay)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	require.Len(t, arch.records, 1)
	require.Len(t, arch.records[0].History, 2)
	assert.Equal(t, models.FieldName, arch.records[0].History[0].FieldName)
}

func TestLifecycle_ArchiveFailureKeepsNotes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	boom := errors.New("bucket unavailable")
	life := NewLifecycleService(e.deps, &recordingArchiver{err: boom}, 0)

	n := e.create(t, draft("A", "x", models.CategoryNotes), "Isa")
	_, err := life.SoftDelete(ctx, n.ID, models.DeletionErased)
	require.NoError(t, err)

	removed, err := life.PurgeExpired(ctx, base+16*common.MillisPerDay)
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, removed)

	got, err := e.query.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}
