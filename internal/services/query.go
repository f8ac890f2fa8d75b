package services

import (
	"context"

	"github.com/dmitrijs2005/avisos/internal/cache"
	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/live"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/repositories/history"
	"github.com/dmitrijs2005/avisos/internal/repositories/notes"
	"github.com/dmitrijs2005/avisos/internal/versioning"
)

// ChangeDetail is a history entry plus, for text fields, its patch and an
// inline rendering of the edit.
type ChangeDetail struct {
	models.EditHistoryEntry
	Patch  string `json:"patch,omitempty"`
	Inline string `json:"inline,omitempty"`
}

// EditionDetail lists the changes of one edition, oldest first.
type EditionDetail struct {
	NoteID        int64          `json:"note_id"`
	EditionNumber int64          `json:"edition_number"`
	Timestamp     int64          `json:"timestamp"`
	ModifiedBy    *string        `json:"modified_by"`
	Changes       []ChangeDetail `json:"changes"`
}

// QueryService serves the read projections. Reads never write.
type QueryService struct {
	Deps
	cache *cache.NoteCache
}

// NewQueryService returns a query service. cache may be nil.
func NewQueryService(d Deps, c *cache.NoteCache) *QueryService {
	return &QueryService{Deps: d.withDefaults(), cache: c}
}

func (s *QueryService) notes() notes.Repository     { return s.Repos.Notes(s.DB) }
func (s *QueryService) history() history.Repository { return s.Repos.History(s.DB) }

func (s *QueryService) ListNotes(ctx context.Context, f notes.ListFilter) ([]models.Note, error) {
	ns, err := s.notes().List(ctx, f)
	return ns, wrap("list notes", err)
}

// GetNote returns any note, active or soft-deleted, or common.ErrNotFound.
func (s *QueryService) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	n, err := s.cache.GetOrLoad(ctx, id, s.notes().GetByID)
	return n, wrap("get note", err)
}

func (s *QueryService) CountActive(ctx context.Context, category string) (int64, error) {
	n, err := s.notes().CountActive(ctx, category)
	return n, wrap("count notes", err)
}

// CategoryCounts returns one count per known category in display order,
// zero included, followed by any unknown categories found in the store.
func (s *QueryService) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	raw, err := s.notes().CountActiveByCategory(ctx)
	if err != nil {
		return nil, wrap("count notes", err)
	}
	byName := make(map[string]int64, len(raw))
	for _, c := range raw {
		byName[c.Category] = c.Count
	}

	out := make([]models.CategoryCount, 0, len(models.Categories))
	for _, name := range models.CategoryNames() {
		out = append(out, models.CategoryCount{Category: name, Count: byName[name]})
		delete(byName, name)
	}
	for _, c := range raw {
		if _, ok := byName[c.Category]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// RecycleBin lists soft-deleted notes, optionally of one deletion type.
func (s *QueryService) RecycleBin(ctx context.Context, t *models.DeletionType) ([]models.Note, error) {
	ns, err := s.notes().ListDeleted(ctx, t)
	return ns, wrap("list recycle bin", err)
}

func (s *QueryService) History(ctx context.Context, noteID int64, q history.Query) ([]models.EditHistoryEntry, error) {
	es, err := s.history().List(ctx, noteID, q)
	return es, wrap("list history", err)
}

func (s *QueryService) Modifiers(ctx context.Context, noteID int64) ([]string, error) {
	m, err := s.history().DistinctModifiers(ctx, noteID)
	return m, wrap("list modifiers", err)
}

func (s *QueryService) HistoryCount(ctx context.Context, noteID int64) (int64, error) {
	n, err := s.history().Count(ctx, noteID)
	return n, wrap("count history", err)
}

func (s *QueryService) MaxEdition(ctx context.Context, noteID int64) (int64, error) {
	n, err := s.history().MaxEditionNumber(ctx, noteID)
	return n, wrap("max edition", err)
}

func (s *QueryService) Editions(ctx context.Context, noteID int64) ([]models.EditionSummary, error) {
	es, err := s.history().Editions(ctx, noteID)
	return es, wrap("list editions", err)
}

// Edition returns the changes of one edition, or common.ErrNotFound when the
// note has no entries with that number.
func (s *QueryService) Edition(ctx context.Context, noteID, edition int64) (*EditionDetail, error) {
	es, err := s.history().ChangesForEdition(ctx, noteID, edition)
	if err != nil {
		return nil, wrap("get edition", err)
	}
	if len(es) == 0 {
		return nil, common.ErrNotFound
	}

	d := &EditionDetail{
		NoteID:        noteID,
		EditionNumber: edition,
		Timestamp:     es[0].Timestamp,
		ModifiedBy:    es[0].ModifiedBy,
		Changes:       make([]ChangeDetail, len(es)),
	}
	for i, e := range es {
		c := ChangeDetail{EditHistoryEntry: e}
		if versioning.IsTextField(e.FieldName) {
			before, after := models.Deref(e.OldValue), models.Deref(e.NewValue)
			c.Patch = versioning.TextPatch(before, after)
			c.Inline = versioning.InlineDiff(before, after)
		}
		d.Changes[i] = c
	}
	return d, nil
}

// Live variants. Each delivers the current result immediately and again
// after every committed write to the tables it reads.

func (s *QueryService) WatchNotes(ctx context.Context, f notes.ListFilter) *live.Projection[[]models.Note] {
	return live.Watch(ctx, s.Hub, func(ctx context.Context) ([]models.Note, error) {
		return s.ListNotes(ctx, f)
	}, live.TableNotes)
}

func (s *QueryService) WatchCategoryCounts(ctx context.Context) *live.Projection[[]models.CategoryCount] {
	return live.Watch(ctx, s.Hub, s.CategoryCounts, live.TableNotes)
}

func (s *QueryService) WatchRecycleBin(ctx context.Context, t *models.DeletionType) *live.Projection[[]models.Note] {
	return live.Watch(ctx, s.Hub, func(ctx context.Context) ([]models.Note, error) {
		return s.RecycleBin(ctx, t)
	}, live.TableNotes)
}

func (s *QueryService) WatchHistory(ctx context.Context, noteID int64, q history.Query) *live.Projection[[]models.EditHistoryEntry] {
	return live.Watch(ctx, s.Hub, func(ctx context.Context) ([]models.EditHistoryEntry, error) {
		return s.History(ctx, noteID, q)
	}, live.TableHistory)
}

func (s *QueryService) WatchEditions(ctx context.Context, noteID int64) *live.Projection[[]models.EditionSummary] {
	return live.Watch(ctx, s.Hub, func(ctx context.Context) ([]models.EditionSummary, error) {
		return s.Editions(ctx, noteID)
	}, live.TableHistory)
}
