package services

import (
	"context"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/dbx"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/versioning"
)

// SaveResult describes a committed save. Edition is 0 and Changes empty
// when no history was written.
type SaveResult struct {
	Note    models.Note               `json:"note"`
	Edition int64                     `json:"edition"`
	Changes []models.EditHistoryEntry `json:"changes"`
	NoOp    bool                      `json:"no_op"`
}

// NoteService creates and edits notes, recording field-level history.
type NoteService struct {
	Deps
	policy versioning.Policy
}

func NewNoteService(d Deps, policy versioning.Policy) *NoteService {
	return &NoteService{Deps: d.withDefaults(), policy: policy}
}

func prepare(d models.Draft) (models.Draft, error) {
	d = versioning.Normalize(d)
	if err := versioning.Validate(d); err != nil {
		return d, err
	}
	return d, nil
}

// Create validates draft and stores it as a new active note authored by actor.
func (s *NoteService) Create(ctx context.Context, draft models.Draft, actor string) (*SaveResult, error) {
	cand, err := prepare(draft)
	if err != nil {
		return nil, err
	}

	plan := versioning.PlanCreate(cand, s.Clock(), actor)
	id, err := s.Repos.Notes(s.DB).Insert(ctx, &plan.Note)
	if err != nil {
		s.logFailure(ctx, "create note failed", err, "actor", actor)
		return nil, wrap("create note", err)
	}
	plan.Note.ID = id

	s.notify(notesTables, id)
	s.Log.Info(ctx, "note created", "note_id", id, "category", plan.Note.Category, "actor", actor)
	return &SaveResult{Note: plan.Note, Changes: []models.EditHistoryEntry{}}, nil
}

// Update saves draft over the stored note id. The stored snapshot is read
// under a row lock and the next edition number is allocated in the same
// transaction that writes the note and its history. Soft-deleted notes
// cannot be edited.
func (s *NoteService) Update(ctx context.Context, id int64, draft models.Draft, actor string) (*SaveResult, error) {
	cand, err := prepare(draft)
	if err != nil {
		return nil, err
	}

	fields := s.policy.Fields()
	res, err := dbx.WithTxValue(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) (*SaveResult, error) {
		notes, history := s.Repos.Notes(tx), s.Repos.History(tx)

		old, err := notes.LockByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if old.IsDeleted {
			return nil, common.ErrInvalidState
		}

		var edition int64
		if len(versioning.Diff(old.Draft(), cand, fields)) > 0 {
			if edition, err = history.NextEditionNumber(ctx, id); err != nil {
				return nil, err
			}
		}

		plan := versioning.PlanUpdate(old, cand, s.Clock(), actor, edition, fields)
		if plan.NoOp() {
			return &SaveResult{Note: *old, Changes: []models.EditHistoryEntry{}, NoOp: true}, nil
		}

		if err := notes.Update(ctx, &plan.Note); err != nil {
			return nil, err
		}
		for i := range plan.Entries {
			eid, err := history.Insert(ctx, &plan.Entries[i])
			if err != nil {
				return nil, err
			}
			plan.Entries[i].ID = eid
		}
		if len(plan.Entries) == 0 {
			edition = 0
		}
		return &SaveResult{Note: plan.Note, Edition: edition, Changes: plan.Entries}, nil
	})
	if err != nil {
		s.logFailure(ctx, "update note failed", err, "note_id", id, "actor", actor)
		return nil, wrap("update note", err)
	}

	if res.NoOp {
		s.Log.Debug(ctx, "note unchanged", "note_id", id, "actor", actor)
		return res, nil
	}

	tables := notesTables
	if len(res.Changes) > 0 {
		tables = bothTables
	}
	s.notify(tables, id)
	s.Log.Info(ctx, "note updated", "note_id", id, "edition", res.Edition, "changes", len(res.Changes), "actor", actor)
	return res, nil
}
