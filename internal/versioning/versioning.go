// Package versioning compares note snapshots and turns a save into the note
// row to persist plus the field-level history entries of one edition.
package versioning

import (
	"strings"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/models"
)

// Policy selects which optional fields are tracked in history.
type Policy struct {
	TrackSubcategory bool
}

// Fields returns the tracked field names in the order changes are emitted.
func (p Policy) Fields() []string {
	fields := []string{
		models.FieldName,
		models.FieldBody,
		models.FieldContact,
		models.FieldCategory,
		models.FieldUrgent,
	}
	if p.TrackSubcategory {
		fields = append(fields, models.FieldSubcategory)
	}
	return fields
}

// Change is one differing field between two snapshots.
type Change struct {
	Field string
	Old   *string
	New   *string
}

// Normalize trims the text fields and turns blank optional fields into nil.
func Normalize(d models.Draft) models.Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Body = strings.TrimSpace(d.Body)
	d.Category = strings.TrimSpace(d.Category)
	d.Contact = trimOptional(d.Contact)
	d.Subcategory = trimOptional(d.Subcategory)
	return d
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(*p))
}

// Validate checks a normalized draft. Name is checked before body so the
// first offending field is reported.
func Validate(d models.Draft) error {
	if d.Name == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if d.Body == "" {
		return common.NewValidationError("body", "must not be empty")
	}
	route, ok := models.LookupCategory(d.Category)
	if !ok {
		return common.NewValidationError("category", "unknown category "+quote(d.Category))
	}
	if d.Subcategory != nil && !route.ValidSubcategory(*d.Subcategory) {
		return common.NewValidationError("subcategory",
			quote(*d.Subcategory)+" is not a subcategory of "+route.Name)
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }

func fieldValue(d models.Draft, field string) *string {
	switch field {
	case models.FieldName:
		return &d.Name
	case models.FieldBody:
		return &d.Body
	case models.FieldContact:
		return d.Contact
	case models.FieldCategory:
		return &d.Category
	case models.FieldUrgent:
		v := models.UrgentValue(d.IsUrgent)
		return &v
	case models.FieldSubcategory:
		return d.Subcategory
	}
	return nil
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Diff returns the changes from old to new over fields, in fields order.
func Diff(old, new models.Draft, fields []string) []Change {
	var changes []Change
	for _, f := range fields {
		o, n := fieldValue(old, f), fieldValue(new, f)
		if !equal(o, n) {
			changes = append(changes, Change{Field: f, Old: o, New: n})
		}
	}
	return changes
}

// Plan is the outcome of a save: the row to write and the entries to append.
type Plan struct {
	Note    models.Note
	Entries []models.EditHistoryEntry
	Changes []Change
	// Dirty is false when the stored row already equals the candidate.
	Dirty bool
}

// NoOp reports whether the save has nothing to persist.
func (p Plan) NoOp() bool { return !p.Dirty }

// PlanCreate builds the note for a creation. No history is produced for the
// initial state.
func PlanCreate(candidate models.Draft, now int64, actor string) Plan {
	return Plan{
		Note: models.Note{
			Name:         candidate.Name,
			Body:         candidate.Body,
			Contact:      candidate.Contact,
			Category:     candidate.Category,
			Subcategory:  candidate.Subcategory,
			CreatedDate:  now,
			ModifiedDate: now,
			IsUrgent:     candidate.IsUrgent,
			Author:       models.StringPtr(actor),
		},
		Dirty: true,
	}
}

// PlanUpdate builds the update of old to candidate, tagging history with
// edition. Identity, creation data, author and deletion state come from old.
//
// An edit of an untracked field (subcategory unless tracked) is written
// without history. A save that differs in nothing returns old unchanged.
func PlanUpdate(old *models.Note, candidate models.Draft, now int64, actor string, edition int64, fields []string) Plan {
	changes := Diff(old.Draft(), candidate, fields)
	dirty := len(changes) > 0 || !equal(old.Subcategory, candidate.Subcategory)
	if !dirty {
		return Plan{Note: *old}
	}

	next := *old
	next.Name = candidate.Name
	next.Body = candidate.Body
	next.Contact = candidate.Contact
	next.Category = candidate.Category
	next.Subcategory = candidate.Subcategory
	next.IsUrgent = candidate.IsUrgent
	next.ModifiedDate = now

	entries := make([]models.EditHistoryEntry, len(changes))
	for i, c := range changes {
		entries[i] = models.EditHistoryEntry{
			NoteID:        old.ID,
			FieldName:     c.Field,
			OldValue:      c.Old,
			NewValue:      c.New,
			Timestamp:     now,
			ModifiedBy:    models.StringPtr(actor),
			EditionNumber: edition,
		}
	}
	return Plan{Note: next, Entries: entries, Changes: changes, Dirty: true}
}
