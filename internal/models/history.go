package models

// EditHistoryEntry is one changed field of one save. Entries are append-only
// and share EditionNumber with the other fields changed in the same save.
type EditHistoryEntry struct {
	ID            int64   `json:"id"`
	NoteID        int64   `json:"note_id"`
	FieldName     string  `json:"field_name"`
	OldValue      *string `json:"old_value"`
	NewValue      *string `json:"new_value"`
	Timestamp     int64   `json:"timestamp"`
	ModifiedBy    *string `json:"modified_by"`
	EditionNumber int64   `json:"edition_number"`
}

// EditionSummary is one row of the grouped-by-edition projection.
type EditionSummary struct {
	NoteID        int64   `json:"note_id"`
	EditionNumber int64   `json:"edition_number"`
	Timestamp     int64   `json:"timestamp"`
	ModifiedBy    *string `json:"modified_by"`
	Changes       int     `json:"changes"`
}

// CategoryCount is the number of active notes in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
