package models

// Names of the tracked logical fields as recorded in EditHistoryEntry.FieldName.
const (
	FieldName        = "Note Name"
	FieldBody        = "Note Body"
	FieldContact     = "Contact"
	FieldCategory    = "Category"
	FieldUrgent      = "Urgent"
	FieldSubcategory = "Subcategory"
)

// Values recorded for the Urgent field.
const (
	UrgentYes = "Yes"
	UrgentNo  = "No"
)

// UrgentValue renders the urgent flag the way history stores it.
func UrgentValue(b bool) string {
	if b {
		return UrgentYes
	}
	return UrgentNo
}
