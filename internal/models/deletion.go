package models

import "fmt"

// DeletionType says why a note went to the recycle bin.
type DeletionType string

const (
	DeletionErased   DeletionType = "Esborrades"
	DeletionFinished DeletionType = "Finalitzades"
)

// DeletionTypes lists the valid deletion types.
var DeletionTypes = []DeletionType{DeletionErased, DeletionFinished}

// RecycleBinRetentionDays is how long a soft-deleted note stays restorable.
const RecycleBinRetentionDays = 15

// ParseDeletionType validates s.
func ParseDeletionType(s string) (DeletionType, error) {
	for _, t := range DeletionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown deletion type %q", s)
}
