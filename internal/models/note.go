// Package models defines the persisted note and edit-history records and the
// fixed catalogues (categories, deletion types, tracked fields) they refer to.
package models

// Note is a categorized short note. Timestamps are epoch milliseconds.
//
// IsDeleted, DeletedDate and DeletionType move together: a soft-deleted note
// has all three set, an active one has none.
type Note struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Body         string        `json:"body"`
	Contact      *string       `json:"contact,omitempty"`
	Category     string        `json:"category"`
	Subcategory  *string       `json:"subcategory,omitempty"`
	CreatedDate  int64         `json:"created_date"`
	ModifiedDate int64         `json:"modified_date"`
	IsUrgent     bool          `json:"is_urgent"`
	Author       *string       `json:"author,omitempty"`
	IsDeleted    bool          `json:"is_deleted"`
	DeletedDate  *int64        `json:"deleted_date,omitempty"`
	DeletionType *DeletionType `json:"deletion_type,omitempty"`
}

// Draft is the editable part of a note as submitted by an editor.
type Draft struct {
	Name        string  `json:"name"`
	Body        string  `json:"body"`
	Contact     *string `json:"contact,omitempty"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory,omitempty"`
	IsUrgent    bool    `json:"is_urgent"`
}

// Draft returns the editable fields of n.
func (n *Note) Draft() Draft {
	return Draft{
		Name:        n.Name,
		Body:        n.Body,
		Contact:     n.Contact,
		Category:    n.Category,
		Subcategory: n.Subcategory,
		IsUrgent:    n.IsUrgent,
	}
}

// Active reports whether n is not in the recycle bin.
func (n *Note) Active() bool { return !n.IsDeleted }

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *p or "" for nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
