package entity

import "time"

// Document is implemented by every persisted resource.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	// LookupName returns the value matched by the name lookup route.
	LookupName() string
	// UniqueKeys returns the column/value pairs that must be unique across documents.
	UniqueKeys() map[string]string
	Stamp(now time.Time)
}

// Meta carries the identifier and timestamps shared by all resources.
type Meta struct {
	ID        string    `bun:"id,pk" bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time `bun:"created_at,notnull" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" bson:"updatedAt" json:"updatedAt"`
}

// DocumentID returns the stored identifier.
func (m *Meta) DocumentID() string { return m.ID }

// SetDocumentID assigns the identifier generated by the storage backend.
func (m *Meta) SetDocumentID(id string) { m.ID = id }

// Stamp sets CreatedAt on first persistence and always refreshes UpdatedAt.
func (m *Meta) Stamp(now time.Time) {
	now = now.UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
