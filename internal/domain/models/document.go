// internal/domain/models/document.go
package models

import (
	"encoding/json"
	"time"
)

// DocumentVersion is the only version a document row is ever written at.
// The (slug, version) key leaves room for history, but nothing reads or
// writes any other version today.
const DocumentVersion = 1

// Document is one editor document addressed by its URL slug.
//
// Content is the editor's serialized state tree. A nil Content (JSON null)
// is the canonical form of "nothing written yet"; see content.IsEmpty.
type Document struct {
	Slug      string          `json:"slug"`
	Version   int             `json:"version"`
	Content   json.RawMessage `json:"content"`
	ReadOnly  bool            `json:"read_only"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HasContent reports whether the stored content is non-null.
func (d *Document) HasContent() bool {
	if d == nil || len(d.Content) == 0 {
		return false
	}
	return string(d.Content) != "null"
}
