package docsystem

import (
	"time"
)

// Visibility controls who may write to a document.
type Visibility string

const (
	VisibilityPrivate Visibility = "private" // owner only
	VisibilityShared  Visibility = "shared"  // any authenticated user
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityShared:
		return true
	}
	return false
}

// DocumentRef is the composite identity of a document: (id, created_at).
// The document store keys each creation event separately, so the pair must
// travel together everywhere; collapsing it to the id alone would conflate
// re-created documents that share an id.
type DocumentRef struct {
	ID        string    `json:"document_id" db:"document_id"`
	CreatedAt time.Time `json:"document_created_at" db:"document_created_at"`
}

// IsZero reports whether the ref is unset.
func (r DocumentRef) IsZero() bool {
	return r.ID == "" && r.CreatedAt.IsZero()
}

type Document struct {
	ID                 string     `json:"id" db:"id"`
	Title              string     `json:"title" db:"title"`
	Content            string     `json:"content" db:"content"` // Markdown content
	Visibility         Visibility `json:"visibility" db:"visibility"`
	OwnerID            string     `json:"owner_id" db:"owner_id"`
	HasUnpushedChanges bool       `json:"has_unpushed_changes" db:"has_unpushed_changes"` // derived: true iff pending changes exist
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// Ref returns the document's composite identity.
func (d *Document) Ref() DocumentRef {
	return DocumentRef{ID: d.ID, CreatedAt: d.CreatedAt}
}
