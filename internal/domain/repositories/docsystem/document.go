package docsystem

import (
	"context"

	models "inkwell/internal/domain/models/docsystem"
)

// DocumentRepository is the adapter surface over the external document store.
// This core reads documents for authorization, overwrites live content when a
// pending change is accepted or a local push lands, and maintains the derived
// has_unpushed_changes flag.
type DocumentRepository interface {
	// Create inserts a new document and fills in generated fields.
	Create(ctx context.Context, doc *models.Document) error

	// GetByRef retrieves a document by its composite (id, created_at) key.
	GetByRef(ctx context.Context, ref models.DocumentRef) (*models.Document, error)

	// UpdateContent overwrites the document's live content and bumps updated_at.
	UpdateContent(ctx context.Context, ref models.DocumentRef, content string) error

	// RecomputeUnpushedChanges sets has_unpushed_changes to whether any
	// pending change with status='pending' exists for the document. Runs as a
	// single statement so the flag can never drift from the queue under
	// concurrent resolution.
	RecomputeUnpushedChanges(ctx context.Context, ref models.DocumentRef) error
}
