package docsystem

import (
	"context"

	models "inkwell/internal/domain/models/docsystem"
)

// DocumentService is the thin adapter surface over the document store that
// the version-control core needs: create for bootstrapping, get for reads
// and authorization. Everything else about documents lives outside this core.
type DocumentService interface {
	// CreateDocument creates a new document owned by the caller
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document by its composite key
	GetDocument(ctx context.Context, userID string, ref models.DocumentRef) (*models.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	UserID     string            `json:"-"` // Set by handler from auth context, not from request body
	Title      string            `json:"title"` // required
	Content    string            `json:"content"`
	Visibility models.Visibility `json:"visibility"` // defaults to private
}
