package docsystem

import (
	"context"

	models "inkwell/internal/domain/models/docsystem"
)

// DocumentAuthorizer decides whether a caller may act on a document.
// Visibility rules: private documents accept writes from their owner only;
// shared documents accept writes from any authenticated caller.
type DocumentAuthorizer interface {
	// CanWriteDocument returns nil when userID may mutate the document,
	// domain.ErrForbidden when not, domain.ErrNotFound when the document
	// does not exist.
	CanWriteDocument(ctx context.Context, userID string, ref models.DocumentRef) error
}
