package auth

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/docsystem"
	docsysRepo "inkwell/internal/domain/repositories/docsystem"
	docsysSvc "inkwell/internal/domain/services/docsystem"
)

// OwnerBasedAuthorizer implements DocumentAuthorizer using ownership checks.
//
// This is the simplest authorization model. For future extensibility:
// - RoleBasedAuthorizer: check the user's role on the document
// - SharingAuthorizer: check explicit share grants
type OwnerBasedAuthorizer struct {
	docRepo docsysRepo.DocumentRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(docRepo docsysRepo.DocumentRepository) docsysSvc.DocumentAuthorizer {
	return &OwnerBasedAuthorizer{docRepo: docRepo}
}

// CanWriteDocument checks whether userID may mutate the document
func (a *OwnerBasedAuthorizer) CanWriteDocument(ctx context.Context, userID string, ref models.DocumentRef) error {
	doc, err := a.docRepo.GetByRef(ctx, ref)
	if err != nil {
		return err
	}

	if doc.Visibility == models.VisibilityPrivate && doc.OwnerID != userID {
		return fmt.Errorf("write access denied to document %s: %w", ref.ID, domain.ErrForbidden)
	}

	return nil
}
