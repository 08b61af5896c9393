package vcs

import (
	"context"

	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
)

// BranchRepository persists branches. Branches are soft-deactivated, never
// hard-deleted; listing returns active branches only.
type BranchRepository interface {
	// Create inserts a new branch and fills in generated fields.
	Create(ctx context.Context, branch *models.Branch) error

	// GetByID retrieves a branch regardless of active state.
	GetByID(ctx context.Context, id string) (*models.Branch, error)

	// ListByDocument returns active branches for a document, newest-first.
	ListByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.Branch, error)

	// CreateIfNotExists inserts the branch unless an active branch with the
	// same name already exists for the document, in which case the existing
	// one is returned. Used to materialize the per-document main branch
	// lazily and idempotently.
	CreateIfNotExists(ctx context.Context, branch *models.Branch) (*models.Branch, error)

	// Deactivate soft-deletes a branch (is_active=false). Returns
	// domain.ErrNotFound if no active branch matches.
	Deactivate(ctx context.Context, id string) error
}
