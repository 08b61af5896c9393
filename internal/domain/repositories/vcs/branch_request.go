package vcs

import (
	"context"

	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
)

// BranchRequestRepository persists AI branch proposals awaiting approval.
type BranchRequestRepository interface {
	// Create inserts a new request with status=pending.
	Create(ctx context.Context, request *models.BranchRequest) error

	// GetByID retrieves a request.
	GetByID(ctx context.Context, id string) (*models.BranchRequest, error)

	// ListByDocument returns requests for a document, newest-first.
	ListByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.BranchRequest, error)

	// Resolve flips status from pending to the given terminal status and sets
	// responded_at, as one conditional update keyed on status='pending'. When
	// finalName is non-nil the proposed name is overwritten in the same
	// statement. Zero rows affected means the request was already resolved:
	// returns domain.ErrConflict.
	Resolve(ctx context.Context, id string, status models.BranchRequestStatus, finalName *string) (*models.BranchRequest, error)
}
