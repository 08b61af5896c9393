package vcs

import (
	"context"

	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
)

// PendingChangeRepository persists staged edits awaiting accept/reject.
type PendingChangeRepository interface {
	// Create inserts a new change with status=pending.
	Create(ctx context.Context, change *models.PendingChange) error

	// GetByID retrieves a change.
	GetByID(ctx context.Context, id string) (*models.PendingChange, error)

	// ListPendingByDocument returns unresolved changes for a document,
	// oldest-first (FIFO review order).
	ListPendingByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.PendingChange, error)

	// MarkResolved flips status from pending to the given terminal status and
	// sets resolved_at, as one conditional update keyed on status='pending'.
	// Zero rows affected means the change was already resolved: returns
	// domain.ErrConflict. This is what makes accept/reject exactly-once under
	// concurrent calls.
	MarkResolved(ctx context.Context, id string, status models.PendingChangeStatus) (*models.PendingChange, error)
}
