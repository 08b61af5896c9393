package vcs

import (
	"context"

	models "inkwell/internal/domain/models/vcs"
)

// MergeRepository persists merge audit rows. Rows are write-once.
type MergeRepository interface {
	// Create inserts a merge audit record.
	Create(ctx context.Context, merge *models.Merge) error

	// ListByTargetBranch returns merges into a branch, newest-first.
	ListByTargetBranch(ctx context.Context, targetBranchID string) ([]models.Merge, error)
}
