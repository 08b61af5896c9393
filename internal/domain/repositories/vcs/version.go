package vcs

import (
	"context"

	models "inkwell/internal/domain/models/vcs"
)

// VersionRepository persists the append-only version ledger. There are no
// update or delete operations; corrections are always new commits.
type VersionRepository interface {
	// Append inserts a new version whose parent_version_id is computed from
	// the branch's current head inside the same statement, under a
	// per-branch advisory lock. Must be called within a transaction
	// (TransactionManager.ExecTx) so concurrent commits to one branch
	// serialize instead of both claiming the same parent.
	Append(ctx context.Context, version *models.Version) error

	// GetByID retrieves a version.
	GetByID(ctx context.Context, id string) (*models.Version, error)

	// GetHead returns the newest version on a branch, or domain.ErrNotFound
	// if the branch has no versions yet.
	GetHead(ctx context.Context, branchID string) (*models.Version, error)

	// ListByBranch returns versions newest-first with limit/offset paging so
	// walking a long history is restartable and finite.
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]models.Version, error)
}
