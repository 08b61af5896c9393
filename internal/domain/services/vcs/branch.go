package vcs

import (
	"context"

	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
)

// BranchService handles branch lifecycle business logic
type BranchService interface {
	// CreateBranch creates a new named line of history for a document.
	// A new branch starts empty: no version is created until first commit.
	CreateBranch(ctx context.Context, req *CreateBranchRequest) (*models.Branch, error)

	// ListBranches returns a document's active branches, newest-first.
	// userID is used for authentication (any authenticated caller may list)
	ListBranches(ctx context.Context, userID string, ref docModels.DocumentRef) ([]models.Branch, error)

	// GetBranch retrieves a branch by id
	GetBranch(ctx context.Context, userID, branchID string) (*models.Branch, error)

	// DeactivateBranch soft-deletes a branch; versions remain in the ledger
	DeactivateBranch(ctx context.Context, userID, branchID string) error
}

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Document       docModels.DocumentRef `json:"document"`
	UserID         string                `json:"-"` // Set by handler from auth context, not from request body
	Name           string                `json:"name"` // Branch name (required)
	ParentBranchID *string               `json:"parent_branch_id,omitempty"`
	Creator        models.Actor          `json:"creator"`
}
