package vcs

import (
	"context"

	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
)

// BranchRequestService gates AI-originated branch creation behind approval.
// Approving a request does not create the branch; the caller materializes it
// through BranchService afterwards.
type BranchRequestService interface {
	// CreateBranchRequest stages an AI branch proposal with status=pending
	CreateBranchRequest(ctx context.Context, req *CreateBranchRequestRequest) (*models.BranchRequest, error)

	// ListBranchRequests returns a document's requests, newest-first
	ListBranchRequests(ctx context.Context, userID string, ref docModels.DocumentRef) ([]models.BranchRequest, error)

	// ResolveBranchRequest moves a pending request to approved or rejected,
	// exactly once. Resolving an already-resolved request fails with a
	// conflict, never silently overwrites.
	ResolveBranchRequest(ctx context.Context, req *ResolveBranchRequestRequest) (*models.BranchRequest, error)
}

// CreateBranchRequestRequest represents an AI branch proposal
type CreateBranchRequestRequest struct {
	Document     docModels.DocumentRef `json:"document"`
	UserID       string                `json:"-"` // Set by handler from auth context
	ProposedName string                `json:"proposed_name"` // required
	Reason       *string               `json:"reason,omitempty"`
	RequesterID  string                `json:"requester_id"` // AI agent identifier
}

// ResolveBranchRequestRequest represents the approval decision
type ResolveBranchRequestRequest struct {
	RequestID string `json:"-"` // Set by handler from the URL
	UserID    string `json:"-"` // Set by handler from auth context
	Decision  models.BranchRequestStatus `json:"decision"` // approved or rejected
	// FinalName, when supplied on approval, overwrites the proposed name
	// before the caller materializes the branch.
	FinalName *string `json:"final_name,omitempty"`
}
