package vcs

import (
	"context"

	models "inkwell/internal/domain/models/vcs"
)

// VersionService handles the append-only version ledger
type VersionService interface {
	// CommitVersion appends a snapshot to a branch. The parent version is the
	// branch's current head, computed atomically so racing commits cannot
	// fork the chain.
	CommitVersion(ctx context.Context, req *CommitVersionRequest) (*models.Version, error)

	// ListVersions returns a branch's versions, newest-first, paged
	ListVersions(ctx context.Context, userID, branchID string, limit, offset int) ([]models.Version, error)
}

// CommitVersionRequest represents a version commit request
type CommitVersionRequest struct {
	BranchID      string       `json:"-"` // Set by handler from the URL, not from request body
	UserID        string       `json:"-"` // Set by handler from auth context
	Content       string       `json:"content"` // full snapshot (required)
	CommitMessage *string      `json:"commit_message,omitempty"`
	Author        models.Actor `json:"author"`
}
