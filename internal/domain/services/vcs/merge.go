package vcs

import (
	"context"

	models "inkwell/internal/domain/models/vcs"
)

// MergeService records merges between branches. This is a thin
// provenance-recording layer: no diffing or conflict resolution happens here.
type MergeService interface {
	// Merge combines two branches' content into one new version on the
	// target branch plus one merge audit row. The source branch is never
	// mutated.
	Merge(ctx context.Context, req *MergeRequest) (*MergeResult, error)
}

// MergeRequest represents a merge request
type MergeRequest struct {
	UserID         string               `json:"-"` // Set by handler from auth context
	SourceBranchID string               `json:"source_branch_id"`
	TargetBranchID string               `json:"target_branch_id"`
	Strategy       models.MergeStrategy `json:"strategy"`
	// Content is the caller-reconciled snapshot, required when Strategy is
	// manual. Ignored for auto, where the source head wins outright.
	Content *string      `json:"content,omitempty"`
	Merger  models.Actor `json:"merger"`
}

// MergeResult is the audit row and the version it produced
type MergeResult struct {
	Merge   *models.Merge   `json:"merge"`
	Version *models.Version `json:"version"`
}
