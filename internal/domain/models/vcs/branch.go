package vcs

import (
	"time"

	"inkwell/internal/domain/models/docsystem"
)

// Branch is a named line of document content history, optionally forked from
// a parent branch. Parent references form a tree: at most one parent, no
// cycles (callers are trusted to supply well-formed parents). Branches are
// never hard-deleted, only soft-deactivated.
type Branch struct {
	ID             string                `json:"id" db:"id"`
	Document       docsystem.DocumentRef `json:"document"`
	Name           string                `json:"name" db:"name"`
	ParentBranchID *string               `json:"parent_branch_id" db:"parent_branch_id"` // NULL = root branch
	CreatedByType  ActorType             `json:"created_by_type" db:"created_by_type"`
	CreatedByID    string                `json:"created_by_id" db:"created_by_id"`
	IsActive       bool                  `json:"is_active" db:"is_active"`
	CreatedAt      time.Time             `json:"created_at" db:"created_at"`
}

// MainBranchName is the per-document default branch that receives versions
// recorded by pending-change acceptance and local pushes. It is created
// lazily on first need.
const MainBranchName = "main"
