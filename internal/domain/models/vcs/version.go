package vcs

import (
	"time"
)

// Version is an immutable full-content snapshot committed to a branch.
// Versions are append-only: no update or delete exists, corrections are new
// commits. ParentVersionID, when set, references a version in the same
// branch, forming a linear chain whose head is the newest version.
type Version struct {
	ID              string    `json:"id" db:"id"`
	BranchID        string    `json:"branch_id" db:"branch_id"`
	Content         string    `json:"content" db:"content"` // full snapshot, not a diff
	CommitMessage   *string   `json:"commit_message" db:"commit_message"`
	AuthorType      ActorType `json:"author_type" db:"author_type"`
	AuthorID        string    `json:"author_id" db:"author_id"`
	ParentVersionID *string   `json:"parent_version_id" db:"parent_version_id"` // NULL = first version on branch
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
