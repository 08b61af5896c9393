package vcs

import (
	"time"
)

// MergeStrategy selects how merged content is produced. Neither strategy
// performs any diffing: "auto" takes the source head outright, "manual"
// records caller-reconciled content.
type MergeStrategy string

const (
	MergeAuto   MergeStrategy = "auto"
	MergeManual MergeStrategy = "manual"
)

// Valid reports whether s is one of the known merge strategies.
func (s MergeStrategy) Valid() bool {
	switch s {
	case MergeAuto, MergeManual:
		return true
	}
	return false
}

// Merge is a pure audit record of combining two branches; it is never
// mutated after creation. The produced snapshot lives in MergedVersionID on
// the target branch.
type Merge struct {
	ID              string        `json:"id" db:"id"`
	SourceBranchID  string        `json:"source_branch_id" db:"source_branch_id"`
	TargetBranchID  string        `json:"target_branch_id" db:"target_branch_id"`
	MergedVersionID string        `json:"merged_version_id" db:"merged_version_id"`
	MergedByType    ActorType     `json:"merged_by_type" db:"merged_by_type"`
	MergedByID      string        `json:"merged_by_id" db:"merged_by_id"`
	MergeStrategy   MergeStrategy `json:"merge_strategy" db:"merge_strategy"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}
