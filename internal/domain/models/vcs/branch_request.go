package vcs

import (
	"time"

	"inkwell/internal/domain/models/docsystem"
)

// BranchRequestStatus is the approval state of an AI branch proposal.
// Transitions pending -> {approved|rejected} exactly once; terminal after.
type BranchRequestStatus string

const (
	BranchRequestPending  BranchRequestStatus = "pending"
	BranchRequestApproved BranchRequestStatus = "approved"
	BranchRequestRejected BranchRequestStatus = "rejected"
)

// Valid reports whether s is one of the known request statuses.
func (s BranchRequestStatus) Valid() bool {
	switch s {
	case BranchRequestPending, BranchRequestApproved, BranchRequestRejected:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transition.
func (s BranchRequestStatus) Terminal() bool {
	return s == BranchRequestApproved || s == BranchRequestRejected
}

// BranchRequest gates AI-originated branch creation behind human approval.
// Approval does not materialize the branch; that is a separate caller-driven
// step through the branch manager.
type BranchRequest struct {
	ID              string                `json:"id" db:"id"`
	Document        docsystem.DocumentRef `json:"document"`
	ProposedName    string                `json:"proposed_name" db:"proposed_name"`
	Reason          *string               `json:"reason" db:"reason"`
	RequestedByType ActorType             `json:"requested_by_type" db:"requested_by_type"` // always "ai"
	RequestedByID   string                `json:"requested_by_id" db:"requested_by_id"`
	Status          BranchRequestStatus   `json:"status" db:"status"`
	RespondedAt     *time.Time            `json:"responded_at" db:"responded_at"`
	CreatedAt       time.Time             `json:"created_at" db:"created_at"`
}
