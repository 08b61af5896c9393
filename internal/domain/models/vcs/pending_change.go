package vcs

import (
	"encoding/json"
	"time"

	"inkwell/internal/domain/models/docsystem"
)

// PendingChangeStatus is the reconciliation state of a staged edit.
// Transitions pending -> {accepted|rejected} exactly once; terminal after.
type PendingChangeStatus string

const (
	PendingChangePending  PendingChangeStatus = "pending"
	PendingChangeAccepted PendingChangeStatus = "accepted"
	PendingChangeRejected PendingChangeStatus = "rejected"
)

// Valid reports whether s is one of the known change statuses.
func (s PendingChangeStatus) Valid() bool {
	switch s {
	case PendingChangePending, PendingChangeAccepted, PendingChangeRejected:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transition.
func (s PendingChangeStatus) Terminal() bool {
	return s == PendingChangeAccepted || s == PendingChangeRejected
}

// ChangeType records where a staged edit came from.
type ChangeType string

const (
	ChangeAISuggestion ChangeType = "ai_suggestion"
	ChangeUserEdit     ChangeType = "user_edit"
)

// Valid reports whether t is one of the known change types.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeAISuggestion, ChangeUserEdit:
		return true
	}
	return false
}

// PendingChange is a staged edit held against a document's live content until
// explicitly accepted (applied + versioned) or rejected. Changes is an opaque
// structured diff payload; this core stores and returns it without ever
// interpreting its contents.
type PendingChange struct {
	ID          string                `json:"id" db:"id"`
	Document    docsystem.DocumentRef `json:"document"`
	Changes     json.RawMessage       `json:"changes" db:"changes"`
	Description string                `json:"description" db:"description"`
	ChangeType  ChangeType            `json:"change_type" db:"change_type"`
	AuthorType  ActorType             `json:"author_type" db:"author_type"`
	AuthorID    string                `json:"author_id" db:"author_id"`
	Status      PendingChangeStatus   `json:"status" db:"status"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time            `json:"resolved_at" db:"resolved_at"`
}
