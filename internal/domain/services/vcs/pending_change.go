package vcs

import (
	"context"
	"encoding/json"

	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
)

// PendingChangeService stages edits without mutating live content and
// reconciles them: exactly one of {accept, reject} lands per staged change.
type PendingChangeService interface {
	// CreatePendingChange stages an edit and raises the document's
	// has_unpushed_changes flag (idempotent).
	CreatePendingChange(ctx context.Context, req *CreatePendingChangeRequest) (*models.PendingChange, error)

	// ListPendingChanges returns unresolved changes, oldest-first (FIFO
	// review order).
	ListPendingChanges(ctx context.Context, userID string, ref docModels.DocumentRef) ([]models.PendingChange, error)

	// AcceptPendingChange applies a staged edit: overwrites the document's
	// live content, records an audit version, and lowers the flag if nothing
	// else is pending. All of it commits atomically or not at all.
	AcceptPendingChange(ctx context.Context, req *AcceptPendingChangeRequest) error

	// RejectPendingChange discards a staged edit without touching document
	// content, then recomputes the flag.
	RejectPendingChange(ctx context.Context, userID, changeID string) error

	// PushLocalChanges is a direct user-authored commit that bypasses
	// staging: updates content, recomputes the flag, appends one version.
	PushLocalChanges(ctx context.Context, req *PushLocalChangesRequest) error
}

// CreatePendingChangeRequest represents a staged edit
type CreatePendingChangeRequest struct {
	Document    docModels.DocumentRef `json:"document"`
	UserID      string                `json:"-"` // Set by handler from auth context
	Changes     json.RawMessage       `json:"changes"` // opaque diff payload (required)
	Description string                `json:"description"`
	ChangeType  models.ChangeType     `json:"change_type"`
	Author      models.Actor          `json:"author"`
}

// AcceptPendingChangeRequest applies a staged edit
type AcceptPendingChangeRequest struct {
	ChangeID string `json:"-"` // Set by handler from the URL
	UserID   string `json:"-"` // Set by handler from auth context
	// NewContent is the document content after the change is applied. The
	// diff payload is opaque to this core, so the caller supplies the
	// already-applied result.
	NewContent string `json:"new_content"`
}

// PushLocalChangesRequest represents a direct commit that bypasses staging
type PushLocalChangesRequest struct {
	Document      docModels.DocumentRef `json:"document"`
	UserID        string                `json:"-"` // Set by handler from auth context
	Content       string                `json:"content"` // required
	CommitMessage *string               `json:"commit_message,omitempty"`
	Author        models.Actor          `json:"author"`
}
