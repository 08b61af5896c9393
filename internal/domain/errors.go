package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrStorage marks infrastructure failures (database unavailable, bad
	// query). Kept distinct from domain-rule violations so callers can tell
	// "your request is invalid" from "the system is unavailable".
	ErrStorage = errors.New("storage failure")
)

// ConflictError represents an operation against a resource that is already in
// a terminal state (resolved pending change, resolved branch request) or a
// racing write that lost. Implements HTTPError for extensible error handling.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (branch, pending_change, branch_request)
	ResourceID   string // ID of the conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError wraps a lower-level database error so repositories surface a
// stable kind without leaking driver details into services and handlers.
type StorageError struct {
	Op  string // operation that failed, e.g. "insert version"
	Err error  // underlying driver error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes the underlying error for errors.Is/As chains
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to match against ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// StatusCode implements the HTTPError interface
func (e *StorageError) StatusCode() int {
	return http.StatusServiceUnavailable
}
