// Package apperr defines the error taxonomy shared by the repositories
// and the approval workflow. Expected failure modes are returned as one
// of these types so HTTP handlers can map them to status codes with
// errors.As; only contract violations are ever panics.
package apperr

import (
	"fmt"
)

// ValidationError reports a missing or invalid required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an operation targeting a non-existent record.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// StateConflictError reports an operation that violates the item state
// machine, e.g. re-approving a reviewed item or converting a submission
// that was never approved.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return e.Reason
}

// Conflict builds a StateConflictError.
func Conflict(reason string) error {
	return &StateConflictError{Reason: reason}
}

// StorageError reports a media upload failure for a single object.
// It is non-fatal to the overall submission.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError reports a transport or store failure (timeout,
// connectivity, driver error).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps a store failure.
func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
