package apperror

import (
	"errors"
	"fmt"
)

// Error kinds shared by repositories, the workflow engine and controllers.
// Match them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrValidation          = errors.New("validation failed")
	ErrPersistence         = errors.New("persistence failure")
)

// PersistenceError reports a failed storage operation. The underlying cause is
// kept for diagnostics (errors.Unwrap, logs) but not printed by Error.
type PersistenceError struct {
	Op  string
	Err error
}

// Persistence wraps err as a PersistenceError for the given operation.
func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return "persistence failure: " + e.Op
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// ValidationError reports input that was rejected before reaching storage,
// or a stored value that cannot be decoded.
type ValidationError struct {
	Field  string
	Reason string
}

// Validation builds a ValidationError.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Denied returns an authorization failure carrying a short explanation.
func Denied(reason string) error {
	return fmt.Errorf("%w: %s", ErrAuthorizationDenied, reason)
}

// NotFound returns a lookup miss for the named entity.
func NotFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// NotFoundBy returns a lookup miss for an entity searched by another key.
func NotFoundBy(entity, field string, key any) error {
	return fmt.Errorf("%s with %s %v: %w", entity, field, key, ErrNotFound)
}
