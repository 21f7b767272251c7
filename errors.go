package persist

import (
	"errors"
	"fmt"

	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/dialect/sql/sqlgen"
	"github.com/syssam/persist/schema"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("persist: entity not found")

	// ErrNoIdentifier is returned when an operation needs the identifier of
	// an entity that has none.
	ErrNoIdentifier = sqlgen.ErrNoIdentifier

	// ErrRemoved is returned when persisting or merging an entity that is
	// being removed.
	ErrRemoved = errors.New("persist: entity is removed")
)

type (
	// ConfigurationError is returned when an entity type cannot be mapped.
	ConfigurationError = schema.ConfigurationError
	// AccessError is returned when an entity field cannot be read or written.
	AccessError = schema.AccessError
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("persist: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("persist: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError with the ID that was searched for.
func NewNotFoundError(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ExecutionError wraps an error returned by the Executor with the statement
// that caused it.
type ExecutionError struct {
	Entity    string // Entity type
	Op        string // Operation (e.g., "find", "persist", "merge", "remove")
	Statement string // Statement that failed
	Err       error  // Underlying error
}

// Error returns the error string.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("persist: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsConstraint reports if the statement violated a database constraint.
func (e *ExecutionError) IsConstraint() bool {
	return sql.IsConstraintError(e.Err)
}

// IsExecutionError returns true if the error is an ExecutionError.
func IsExecutionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecutionError
	return errors.As(err, &e)
}

// IsConstraintError returns true if the error is an ExecutionError caused by
// a database constraint violation.
func IsConstraintError(err error) bool {
	var e *ExecutionError
	return errors.As(err, &e) && e.IsConstraint()
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	return schema.IsConfigurationError(err)
}
