package repositories

import (
	"context"
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrEmptyResult is returned when a statement that must yield a row yields none
	ErrEmptyResult = errors.New("empty result")

	// ErrInvalidID is returned when an invalid ID is provided
	ErrInvalidID = errors.New("invalid ID")

	// ErrConnection is returned when database connection fails
	ErrConnection = errors.New("database connection error")

	// ErrTimeout is returned when an operation times out
	ErrTimeout = errors.New("operation timeout")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *RepositoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRepositoryError creates a new repository error. Context deadlines are
// reported as ErrTimeout so callers can tell them apart from driver failures.
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RepositoryError{
			Op:      op,
			Entity:  entity,
			ID:      id,
			Err:     fmt.Errorf("%w: %w", ErrTimeout, err),
			Message: fmt.Sprintf("%s %s timed out", entity, op),
		}
	}
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// EmptyResultError creates an "empty result" repository error
func EmptyResultError(op, entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Err:     ErrEmptyResult,
		Message: fmt.Sprintf("%s %s returned no row for ID %s", entity, op, id),
	}
}

// InvalidIDError creates an "invalid ID" repository error
func InvalidIDError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("invalid %s ID: %s", entity, id),
	}
}

// ConnectionError creates a "connection" repository error
func ConnectionError(err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  "database",
		Err:     fmt.Errorf("%w: %w", ErrConnection, err),
		Message: fmt.Sprintf("database connection failed: %v", err),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsEmptyResult checks if an error is an "empty result" error
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}

// IsInvalidID checks if an error is an "invalid ID" error
func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

// IsConnection checks if an error is a "connection" error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsTimeout checks if an error is a "timeout" error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
