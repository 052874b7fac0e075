package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the services. The transport layers translate
// them into user-facing messages and HTTP statuses.
var (
	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotTaskOwner indicates that the requester is not the current owner
	// of the task and therefore may not read or mutate it. Errors wrapping
	// this sentinel carry the requester and task ids for diagnostics.
	ErrNotTaskOwner = errors.New("requester is not the task owner")
)

// newForbiddenError builds an ErrNotTaskOwner error carrying the requester
// and task ids for diagnostics.
func newForbiddenError(requesterID, taskID int64) error {
	return fmt.Errorf("%w: user %d may not modify task %d", ErrNotTaskOwner, requesterID, taskID)
}

// TaskServiceError wraps unexpected errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "delegate_task").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known sentinel errors are returned directly without wrapping so callers
// can match them with errors.Is.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNotTaskOwner) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IdentityServiceError wraps unexpected errors from the identity service with context.
type IdentityServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for IdentityServiceError.
func (e *IdentityServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("identity service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *IdentityServiceError) Unwrap() error {
	return e.Err
}

// NewIdentityServiceError creates a new IdentityServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewIdentityServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrUserNotFound) {
		return err
	}

	return &IdentityServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
