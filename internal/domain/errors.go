package domain

import "errors"

// Common validation errors used across the domain entities.
var (
	// ErrEmptyTitle is returned when a task is created or updated without a title.
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrInvalidOwnerID is returned when a task references a non-positive owner id.
	ErrInvalidOwnerID = errors.New("owner ID must be positive")

	// ErrInvalidMessengerID is returned when a user carries a non-positive messenger id.
	ErrInvalidMessengerID = errors.New("messenger ID must be positive")

	// ErrEmptyUserName is returned when a user is created without a display name.
	ErrEmptyUserName = errors.New("user name cannot be empty")
)
