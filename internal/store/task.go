package store

import (
	"context"
	"database/sql"

	"github.com/taskmax/taskmax-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store and assigns its internal ID.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its internal ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// The returned task is a fresh snapshot; mutating it does not affect
	// persisted state.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByOwner retrieves all tasks currently owned by ownerID, in the
	// store's natural (insertion) order. Returns an empty slice when the
	// owner has no tasks.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Update overwrites the stored task with the given state.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) TaskStore
}
