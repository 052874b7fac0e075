package store

import (
	"context"
	"database/sql"

	"github.com/taskmax/taskmax-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and assigns its internal ID.
	// Returns ErrMessengerIDExists if the messenger id is already registered.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their internal ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByMessengerID retrieves a user by their external messenger identity.
	// Returns ErrUserNotFound if the user does not exist.
	GetByMessengerID(ctx context.Context, messengerID int64) (*domain.User, error)

	// ExistsByID reports whether a user with the given internal ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
