package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/platform/logger"
	"github.com/taskmax/taskmax-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// It saves a new user and assigns the generated internal ID.
// Returns store.ErrMessengerIDExists if the messenger id is already registered.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("messenger_id", user.MessengerID))
		return err
	}

	query := `
		INSERT INTO users (messenger_id, user_name, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		user.MessengerID,
		user.UserName,
		user.RegisteredAt,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("messenger id already registered",
				slog.Int64("messenger_id", user.MessengerID))
			return store.ErrMessengerIDExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.Int64("messenger_id", user.MessengerID))
		return store.NewStoreError("user", "create", "failed to insert user", err)
	}

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.Int64("messenger_id", user.MessengerID))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, messenger_id, user_name, registered_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.MessengerID,
		&user.UserName,
		&user.RegisteredAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.Int64("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, store.NewStoreError("user", "get", "failed to query user", err)
	}

	return &user, nil
}

// GetByMessengerID implements store.UserStore.GetByMessengerID
// Returns store.ErrUserNotFound if no user is registered for the messenger id.
func (s *PostgresUserStore) GetByMessengerID(ctx context.Context, messengerID int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, messenger_id, user_name, registered_at
		FROM users
		WHERE messenger_id = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, messengerID).Scan(
		&user.ID,
		&user.MessengerID,
		&user.UserName,
		&user.RegisteredAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by messenger id",
				slog.Int64("messenger_id", messengerID))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by messenger ID",
			slog.String("error", err.Error()),
			slog.Int64("messenger_id", messengerID))
		return nil, store.NewStoreError("user", "get", "failed to query user", err)
	}

	return &user, nil
}

// ExistsByID implements store.UserStore.ExistsByID
func (s *PostgresUserStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		log.Error("failed to check user existence",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return false, store.NewStoreError("user", "exists", "failed to check user existence", err)
	}

	return exists, nil
}

// WithTx implements store.UserStore.WithTx
// It returns a new UserStore backed by the given transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}
