package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/store"
)

// UserRepository defines the repository interface the identity service needs.
// It is a subset of store.UserStore so the service stays decoupled from the
// persistence package's transaction plumbing.
type UserRepository interface {
	// Create saves a new user to the store and assigns its internal ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their internal ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByMessengerID retrieves a user by their external messenger identity.
	GetByMessengerID(ctx context.Context, messengerID int64) (*domain.User, error)

	// ExistsByID reports whether a user with the given internal ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// IdentityService resolves messenger-originated identities to internal user
// records, creating them on first contact.
type IdentityService interface {
	// FindOrCreateUser looks up the user registered for messengerID, creating
	// a new record when none exists. Repeated calls with the same messengerID
	// return the existing record unchanged, even if userName differs: the
	// display name recorded at registration wins.
	FindOrCreateUser(ctx context.Context, messengerID int64, userName string) (*domain.User, error)

	// UserExists reports whether a user is registered for the messenger id.
	UserExists(ctx context.Context, messengerID int64) (bool, error)

	// UserExistsByID reports whether a user with the internal id exists.
	UserExistsByID(ctx context.Context, id int64) (bool, error)

	// FindUserByMessengerID retrieves a user by messenger identity.
	// Returns ErrUserNotFound if no user is registered for it.
	FindUserByMessengerID(ctx context.Context, messengerID int64) (*domain.User, error)

	// FindUserByID retrieves a user by internal id.
	// Returns ErrUserNotFound if the user does not exist.
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// identityServiceImpl implements the IdentityService interface.
type identityServiceImpl struct {
	userRepo UserRepository
	logger   *slog.Logger
}

// NewIdentityService creates a new IdentityService.
// It returns an error if the repository dependency is nil.
func NewIdentityService(userRepo UserRepository, logger *slog.Logger) (IdentityService, error) {
	if userRepo == nil {
		return nil, &IdentityServiceError{
			Operation: "create_service",
			Message:   "userRepo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &identityServiceImpl{
		userRepo: userRepo,
		logger:   logger.With("component", "identity_service"),
	}, nil
}

// FindOrCreateUser implements IdentityService.FindOrCreateUser.
// Creation races on the same messenger id are resolved by the store's unique
// constraint: on a duplicate the existing record is re-read and returned.
func (s *identityServiceImpl) FindOrCreateUser(
	ctx context.Context,
	messengerID int64,
	userName string,
) (*domain.User, error) {
	existing, err := s.userRepo.GetByMessengerID(ctx, messengerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		s.logger.Error("failed to look up user by messenger id",
			"error", err,
			"messenger_id", messengerID)
		return nil, NewIdentityServiceError("find_or_create_user", "failed to look up user", err)
	}

	user, err := domain.NewUser(messengerID, userName)
	if err != nil {
		s.logger.Warn("invalid user data on first contact",
			"error", err,
			"messenger_id", messengerID)
		return nil, NewIdentityServiceError("find_or_create_user", "invalid user data", err)
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		// Another request registered the same messenger id first; the
		// earlier record wins and is returned unchanged.
		if errors.Is(err, store.ErrMessengerIDExists) {
			winner, lookupErr := s.userRepo.GetByMessengerID(ctx, messengerID)
			if lookupErr != nil {
				s.logger.Error("failed to re-read user after creation race",
					"error", lookupErr,
					"messenger_id", messengerID)
				return nil, NewIdentityServiceError(
					"find_or_create_user",
					"failed to resolve creation race",
					lookupErr,
				)
			}
			return winner, nil
		}

		s.logger.Error("failed to create user",
			"error", err,
			"messenger_id", messengerID)
		return nil, NewIdentityServiceError("find_or_create_user", "failed to create user", err)
	}

	s.logger.Info("user registered on first contact",
		"user_id", user.ID,
		"messenger_id", messengerID)
	return user, nil
}

// UserExists implements IdentityService.UserExists.
func (s *identityServiceImpl) UserExists(ctx context.Context, messengerID int64) (bool, error) {
	_, err := s.userRepo.GetByMessengerID(ctx, messengerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, nil
		}
		return false, NewIdentityServiceError("user_exists", "failed to look up user", err)
	}
	return true, nil
}

// UserExistsByID implements IdentityService.UserExistsByID.
func (s *identityServiceImpl) UserExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := s.userRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, NewIdentityServiceError("user_exists_by_id", "failed to check user existence", err)
	}
	return exists, nil
}

// FindUserByMessengerID implements IdentityService.FindUserByMessengerID.
func (s *identityServiceImpl) FindUserByMessengerID(
	ctx context.Context,
	messengerID int64,
) (*domain.User, error) {
	user, err := s.userRepo.GetByMessengerID(ctx, messengerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewIdentityServiceError("find_user_by_messenger_id", "failed to look up user", err)
	}
	return user, nil
}

// FindUserByID implements IdentityService.FindUserByID.
func (s *identityServiceImpl) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewIdentityServiceError("find_user_by_id", "failed to look up user", err)
	}
	return user, nil
}
