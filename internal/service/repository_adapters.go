package service

import (
	"context"
	"database/sql"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/store"
)

// NewTaskRepositoryAdapter creates a new adapter that allows a store.TaskStore
// to be used where a TaskRepository is expected.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: taskStore,
		db:        db,
	}
}

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository interface
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
	db        *sql.DB
}

// Create implements TaskRepository.Create
func (a *taskRepositoryAdapter) Create(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Create(ctx, task)
}

// GetByID implements TaskRepository.GetByID
func (a *taskRepositoryAdapter) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return a.taskStore.GetByID(ctx, id)
}

// ListByOwner implements TaskRepository.ListByOwner
func (a *taskRepositoryAdapter) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return a.taskStore.ListByOwner(ctx, ownerID)
}

// Update implements TaskRepository.Update
func (a *taskRepositoryAdapter) Update(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Update(ctx, task)
}

// Delete implements TaskRepository.Delete
func (a *taskRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	return a.taskStore.Delete(ctx, id)
}

// WithTx implements TaskRepository.WithTx
func (a *taskRepositoryAdapter) WithTx(tx *sql.Tx) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: a.taskStore.WithTx(tx),
		db:        a.db,
	}
}

// DB implements TaskRepository.DB
func (a *taskRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewUserRepositoryAdapter creates a new adapter that allows a store.UserStore
// to be used where a UserRepository is expected.
func NewUserRepositoryAdapter(userStore store.UserStore) UserRepository {
	return &userRepositoryAdapter{userStore: userStore}
}

// userRepositoryAdapter adapts a store.UserStore to the UserRepository interface
type userRepositoryAdapter struct {
	userStore store.UserStore
}

// Create implements UserRepository.Create
func (a *userRepositoryAdapter) Create(ctx context.Context, user *domain.User) error {
	return a.userStore.Create(ctx, user)
}

// GetByID implements UserRepository.GetByID
func (a *userRepositoryAdapter) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return a.userStore.GetByID(ctx, id)
}

// GetByMessengerID implements UserRepository.GetByMessengerID
func (a *userRepositoryAdapter) GetByMessengerID(ctx context.Context, messengerID int64) (*domain.User, error) {
	return a.userStore.GetByMessengerID(ctx, messengerID)
}

// ExistsByID implements UserRepository.ExistsByID
func (a *userRepositoryAdapter) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return a.userStore.ExistsByID(ctx, id)
}
