package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/events"
	"github.com/taskmax/taskmax-api/internal/store"
)

// TaskRepository defines the repository interface for the task workflow.
// It mirrors store.TaskStore plus the transaction plumbing the service needs
// to run read-then-write sequences atomically.
type TaskRepository interface {
	// Create saves a new task to the store and assigns its internal ID.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its internal ID.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByOwner retrieves all tasks currently owned by ownerID.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Update overwrites the stored task with the given state.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// CreateTaskRequest carries the fields needed to create a task.
type CreateTaskRequest struct {
	Title         string
	Priority      int
	DueDate       *time.Time
	CreatorUserID int64
}

// TaskUpdate carries the mutable task fields for UpdateTask. Every field
// overwrites the stored value; ownership can only change through delegation.
type TaskUpdate struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    int
	DueDate     *time.Time
}

// TaskService provides the task ownership and delegation workflow.
//
// Authorization is uniform across all mutating operations: only the current
// owner may update, delete, delegate or complete a task. Violations fail with
// ErrNotTaskOwner and leave the task unmodified.
type TaskService interface {
	// CreateTask creates a task owned by the creator with status TODO and
	// publishes a task.created event after the insert has been committed.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)

	// GetTaskByID retrieves a task without an ownership check. It exists for
	// in-process consumers such as notification dispatch; external surfaces
	// go through GetTaskForRequester instead.
	// Returns ErrTaskNotFound if the task does not exist.
	GetTaskByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetTaskForRequester retrieves a task on behalf of requesterID.
	// Returns ErrTaskNotFound if the task does not exist and ErrNotTaskOwner
	// if the requester is not the current owner.
	GetTaskForRequester(ctx context.Context, id, requesterID int64) (*domain.Task, error)

	// ListTasksForUser returns all tasks currently owned by ownerID, in the
	// store's natural order.
	ListTasksForUser(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// UpdateTask overwrites the task's mutable fields on behalf of requesterID.
	// The owner never changes through this operation. No event is published.
	UpdateTask(ctx context.Context, id int64, update TaskUpdate, requesterID int64) (*domain.Task, error)

	// DeleteTask permanently removes the task on behalf of requesterID.
	// No event is published.
	DeleteTask(ctx context.Context, id, requesterID int64) error

	// DelegateTask transfers ownership of the task to targetUserID on behalf
	// of requesterID and publishes a task.delegated event after commit.
	// Checks run in a fixed order: task existence, requester ownership,
	// target user existence.
	DelegateTask(ctx context.Context, taskID, targetUserID, requesterID int64) error

	// CompleteTask sets the task's status to COMPLETED on behalf of
	// requesterID and publishes a task.completed event after commit.
	// Completing an already-completed task repeats the transition and
	// publishes the event again.
	CompleteTask(ctx context.Context, taskID, requesterID int64) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskRepo TaskRepository
	userRepo UserRepository
	emitter  events.EventEmitter
	logger   *slog.Logger

	// runTx executes fn within a transaction boundary; replaced in tests.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskRepo TaskRepository,
	userRepo UserRepository,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if taskRepo == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "taskRepo cannot be nil"}
	}
	if userRepo == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "userRepo cannot be nil"}
	}
	if emitter == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "emitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
		emitter:  emitter,
		logger:   logger.With("component", "task_service"),
		runTx:    store.RunInTransaction,
	}, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.Title, req.Priority, req.DueDate, req.CreatorUserID)
	if err != nil {
		s.logger.Warn("invalid task data",
			"error", err,
			"creator_user_id", req.CreatorUserID)
		return nil, NewTaskServiceError("create_task", "invalid task data", err)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"creator_user_id", req.CreatorUserID)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", task.OwnerID)

	s.publish(ctx, events.TypeTaskCreated, events.TaskCreatedPayload{TaskID: task.ID})

	return task, nil
}

// GetTaskByID implements TaskService.GetTaskByID.
func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// GetTaskForRequester implements TaskService.GetTaskForRequester.
func (s *taskServiceImpl) GetTaskForRequester(ctx context.Context, id, requesterID int64) (*domain.Task, error) {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !task.IsOwnedBy(requesterID) {
		s.logger.Warn("read denied for non-owner",
			"task_id", id,
			"requester_id", requesterID,
			"owner_id", task.OwnerID)
		return nil, newForbiddenError(requesterID, id)
	}

	return task, nil
}

// ListTasksForUser implements TaskService.ListTasksForUser.
func (s *taskServiceImpl) ListTasksForUser(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"owner_id", ownerID)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	update TaskUpdate,
	requesterID int64,
) (*domain.Task, error) {
	var updated *domain.Task

	err := s.runTx(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		task, err := s.loadOwnedTask(ctx, txRepo, id, requesterID)
		if err != nil {
			return err
		}

		task.Title = update.Title
		task.Description = update.Description
		task.Status = update.Status
		task.Priority = update.Priority
		task.DueDate = update.DueDate

		if err := txRepo.Update(ctx, task); err != nil {
			return NewTaskServiceError("update_task", "failed to save task", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", id,
		"requester_id", requesterID)
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id, requesterID int64) error {
	err := s.runTx(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		if _, err := s.loadOwnedTask(ctx, txRepo, id, requesterID); err != nil {
			return err
		}

		if err := txRepo.Delete(ctx, id); err != nil {
			return NewTaskServiceError("delete_task", "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted",
		"task_id", id,
		"requester_id", requesterID)
	return nil
}

// DelegateTask implements TaskService.DelegateTask.
func (s *taskServiceImpl) DelegateTask(ctx context.Context, taskID, targetUserID, requesterID int64) error {
	var previousOwnerID int64

	err := s.runTx(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		task, err := s.loadOwnedTask(ctx, txRepo, taskID, requesterID)
		if err != nil {
			return err
		}

		exists, err := s.userRepo.ExistsByID(ctx, targetUserID)
		if err != nil {
			return NewTaskServiceError("delegate_task", "failed to check target user", err)
		}
		if !exists {
			return ErrUserNotFound
		}

		previousOwnerID = task.OwnerID
		task.OwnerID = targetUserID

		if err := txRepo.Update(ctx, task); err != nil {
			return NewTaskServiceError("delegate_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task delegated",
		"task_id", taskID,
		"previous_owner_id", previousOwnerID,
		"new_owner_id", targetUserID)

	s.publish(ctx, events.TypeTaskDelegated, events.TaskDelegatedPayload{
		TaskID:          taskID,
		PreviousOwnerID: previousOwnerID,
		NewOwnerID:      targetUserID,
	})

	return nil
}

// CompleteTask implements TaskService.CompleteTask.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, taskID, requesterID int64) error {
	err := s.runTx(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		task, err := s.loadOwnedTask(ctx, txRepo, taskID, requesterID)
		if err != nil {
			return err
		}

		task.Status = domain.StatusCompleted

		if err := txRepo.Update(ctx, task); err != nil {
			return NewTaskServiceError("complete_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task completed",
		"task_id", taskID,
		"requester_id", requesterID)

	s.publish(ctx, events.TypeTaskCompleted, events.TaskCompletedPayload{TaskID: taskID})

	return nil
}

// loadOwnedTask retrieves the task and verifies the requester's ownership.
// The check order is fixed: task existence first, then ownership.
func (s *taskServiceImpl) loadOwnedTask(
	ctx context.Context,
	repo TaskRepository,
	taskID, requesterID int64,
) (*domain.Task, error) {
	task, err := repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, NewTaskServiceError("load_task", "failed to retrieve task", err)
	}

	if !task.IsOwnedBy(requesterID) {
		s.logger.Warn("mutation denied for non-owner",
			"task_id", taskID,
			"requester_id", requesterID,
			"owner_id", task.OwnerID)
		return nil, newForbiddenError(requesterID, taskID)
	}

	return task, nil
}

// publish emits an event after a successful commit. Delivery is best-effort:
// a failed notification must never fail the task mutation it follows, so
// errors are logged and swallowed here.
func (s *taskServiceImpl) publish(ctx context.Context, eventType string, payload any) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to build event",
			"error", err,
			"event_type", eventType)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit event",
			"error", err,
			"event_type", eventType,
			"event_id", event.ID)
	}
}
