package domain

import (
	"time"
)

// TaskStatus represents the lifecycle state of a task.
//
// The three well-known states are TODO, IN_PROGRESS and COMPLETED, but the
// status field deliberately stays a free-form string: updates may carry any
// value and the workflow never enforces transition ordering. Only CompleteTask
// pins the status, to StatusCompleted.
type TaskStatus string

// Well-known task statuses.
const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// Task represents a single unit of work owned by exactly one user.
// OwnerID is the sole authorization anchor: only the current owner may
// update, delete, delegate or complete the task.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OwnerID     int64      `json:"owner_id"`
}

// NewTask creates a new Task owned by ownerID with status TODO.
// The internal ID is assigned by the store on insert; CreatedAt is set to the
// current time and never changes afterwards. Returns an error if validation
// fails.
func NewTask(title string, priority int, dueDate *time.Time, ownerID int64) (*Task, error) {
	task := &Task{
		Title:     title,
		Status:    StatusTodo,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
		DueDate:   dueDate,
		OwnerID:   ownerID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}

	if t.OwnerID <= 0 {
		return ErrInvalidOwnerID
	}

	return nil
}

// IsOwnedBy reports whether userID is the current owner of the task.
func (t *Task) IsOwnedBy(userID int64) bool {
	return t.OwnerID == userID
}
