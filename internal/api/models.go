package api

import (
	"time"

	"github.com/taskmax/taskmax-api/internal/domain"
)

// Common request/response structures

// CreateTaskRequest defines the payload for the task creation endpoint.
// Priority is an unbounded relative weight; any integer is accepted.
type CreateTaskRequest struct {
	Title         string     `json:"title"           validate:"required"`
	Priority      int        `json:"priority"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatorUserID int64      `json:"creator_user_id" validate:"required,gt=0"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// Every field overwrites the stored value; ownership is not part of the
// payload and can only change through delegation. Status accepts free-form
// values beyond the well-known TODO/IN_PROGRESS/COMPLETED set.
type UpdateTaskRequest struct {
	Title       string     `json:"title"  validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"required"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// DelegateTaskRequest defines the payload for the task delegation endpoint.
type DelegateTaskRequest struct {
	TargetUserID int64 `json:"target_user_id" validate:"required,gt=0"`
}

// TaskResponse defines the representation of a task returned by the API.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OwnerID     int64      `json:"owner_id"`
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		DueDate:     task.DueDate,
		OwnerID:     task.OwnerID,
	}
}

// tasksToResponse converts a list of domain tasks.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}
