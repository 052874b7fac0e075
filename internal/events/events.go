package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the task workflow.
const (
	// TypeTaskCreated is published after a task has been created and committed.
	TypeTaskCreated = "task.created"

	// TypeTaskDelegated is published after task ownership has changed hands.
	TypeTaskDelegated = "task.delegated"

	// TypeTaskCompleted is published after a task has been marked completed.
	TypeTaskCompleted = "task.completed"
)

// Event represents something that happened to a task, published by the
// workflow after the corresponding mutation has been committed. The payload
// is serialized JSON so handlers stay decoupled from the service types.
type Event struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created.
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// TaskCreatedPayload is the payload of a TypeTaskCreated event.
type TaskCreatedPayload struct {
	TaskID int64 `json:"task_id"`
}

// TaskDelegatedPayload is the payload of a TypeTaskDelegated event.
type TaskDelegatedPayload struct {
	TaskID          int64 `json:"task_id"`
	PreviousOwnerID int64 `json:"previous_owner_id"`
	NewOwnerID      int64 `json:"new_owner_id"`
}

// TaskCompletedPayload is the payload of a TypeTaskCompleted event.
type TaskCompletedPayload struct {
	TaskID int64 `json:"task_id"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
