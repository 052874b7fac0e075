// Package notification turns task lifecycle events into messenger
// notifications for the affected users.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskmax/taskmax-api/internal/events"
	"github.com/taskmax/taskmax-api/internal/service"
)

// MessageSender delivers a text message to a messenger user.
type MessageSender interface {
	SendMessage(ctx context.Context, messengerID int64, text string) error
}

// Listener implements the events.EventHandler interface. It resolves the
// users affected by a task event and sends them messenger notifications.
//
// Delivery is best-effort: a recipient who cannot be resolved is skipped
// silently and send failures are logged, never propagated. A lost
// notification must not disturb the workflow that triggered it.
type Listener struct {
	sender   MessageSender
	identity service.IdentityService
	tasks    service.TaskService
	logger   *slog.Logger
}

// NewListener creates a new notification listener.
// It returns an error if any of the required dependencies are nil.
func NewListener(
	sender MessageSender,
	identity service.IdentityService,
	tasks service.TaskService,
	logger *slog.Logger,
) (*Listener, error) {
	if sender == nil {
		return nil, errors.New("notification: sender cannot be nil")
	}
	if identity == nil {
		return nil, errors.New("notification: identity service cannot be nil")
	}
	if tasks == nil {
		return nil, errors.New("notification: task service cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Listener{
		sender:   sender,
		identity: identity,
		tasks:    tasks,
		logger:   logger.With("component", "notification_listener"),
	}, nil
}

// Ensure Listener implements events.EventHandler
var _ events.EventHandler = (*Listener)(nil)

// HandleEvent processes task lifecycle events. Unknown event types are
// ignored. It always returns nil: notification failures are logged here
// and never bubble up to the emitter.
func (l *Listener) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeTaskCreated:
		l.handleTaskCreated(ctx, event)
	case events.TypeTaskDelegated:
		l.handleTaskDelegated(ctx, event)
	case events.TypeTaskCompleted:
		l.handleTaskCompleted(ctx, event)
	default:
		l.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
	}
	return nil
}

// handleTaskCreated notifies the task's owner that their task was created.
func (l *Listener) handleTaskCreated(ctx context.Context, event *events.Event) {
	var payload events.TaskCreatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		l.logger.Error("failed to unmarshal payload",
			"error", err,
			"event_id", event.ID)
		return
	}

	task, err := l.tasks.GetTaskByID(ctx, payload.TaskID)
	if err != nil {
		l.logger.Error("failed to load task for notification",
			"error", err,
			"task_id", payload.TaskID,
			"event_id", event.ID)
		return
	}

	text := fmt.Sprintf("✅ Task created: %s", task.Title)
	l.notifyUser(ctx, event, task.OwnerID, text)
}

// handleTaskDelegated notifies both sides of a delegation. The two
// notifications are independent: a missing previous owner does not block
// the message to the new owner, and vice versa.
func (l *Listener) handleTaskDelegated(ctx context.Context, event *events.Event) {
	var payload events.TaskDelegatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		l.logger.Error("failed to unmarshal payload",
			"error", err,
			"event_id", event.ID)
		return
	}

	newOwnerText := fmt.Sprintf("📋 Task #%d has been delegated to you", payload.TaskID)
	l.notifyUser(ctx, event, payload.NewOwnerID, newOwnerText)

	previousOwnerText := fmt.Sprintf("📤 You delegated task #%d to user #%d",
		payload.TaskID, payload.NewOwnerID)
	l.notifyUser(ctx, event, payload.PreviousOwnerID, previousOwnerText)
}

// handleTaskCompleted congratulates the task's owner.
func (l *Listener) handleTaskCompleted(ctx context.Context, event *events.Event) {
	var payload events.TaskCompletedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		l.logger.Error("failed to unmarshal payload",
			"error", err,
			"event_id", event.ID)
		return
	}

	task, err := l.tasks.GetTaskByID(ctx, payload.TaskID)
	if err != nil {
		l.logger.Error("failed to load task for notification",
			"error", err,
			"task_id", payload.TaskID,
			"event_id", event.ID)
		return
	}

	text := fmt.Sprintf("🎉 Congratulations! Task #%d '%s' is completed!", task.ID, task.Title)
	l.notifyUser(ctx, event, task.OwnerID, text)
}

// notifyUser resolves the user's messenger identity and sends the text.
// An unresolvable recipient is skipped without an error.
func (l *Listener) notifyUser(ctx context.Context, event *events.Event, userID int64, text string) {
	user, err := l.identity.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.logger.Debug("skipping notification for unknown user",
				"user_id", userID,
				"event_id", event.ID)
			return
		}
		l.logger.Error("failed to resolve notification recipient",
			"error", err,
			"user_id", userID,
			"event_id", event.ID)
		return
	}

	if err := l.sender.SendMessage(ctx, user.MessengerID, text); err != nil {
		l.logger.Error("failed to send notification",
			"error", err,
			"user_id", userID,
			"messenger_id", user.MessengerID,
			"event_id", event.ID)
		return
	}

	l.logger.Info("notification sent",
		"user_id", userID,
		"event_type", event.Type,
		"event_id", event.ID)
}
