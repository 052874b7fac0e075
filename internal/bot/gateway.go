// Package bot implements the chat gateway: it maps incoming messenger
// commands to the identity and task services and replies to the user.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/platform/messenger"
	"github.com/taskmax/taskmax-api/internal/service"
)

// Replier sends a text reply into a messenger chat.
type Replier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Gateway implements the messenger.UpdateHandler interface. Every incoming
// command registers its sender on first contact, runs the corresponding
// workflow and replies with the outcome. Workflow errors are translated to
// user-facing messages; they never propagate to the polling loop.
type Gateway struct {
	replier  Replier
	tasks    service.TaskService
	identity service.IdentityService
	logger   *slog.Logger
}

// NewGateway creates a new command gateway.
// It returns an error if any of the required dependencies are nil.
func NewGateway(
	replier Replier,
	tasks service.TaskService,
	identity service.IdentityService,
	logger *slog.Logger,
) (*Gateway, error) {
	if replier == nil {
		return nil, errors.New("bot: replier cannot be nil")
	}
	if tasks == nil {
		return nil, errors.New("bot: task service cannot be nil")
	}
	if identity == nil {
		return nil, errors.New("bot: identity service cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		replier:  replier,
		tasks:    tasks,
		identity: identity,
		logger:   logger.With("component", "bot_gateway"),
	}, nil
}

// Ensure Gateway implements messenger.UpdateHandler
var _ messenger.UpdateHandler = (*Gateway)(nil)

// HandleUpdate processes one incoming update. Messages without a sender or
// without a command are ignored.
func (g *Gateway) HandleUpdate(ctx context.Context, update *messenger.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	command, args := ParseCommand(msg.Text)
	if command == "" {
		return nil
	}

	user, err := g.identity.FindOrCreateUser(ctx, msg.From.ID, displayName(msg.From))
	if err != nil {
		g.logger.Error("failed to resolve user",
			"error", err,
			"messenger_id", msg.From.ID,
			"update_id", update.UpdateID)
		g.reply(ctx, msg.Chat.ID, "Something went wrong, please try again.")
		return err
	}

	g.logger.Info("handling command",
		"command", command,
		"user_id", user.ID,
		"update_id", update.UpdateID)

	switch command {
	case CmdStart:
		g.reply(ctx, msg.Chat.ID, helpText())
	case CmdAddTask:
		g.handleAddTask(ctx, msg.Chat.ID, user, args)
	case CmdMyTasks:
		g.handleMyTasks(ctx, msg.Chat.ID, user)
	case CmdDelegate:
		g.handleDelegate(ctx, msg.Chat.ID, user, args)
	case CmdComplete:
		g.handleComplete(ctx, msg.Chat.ID, user, args)
	default:
		g.reply(ctx, msg.Chat.ID, "Unknown command. Send /start for the list of commands.")
	}
	return nil
}

// handleAddTask creates a task from the free text after the command.
func (g *Gateway) handleAddTask(ctx context.Context, chatID int64, user *domain.User, args string) {
	title, err := parseTitleArg(args)
	if err != nil {
		g.reply(ctx, chatID, "Usage: /addTask <task title>")
		return
	}

	task, err := g.tasks.CreateTask(ctx, service.CreateTaskRequest{
		Title:         title,
		Priority:      0,
		CreatorUserID: user.ID,
	})
	if err != nil {
		g.logger.Error("failed to create task",
			"error", err,
			"user_id", user.ID)
		g.reply(ctx, chatID, "❌ Could not create the task.")
		return
	}

	g.reply(ctx, chatID, fmt.Sprintf("✅ Task #%d created: %s", task.ID, task.Title))
}

// handleMyTasks lists the user's tasks.
func (g *Gateway) handleMyTasks(ctx context.Context, chatID int64, user *domain.User) {
	tasks, err := g.tasks.ListTasksForUser(ctx, user.ID)
	if err != nil {
		g.logger.Error("failed to list tasks",
			"error", err,
			"user_id", user.ID)
		g.reply(ctx, chatID, "❌ Could not fetch your tasks.")
		return
	}

	if len(tasks) == 0 {
		g.reply(ctx, chatID, "You have no tasks yet. Create one with /addTask.")
		return
	}

	var b strings.Builder
	b.WriteString("Your tasks:\n")
	for _, task := range tasks {
		fmt.Fprintf(&b, "• #%d %s (priority: %d, %s)\n", task.ID, task.Title, task.Priority, task.Status)
	}
	g.reply(ctx, chatID, strings.TrimRight(b.String(), "\n"))
}

// handleDelegate transfers a task to another user.
func (g *Gateway) handleDelegate(ctx context.Context, chatID int64, user *domain.User, args string) {
	taskID, targetUserID, err := parseDelegateArgs(args)
	if err != nil {
		g.reply(ctx, chatID, "Usage: /delegate <taskId> <targetUserId>")
		return
	}

	if err := g.tasks.DelegateTask(ctx, taskID, targetUserID, user.ID); err != nil {
		g.replyWorkflowError(ctx, chatID, user.ID, "delegate", err)
		return
	}

	g.reply(ctx, chatID, fmt.Sprintf("✅ Task #%d delegated to user #%d", taskID, targetUserID))
}

// handleComplete marks a task as completed.
func (g *Gateway) handleComplete(ctx context.Context, chatID int64, user *domain.User, args string) {
	taskID, err := parseTaskIDArg(args)
	if err != nil {
		g.reply(ctx, chatID, "Usage: /complete <taskId>")
		return
	}

	if err := g.tasks.CompleteTask(ctx, taskID, user.ID); err != nil {
		g.replyWorkflowError(ctx, chatID, user.ID, "complete", err)
		return
	}

	g.reply(ctx, chatID, fmt.Sprintf("🎉 Task #%d completed!", taskID))
}

// replyWorkflowError translates workflow errors into user-facing replies.
// Internal details never reach the chat.
func (g *Gateway) replyWorkflowError(ctx context.Context, chatID, userID int64, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		g.reply(ctx, chatID, "❌ Task not found.")
	case errors.Is(err, service.ErrNotTaskOwner):
		g.reply(ctx, chatID, "❌ Only the task's owner can do that.")
	case errors.Is(err, service.ErrUserNotFound):
		g.reply(ctx, chatID, "❌ User not found.")
	default:
		g.logger.Error("command failed",
			"error", err,
			"operation", op,
			"user_id", userID)
		g.reply(ctx, chatID, "❌ Something went wrong, please try again.")
	}
}

// reply sends a message and logs delivery failures; a lost reply must not
// fail the command that produced it.
func (g *Gateway) reply(ctx context.Context, chatID int64, text string) {
	if err := g.replier.SendMessage(ctx, chatID, text); err != nil {
		g.logger.Error("failed to send reply",
			"error", err,
			"chat_id", chatID)
	}
}

// displayName picks a human-readable name for the messenger account.
func displayName(from *messenger.User) string {
	if from.Username != "" {
		return from.Username
	}
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name != "" {
		return name
	}
	return fmt.Sprintf("user%d", from.ID)
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"/addTask <title> - create a task",
		"/myTasks - list your tasks",
		"/delegate <taskId> <targetUserId> - hand a task over",
		"/complete <taskId> - mark a task as completed",
	}, "\n")
}
