package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/platform/messenger"
	"github.com/taskmax/taskmax-api/internal/service"
)

type reply struct {
	chatID int64
	text   string
}

// fakeReplier records outgoing replies.
type fakeReplier struct {
	replies []reply
}

func (r *fakeReplier) SendMessage(ctx context.Context, chatID int64, text string) error {
	r.replies = append(r.replies, reply{chatID: chatID, text: text})
	return nil
}

func (r *fakeReplier) last(t *testing.T) reply {
	t.Helper()
	require.NotEmpty(t, r.replies)
	return r.replies[len(r.replies)-1]
}

// stubTaskService implements the task workflow with overridable functions.
// Calls without an override panic through the embedded nil interface, which
// flags tests exercising an unexpected path.
type stubTaskService struct {
	service.TaskService
	createFn   func(ctx context.Context, req service.CreateTaskRequest) (*domain.Task, error)
	listFn     func(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	delegateFn func(ctx context.Context, taskID, targetUserID, requesterID int64) error
	completeFn func(ctx context.Context, taskID, requesterID int64) error
}

func (s *stubTaskService) CreateTask(ctx context.Context, req service.CreateTaskRequest) (*domain.Task, error) {
	return s.createFn(ctx, req)
}

func (s *stubTaskService) ListTasksForUser(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubTaskService) DelegateTask(ctx context.Context, taskID, targetUserID, requesterID int64) error {
	return s.delegateFn(ctx, taskID, targetUserID, requesterID)
}

func (s *stubTaskService) CompleteTask(ctx context.Context, taskID, requesterID int64) error {
	return s.completeFn(ctx, taskID, requesterID)
}

// stubIdentity resolves every sender to a fixed user unless set to fail.
type stubIdentity struct {
	service.IdentityService
	user       *domain.User
	resolveErr error

	gotMessengerID int64
	gotUserName    string
}

func (s *stubIdentity) FindOrCreateUser(ctx context.Context, messengerID int64, userName string) (*domain.User, error) {
	s.gotMessengerID = messengerID
	s.gotUserName = userName
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.user, nil
}

func commandUpdate(text string) *messenger.Update {
	return &messenger.Update{
		UpdateID: 1,
		Message: &messenger.Message{
			From: &messenger.User{ID: 555, Username: "alice"},
			Chat: messenger.Chat{ID: 555},
			Text: text,
		},
	}
}

func newTestGateway(t *testing.T, replier Replier, tasks service.TaskService, identity service.IdentityService) *Gateway {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway, err := NewGateway(replier, tasks, identity, logger)
	require.NoError(t, err)
	return gateway
}

func TestNewGateway(t *testing.T) {
	t.Parallel()

	replier := &fakeReplier{}
	tasks := &stubTaskService{}
	identity := &stubIdentity{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid dependencies", func(t *testing.T) {
		gateway, err := NewGateway(replier, tasks, identity, logger)
		require.NoError(t, err)
		assert.NotNil(t, gateway)
	})

	t.Run("nil replier", func(t *testing.T) {
		_, err := NewGateway(nil, tasks, identity, logger)
		assert.Error(t, err)
	})

	t.Run("nil task service", func(t *testing.T) {
		_, err := NewGateway(replier, nil, identity, logger)
		assert.Error(t, err)
	})

	t.Run("nil identity service", func(t *testing.T) {
		_, err := NewGateway(replier, tasks, nil, logger)
		assert.Error(t, err)
	})
}

func TestHandleUpdateIgnoresNonCommands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	replier := &fakeReplier{}
	identity := &stubIdentity{user: &domain.User{ID: 1}}
	gateway := newTestGateway(t, replier, &stubTaskService{}, identity)

	t.Run("update without message", func(t *testing.T) {
		require.NoError(t, gateway.HandleUpdate(ctx, &messenger.Update{UpdateID: 1}))
	})

	t.Run("message without sender", func(t *testing.T) {
		update := &messenger.Update{UpdateID: 1, Message: &messenger.Message{Text: "/myTasks"}}
		require.NoError(t, gateway.HandleUpdate(ctx, update))
	})

	t.Run("plain text", func(t *testing.T) {
		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("just chatting")))
	})

	assert.Empty(t, replier.replies)
	assert.Zero(t, identity.gotMessengerID, "no identity lookup for non-commands")
}

func TestHandleUpdateRegistersSender(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	replier := &fakeReplier{}
	identity := &stubIdentity{user: &domain.User{ID: 42, MessengerID: 555, UserName: "alice"}}
	tasks := &stubTaskService{
		listFn: func(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
			return nil, nil
		},
	}
	gateway := newTestGateway(t, replier, tasks, identity)

	require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/myTasks")))

	assert.Equal(t, int64(555), identity.gotMessengerID)
	assert.Equal(t, "alice", identity.gotUserName)
}

func TestHandleUpdateIdentityFailure(t *testing.T) {
	t.Parallel()

	replier := &fakeReplier{}
	identity := &stubIdentity{resolveErr: errors.New("db down")}
	gateway := newTestGateway(t, replier, &stubTaskService{}, identity)

	err := gateway.HandleUpdate(context.Background(), commandUpdate("/myTasks"))
	require.Error(t, err)
	assert.Contains(t, replier.last(t).text, "try again")
}

func TestHandleStart(t *testing.T) {
	t.Parallel()

	replier := &fakeReplier{}
	identity := &stubIdentity{user: &domain.User{ID: 42}}
	gateway := newTestGateway(t, replier, &stubTaskService{}, identity)

	require.NoError(t, gateway.HandleUpdate(context.Background(), commandUpdate("/start")))
	assert.Contains(t, replier.last(t).text, "/addTask")
	assert.Contains(t, replier.last(t).text, "/delegate")
}

func TestHandleAddTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := &domain.User{ID: 42, MessengerID: 555, UserName: "alice"}

	t.Run("creates the task from the message text", func(t *testing.T) {
		replier := &fakeReplier{}
		var gotReq service.CreateTaskRequest
		tasks := &stubTaskService{
			createFn: func(ctx context.Context, req service.CreateTaskRequest) (*domain.Task, error) {
				gotReq = req
				return &domain.Task{ID: 7, Title: req.Title, Status: domain.StatusTodo, OwnerID: req.CreatorUserID}, nil
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/addTask buy milk")))

		assert.Equal(t, "buy milk", gotReq.Title)
		assert.Equal(t, user.ID, gotReq.CreatorUserID)
		assert.Contains(t, replier.last(t).text, "#7")
		assert.Contains(t, replier.last(t).text, "buy milk")
	})

	t.Run("missing title yields usage help", func(t *testing.T) {
		replier := &fakeReplier{}
		gateway := newTestGateway(t, replier, &stubTaskService{}, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/addTask")))
		assert.Contains(t, replier.last(t).text, "Usage: /addTask")
	})

	t.Run("service failure yields a generic error", func(t *testing.T) {
		replier := &fakeReplier{}
		tasks := &stubTaskService{
			createFn: func(ctx context.Context, req service.CreateTaskRequest) (*domain.Task, error) {
				return nil, errors.New("db down")
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/addTask buy milk")))
		assert.Contains(t, replier.last(t).text, "Could not create")
	})
}

func TestHandleMyTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := &domain.User{ID: 42}

	t.Run("lists the user's tasks", func(t *testing.T) {
		replier := &fakeReplier{}
		tasks := &stubTaskService{
			listFn: func(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
				assert.Equal(t, user.ID, ownerID)
				return []*domain.Task{
					{ID: 1, Title: "first", Priority: 2, Status: domain.StatusTodo},
					{ID: 2, Title: "second", Priority: 0, Status: domain.StatusCompleted},
				}, nil
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/myTasks")))

		text := replier.last(t).text
		assert.Contains(t, text, "#1 first")
		assert.Contains(t, text, "#2 second")
		assert.Contains(t, text, string(domain.StatusCompleted))
	})

	t.Run("empty list gets a friendly hint", func(t *testing.T) {
		replier := &fakeReplier{}
		tasks := &stubTaskService{
			listFn: func(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
				return []*domain.Task{}, nil
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/myTasks")))
		assert.Contains(t, replier.last(t).text, "no tasks")
	})
}

func TestHandleDelegate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := &domain.User{ID: 42}

	t.Run("delegates with the sender as requester", func(t *testing.T) {
		replier := &fakeReplier{}
		var gotTaskID, gotTarget, gotRequester int64
		tasks := &stubTaskService{
			delegateFn: func(ctx context.Context, taskID, targetUserID, requesterID int64) error {
				gotTaskID, gotTarget, gotRequester = taskID, targetUserID, requesterID
				return nil
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/delegate 7 100")))

		assert.Equal(t, int64(7), gotTaskID)
		assert.Equal(t, int64(100), gotTarget)
		assert.Equal(t, user.ID, gotRequester)
		assert.Contains(t, replier.last(t).text, "#7")
	})

	t.Run("malformed arguments never reach the workflow", func(t *testing.T) {
		replier := &fakeReplier{}
		gateway := newTestGateway(t, replier, &stubTaskService{}, &stubIdentity{user: user})

		for _, text := range []string{"/delegate", "/delegate 7", "/delegate abc 100"} {
			require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate(text)))
			assert.Contains(t, replier.last(t).text, "Usage: /delegate")
		}
	})

	t.Run("workflow errors map to user-facing replies", func(t *testing.T) {
		cases := []struct {
			err  error
			want string
		}{
			{err: service.ErrTaskNotFound, want: "Task not found"},
			{err: service.ErrNotTaskOwner, want: "owner"},
			{err: service.ErrUserNotFound, want: "User not found"},
			{err: errors.New("db down"), want: "Something went wrong"},
		}

		for _, tc := range cases {
			replier := &fakeReplier{}
			tasks := &stubTaskService{
				delegateFn: func(ctx context.Context, taskID, targetUserID, requesterID int64) error {
					return tc.err
				},
			}
			gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

			require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/delegate 7 100")))
			assert.Contains(t, replier.last(t).text, tc.want)
		}
	})
}

func TestHandleComplete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := &domain.User{ID: 42}

	t.Run("completes with the sender as requester", func(t *testing.T) {
		replier := &fakeReplier{}
		var gotTaskID, gotRequester int64
		tasks := &stubTaskService{
			completeFn: func(ctx context.Context, taskID, requesterID int64) error {
				gotTaskID, gotRequester = taskID, requesterID
				return nil
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/complete 7")))

		assert.Equal(t, int64(7), gotTaskID)
		assert.Equal(t, user.ID, gotRequester)
		assert.Contains(t, replier.last(t).text, "#7")
	})

	t.Run("malformed id yields usage help", func(t *testing.T) {
		replier := &fakeReplier{}
		gateway := newTestGateway(t, replier, &stubTaskService{}, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/complete abc")))
		assert.Contains(t, replier.last(t).text, "Usage: /complete")
	})

	t.Run("non-owner completion is rejected", func(t *testing.T) {
		replier := &fakeReplier{}
		tasks := &stubTaskService{
			completeFn: func(ctx context.Context, taskID, requesterID int64) error {
				return service.ErrNotTaskOwner
			},
		}
		gateway := newTestGateway(t, replier, tasks, &stubIdentity{user: user})

		require.NoError(t, gateway.HandleUpdate(ctx, commandUpdate("/complete 7")))
		assert.Contains(t, replier.last(t).text, "owner")
	})
}

func TestHandleUnknownCommand(t *testing.T) {
	t.Parallel()

	replier := &fakeReplier{}
	gateway := newTestGateway(t, replier, &stubTaskService{}, &stubIdentity{user: &domain.User{ID: 42}})

	require.NoError(t, gateway.HandleUpdate(context.Background(), commandUpdate("/frobnicate")))
	assert.Contains(t, replier.last(t).text, "Unknown command")
}
