package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/events"
	"github.com/taskmax/taskmax-api/internal/store"
)

// fakeTaskRepo is an in-memory TaskRepository. It stores copies so tasks
// mutated by the service only change here when Update is called, matching
// the snapshot semantics of the real store.
type fakeTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextID int64

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]domain.Task), nextID: 1}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copy := task
	return &copy, nil
}

func (r *fakeTaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Task{}
	for id := int64(1); id < r.nextID; id++ {
		if task, ok := r.tasks[id]; ok && task.OwnerID == ownerID {
			copy := task
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) WithTx(tx *sql.Tx) TaskRepository { return r }

func (r *fakeTaskRepo) DB() *sql.DB { return nil }

// stored returns the persisted state of a task, bypassing the service.
func (r *fakeTaskRepo) stored(t *testing.T, id int64) domain.Task {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	require.True(t, ok, "task %d not in store", id)
	return task
}

// fakeUserRepo is an in-memory UserRepository keyed by internal ID with a
// unique index on messenger ID.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64

	createErr error
	getErr    error
	existsErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.MessengerID == user.MessengerID {
			return store.ErrMessengerIDExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copy := user
	return &copy, nil
}

func (r *fakeUserRepo) GetByMessengerID(ctx context.Context, messengerID int64) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.MessengerID == messengerID {
			copy := user
			return &copy, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

// addUser seeds a user directly, bypassing the service.
func (r *fakeUserRepo) addUser(t *testing.T, messengerID int64, userName string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(messengerID, userName)
	require.NoError(t, err)
	require.NoError(t, r.Create(context.Background(), user))
	return user
}

// recordingEmitter records emitted events and can be set to fail.
type recordingEmitter struct {
	mu      sync.Mutex
	events  []events.Event
	emitErr error
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	if e.emitErr != nil {
		return e.emitErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, *event)
	return nil
}

func (e *recordingEmitter) recorded() []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]events.Event{}, e.events...)
}

// testLogger returns a logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestTaskService builds a TaskService wired to fakes, with the
// transaction boundary replaced by a direct call so no database is needed.
func newTestTaskService(
	t *testing.T,
	taskRepo *fakeTaskRepo,
	userRepo *fakeUserRepo,
	emitter *recordingEmitter,
) TaskService {
	t.Helper()
	svc, err := NewTaskService(taskRepo, userRepo, emitter, testLogger())
	require.NoError(t, err)

	impl, ok := svc.(*taskServiceImpl)
	require.True(t, ok)
	impl.runTx = func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
		return fn(ctx, nil)
	}
	return svc
}

var errDatabase = errors.New("database unavailable")
