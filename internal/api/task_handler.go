package api

import (
	"log/slog"
	"net/http"

	"github.com/taskmax/taskmax-api/internal/api/shared"
	"github.com/taskmax/taskmax-api/internal/domain"
	"github.com/taskmax/taskmax-api/internal/platform/logger"
	"github.com/taskmax/taskmax-api/internal/service"
)

// TaskHandler handles task-related HTTP requests. Every request that reads
// or mutates a specific task carries the requester's user ID; ownership is
// enforced by the service layer.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task service cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), service.CreateTaskRequest{
		Title:         req.Title,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		CreatorUserID: req.CreatorUserID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks?userId={id} requests. It returns the tasks
// currently owned by the given user.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := getQueryID(r, "userId")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.tasks.ListTasksForUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{id}?requesterId={id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, requesterID, ok := h.taskAndRequesterIDs(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskForRequester(r.Context(), taskID, requesterID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id}?requesterId={id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, requesterID, ok := h.taskAndRequesterIDs(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), taskID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}, requesterID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}?requesterId={id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, requesterID, ok := h.taskAndRequesterIDs(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), taskID, requesterID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DelegateTask handles POST /tasks/{id}/delegate?requesterId={id} requests.
func (h *TaskHandler) DelegateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, requesterID, ok := h.taskAndRequesterIDs(w, r)
	if !ok {
		return
	}

	var req DelegateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.tasks.DelegateTask(r.Context(), taskID, req.TargetUserID, requesterID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task delegated",
		slog.Int64("task_id", taskID),
		slog.Int64("target_user_id", req.TargetUserID))
	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /tasks/{id}/complete?requesterId={id} requests.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, requesterID, ok := h.taskAndRequesterIDs(w, r)
	if !ok {
		return
	}

	if err := h.tasks.CompleteTask(r.Context(), taskID, requesterID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskAndRequesterIDs extracts the task ID from the path and the requester
// ID from the query string, writing an error response when either is
// missing or malformed.
func (h *TaskHandler) taskAndRequesterIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	taskID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	requesterID, err := getQueryID(r, "requesterId")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	return taskID, requesterID, true
}
