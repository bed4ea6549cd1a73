package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskflow/taskflow/internal/auth"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/internal/usecase"
	"github.com/taskflow/taskflow/pkg/logger"
)

// TaskHandler handles the owner-scoped task endpoints.
type TaskHandler struct {
	taskUseCase usecase.TaskUseCase
}

func NewTaskHandler(taskUseCase usecase.TaskUseCase) *TaskHandler {
	return &TaskHandler{taskUseCase: taskUseCase}
}

// RegisterRoutes mounts the task routes. The router is expected to sit
// behind the auth middleware.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Put("/", h.UpdateTask)
			r.Delete("/", h.DeleteTask)
			r.Patch("/complete", h.ToggleComplete)
		})
	})
}

// apiDate accepts both RFC 3339 timestamps and bare YYYY-MM-DD dates.
type apiDate struct {
	time.Time
}

func (d *apiDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &entity.ValidationError{Field: "dueDate", Reason: "must be a valid date"}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &entity.ValidationError{Field: "dueDate", Reason: "must be a valid date"}
}

type createTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    entity.Category `json:"category"`
	Priority    entity.Priority `json:"priority"`
	DueDate     *apiDate        `json:"dueDate"`
	Progress    *int            `json:"progress"`
}

type updateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *entity.Category `json:"category"`
	Priority    *entity.Priority `json:"priority"`
	DueDate     *apiDate         `json:"dueDate"`
	Progress    *int             `json:"progress"`
	IsCompleted *bool            `json:"isCompleted"`
}

// CreateTask handles task creation.
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        task body     createTaskRequest true "Task fields"
// @Success      201  {object} entity.Task
// @Failure      400  {string} string "Validation failed"
// @Router       /api/tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode create task request")
		respondWithDomainError(w, badBody(err))
		return
	}

	task := entity.Task{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Progress:    req.Progress,
	}
	if req.DueDate != nil {
		due := req.DueDate.Time
		task.DueDate = &due
	}

	created, err := h.taskUseCase.Create(r.Context(), ownerID, task)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithData(w, http.StatusCreated, created)
}

// ListTasks handles task listing with optional filters.
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        status   query string false "completed or pending"
// @Param        category query string false "Exact category"
// @Param        priority query string false "Exact priority"
// @Param        search   query string false "Substring over title and description"
// @Success      200 {array} entity.Task
// @Router       /api/tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	q := r.URL.Query()
	filter := usecase.TaskFilter{
		Status:   q.Get("status"),
		Category: entity.Category(q.Get("category")),
		Priority: entity.Priority(q.Get("priority")),
		Search:   q.Get("search"),
	}

	tasks, err := h.taskUseCase.List(r.Context(), ownerID, filter)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	respondWithJSON(w, http.StatusOK, envelope{
		"success": true,
		"count":   len(tasks),
		"data":    tasks,
	})
}

// GetTask handles fetching a single task.
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} entity.Task
// @Failure      403 {string} string "Not the owner"
// @Failure      404 {string} string "No such task"
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTask(w, r)
	if !ok {
		return
	}

	task, err := h.taskUseCase.Get(r.Context(), ownerID, taskID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, task)
}

// UpdateTask handles a partial update: only supplied fields change.
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id   path     string            true "Task ID"
// @Param        task body     updateTaskRequest true "Changed fields"
// @Success      200  {object} entity.Task
// @Failure      400  {string} string "Validation failed"
// @Failure      403  {string} string "Not the owner"
// @Failure      404  {string} string "No such task"
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTask(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode update task request")
		respondWithDomainError(w, badBody(err))
		return
	}

	patch := usecase.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Progress:    req.Progress,
		IsCompleted: req.IsCompleted,
	}
	if req.DueDate != nil {
		due := req.DueDate.Time
		patch.DueDate = &due
	}

	updated, err := h.taskUseCase.Update(r.Context(), ownerID, taskID, patch)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, updated)
}

// DeleteTask handles permanent task removal.
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {string} string "Confirmation"
// @Failure      403 {string} string "Not the owner"
// @Failure      404 {string} string "No such task"
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTask(w, r)
	if !ok {
		return
	}

	if err := h.taskUseCase.Delete(r.Context(), ownerID, taskID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Task deleted successfully",
	})
}

// ToggleComplete flips the completion flag.
// @Summary      Toggle task completion
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} entity.Task
// @Failure      403 {string} string "Not the owner"
// @Failure      404 {string} string "No such task"
// @Router       /api/tasks/{id}/complete [patch]
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTask(w, r)
	if !ok {
		return
	}

	updated, err := h.taskUseCase.ToggleComplete(r.Context(), ownerID, taskID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, updated)
}

func (h *TaskHandler) ownerAndTask(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authorized")
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Log.WithField("id", chi.URLParam(r, "id")).Warn("Invalid task ID format")
		respondWithError(w, http.StatusBadRequest, "Invalid task ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, taskID, true
}

// badBody promotes a decode failure to a validation error so the caller
// gets a 400 with a stable message shape.
func badBody(err error) error {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	return &entity.ValidationError{Field: "body", Reason: "must be valid JSON"}
}
