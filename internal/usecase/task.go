package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/internal/stats"
	"github.com/taskflow/taskflow/pkg/logger"
)

const taskCacheTTL = 5 * time.Minute

// TaskFilter narrows a List call. Zero value means "everything".
type TaskFilter struct {
	Status   string // "completed", "pending" or empty
	Category entity.Category
	Priority entity.Priority
	Search   string // case-insensitive substring over title and description
}

// IsZero reports whether the filter narrows nothing.
func (f TaskFilter) IsZero() bool {
	return f.Status == "" && f.Category == "" && f.Priority == "" && f.Search == ""
}

// TaskPatch carries the fields of a partial update. Nil means "unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *entity.Category
	Priority    *entity.Priority
	DueDate     *time.Time
	Progress    *int
	IsCompleted *bool
}

type TaskUseCase interface {
	Create(ctx context.Context, ownerID uuid.UUID, task entity.Task) (entity.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]entity.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (entity.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskPatch) (entity.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
	ToggleComplete(ctx context.Context, ownerID, taskID uuid.UUID) (entity.Task, error)
	Dashboard(ctx context.Context, ownerID uuid.UUID, now time.Time) (stats.Dashboard, error)
	Analytics(ctx context.Context, ownerID uuid.UUID, now time.Time) (stats.Analytics, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task entity.Task) (entity.Task, error)
	Get(ctx context.Context, id uuid.UUID) (entity.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]entity.Task, error)
	Update(ctx context.Context, task entity.Task) (entity.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskCache holds per-owner full task lists with a TTL.
type TaskCache interface {
	GetTasks(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, bool, error)
	SetTasks(ctx context.Context, ownerID uuid.UUID, tasks []entity.Task, ttl time.Duration) error
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

type TaskUseCaseImpl struct {
	taskRepo TaskRepository
	cache    TaskCache
	now      func() time.Time
}

func NewTaskUseCase(taskRepo TaskRepository, cache TaskCache) *TaskUseCaseImpl {
	return &TaskUseCaseImpl{
		taskRepo: taskRepo,
		cache:    cache,
		now:      time.Now,
	}
}

func (uc *TaskUseCaseImpl) Create(ctx context.Context, ownerID uuid.UUID, task entity.Task) (entity.Task, error) {
	task.Normalize()
	if task.Category == "" {
		task.Category = entity.DefaultCategory
	}
	if task.Priority == "" {
		task.Priority = entity.DefaultPriority
	}
	if err := task.Validate(); err != nil {
		logger.Log.WithError(err).Warn("Task validation failed")
		return entity.Task{}, err
	}

	now := uc.now()
	task.ID = uuid.New()
	task.OwnerID = ownerID
	task.IsCompleted = false
	task.CreatedAt = now
	task.UpdatedAt = now

	created, err := uc.taskRepo.Create(ctx, task)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create task")
		return entity.Task{}, err
	}

	uc.invalidate(ctx, ownerID)

	logger.Log.WithField("task_id", created.ID).Info("Task created")
	return created, nil
}

func (uc *TaskUseCaseImpl) List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]entity.Task, error) {
	if filter.IsZero() {
		return uc.listAll(ctx, ownerID)
	}
	return uc.taskRepo.ListByOwner(ctx, ownerID, filter)
}

func (uc *TaskUseCaseImpl) Get(ctx context.Context, ownerID, taskID uuid.UUID) (entity.Task, error) {
	return uc.getOwned(ctx, ownerID, taskID)
}

func (uc *TaskUseCaseImpl) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskPatch) (entity.Task, error) {
	task, err := uc.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return entity.Task{}, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Progress != nil {
		task.Progress = patch.Progress
	}
	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
	}

	task.Normalize()
	if err := task.Validate(); err != nil {
		logger.Log.WithError(err).Warn("Task validation failed on update")
		return entity.Task{}, err
	}

	task.UpdatedAt = uc.now()
	updated, err := uc.taskRepo.Update(ctx, task)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to update task")
		return entity.Task{}, err
	}

	uc.invalidate(ctx, ownerID)
	return updated, nil
}

func (uc *TaskUseCaseImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := uc.getOwned(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := uc.taskRepo.Delete(ctx, taskID); err != nil {
		logger.Log.WithError(err).Error("Failed to delete task")
		return err
	}

	uc.invalidate(ctx, ownerID)
	logger.Log.WithField("task_id", taskID).Info("Task deleted")
	return nil
}

func (uc *TaskUseCaseImpl) ToggleComplete(ctx context.Context, ownerID, taskID uuid.UUID) (entity.Task, error) {
	task, err := uc.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return entity.Task{}, err
	}

	task.IsCompleted = !task.IsCompleted
	task.UpdatedAt = uc.now()

	updated, err := uc.taskRepo.Update(ctx, task)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to toggle task completion")
		return entity.Task{}, err
	}

	uc.invalidate(ctx, ownerID)
	return updated, nil
}

func (uc *TaskUseCaseImpl) Dashboard(ctx context.Context, ownerID uuid.UUID, now time.Time) (stats.Dashboard, error) {
	tasks, err := uc.listAll(ctx, ownerID)
	if err != nil {
		return stats.Dashboard{}, err
	}
	return stats.BuildDashboard(tasks, now), nil
}

func (uc *TaskUseCaseImpl) Analytics(ctx context.Context, ownerID uuid.UUID, now time.Time) (stats.Analytics, error) {
	tasks, err := uc.listAll(ctx, ownerID)
	if err != nil {
		return stats.Analytics{}, err
	}
	return stats.BuildAnalytics(tasks, now), nil
}

// getOwned fetches a task and enforces ownership. A task that exists but
// belongs to someone else is ErrForbidden, not ErrTaskNotFound.
func (uc *TaskUseCaseImpl) getOwned(ctx context.Context, ownerID, taskID uuid.UUID) (entity.Task, error) {
	task, err := uc.taskRepo.Get(ctx, taskID)
	if err != nil {
		return entity.Task{}, err
	}
	if task.OwnerID != ownerID {
		logger.Log.WithField("task_id", taskID).Warn("Ownership check failed")
		return entity.Task{}, entity.ErrForbidden
	}
	return task, nil
}

// listAll returns the owner's full task list, read through the cache.
func (uc *TaskUseCaseImpl) listAll(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
	tasks, ok, err := uc.cache.GetTasks(ctx, ownerID)
	if err != nil {
		logger.Log.WithError(err).Warn("Task cache read failed")
	} else if ok {
		return tasks, nil
	}

	tasks, err = uc.taskRepo.ListByOwner(ctx, ownerID, TaskFilter{})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list tasks from repository")
		return nil, err
	}

	if err := uc.cache.SetTasks(ctx, ownerID, tasks, taskCacheTTL); err != nil {
		logger.Log.WithError(err).Warn("Task cache write failed")
	}
	return tasks, nil
}

func (uc *TaskUseCaseImpl) invalidate(ctx context.Context, ownerID uuid.UUID) {
	if err := uc.cache.Invalidate(ctx, ownerID); err != nil {
		logger.Log.WithError(err).Warn("Task cache invalidation failed")
	}
}
