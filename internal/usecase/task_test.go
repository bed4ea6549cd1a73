package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow/internal/entity"
)

// fakeTaskRepo is an in-memory TaskRepository.
type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]entity.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]entity.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task entity.Task) (entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return task, nil
}

func (r *fakeTaskRepo) Get(_ context.Context, id uuid.UUID) (entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return entity.Task{}, entity.ErrTaskNotFound
	}
	return task, nil
}

func (r *fakeTaskRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, filter TaskFilter) ([]entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Task
	for _, task := range r.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Status == "completed" && !task.IsCompleted {
			continue
		}
		if filter.Status == "pending" && task.IsCompleted {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task entity.Task) (entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return entity.Task{}, entity.ErrTaskNotFound
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return entity.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// fakeCache records invalidations and always misses unless primed.
type fakeCache struct {
	mu            sync.Mutex
	store         map[uuid.UUID][]entity.Task
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[uuid.UUID][]entity.Task)}
}

func (c *fakeCache) GetTasks(_ context.Context, ownerID uuid.UUID) ([]entity.Task, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tasks, ok := c.store[ownerID]
	return tasks, ok, nil
}

func (c *fakeCache) SetTasks(_ context.Context, ownerID uuid.UUID, tasks []entity.Task, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[ownerID] = tasks
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, ownerID)
	c.invalidations++
	return nil
}

func newTestUseCase() (*TaskUseCaseImpl, *fakeTaskRepo, *fakeCache) {
	repo := newFakeTaskRepo()
	cache := newFakeCache()
	uc := NewTaskUseCase(repo, cache)
	return uc, repo, cache
}

func TestCreateAppliesDefaults(t *testing.T) {
	uc, _, _ := newTestUseCase()
	owner := uuid.New()

	created, err := uc.Create(context.Background(), owner, entity.Task{Title: "  buy milk  "})
	require.NoError(t, err)

	assert.Equal(t, "buy milk", created.Title)
	assert.Equal(t, entity.DefaultCategory, created.Category)
	assert.Equal(t, entity.DefaultPriority, created.Priority)
	assert.Equal(t, owner, created.OwnerID)
	assert.False(t, created.IsCompleted)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	uc, repo, _ := newTestUseCase()

	_, err := uc.Create(context.Background(), uuid.New(), entity.Task{Title: "   "})
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, repo.tasks)
}

func TestOwnershipIsolation(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	created, err := uc.Create(ctx, ownerA, entity.Task{Title: "private"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, ownerB, created.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = uc.Update(ctx, ownerB, created.ID, TaskPatch{})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	err = uc.Delete(ctx, ownerB, created.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = uc.ToggleComplete(ctx, ownerB, created.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	tasks, err := uc.List(ctx, ownerB, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// the owner still sees it
	got, err := uc.Get(ctx, ownerA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetMissingTaskIsNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestToggleCompleteIsItsOwnInverse(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()

	// deterministic, strictly increasing clock
	tick := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	created, err := uc.Create(ctx, owner, entity.Task{Title: "flip me"})
	require.NoError(t, err)

	first, err := uc.ToggleComplete(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.True(t, first.IsCompleted)
	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))

	second, err := uc.ToggleComplete(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.False(t, second.IsCompleted)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()

	created, err := uc.Create(ctx, owner, entity.Task{
		Title:       "original",
		Description: "desc",
		Category:    entity.CategoryWork,
	})
	require.NoError(t, err)

	newTitle := "renamed"
	updated, err := uc.Update(ctx, owner, created.ID, TaskPatch{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, entity.CategoryWork, updated.Category)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateRevalidates(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()

	created, err := uc.Create(ctx, owner, entity.Task{Title: "ok"})
	require.NoError(t, err)

	empty := "   "
	_, err = uc.Update(ctx, owner, created.ID, TaskPatch{Title: &empty})
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)

	// task unchanged
	got, err := uc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Title)
}

func TestDeleteRemovesTask(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()

	created, err := uc.Create(ctx, owner, entity.Task{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, owner, created.ID))

	_, err = uc.Get(ctx, owner, created.ID)
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestWritesInvalidateCache(t *testing.T) {
	uc, _, cache := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()

	created, err := uc.Create(ctx, owner, entity.Task{Title: "cached"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	_, err = uc.ToggleComplete(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidations)

	require.NoError(t, uc.Delete(ctx, owner, created.ID))
	assert.Equal(t, 3, cache.invalidations)
}

func TestListUsesCacheWhenUnfiltered(t *testing.T) {
	uc, repo, cache := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()

	primed := []entity.Task{{ID: uuid.New(), OwnerID: owner, Title: "from cache"}}
	require.NoError(t, cache.SetTasks(ctx, owner, primed, time.Minute))

	tasks, err := uc.List(ctx, owner, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "from cache", tasks[0].Title)

	// a filtered list bypasses the cache entirely
	tasks, err = uc.List(ctx, owner, TaskFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, repo.tasks)
}

func TestDashboardAndAnalyticsUseFullList(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	owner := uuid.New()
	now := time.Now().UTC()

	_, err := uc.Create(ctx, owner, entity.Task{Title: "one"})
	require.NoError(t, err)
	created, err := uc.Create(ctx, owner, entity.Task{Title: "two"})
	require.NoError(t, err)
	_, err = uc.ToggleComplete(ctx, owner, created.ID)
	require.NoError(t, err)

	d, err := uc.Dashboard(ctx, owner, now)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Stats.Total)
	assert.Equal(t, 1, d.Stats.Completed)

	a, err := uc.Analytics(ctx, owner, now)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Stats.TotalTasks)
	assert.Equal(t, 50, a.Stats.CompletionRate)
}
