package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow/internal/entity"
)

var now = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC) // a Wednesday

func newTask(mutate func(*entity.Task)) entity.Task {
	t := entity.Task{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "task",
		Category:  entity.CategoryOther,
		Priority:  entity.PriorityMedium,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	if mutate != nil {
		mutate(&t)
	}
	return t
}

func datePtr(t time.Time) *time.Time { return &t }

func TestBuildDashboardCounts(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	progress := 40

	tasks := []entity.Task{
		newTask(func(task *entity.Task) { task.DueDate = datePtr(yesterday) }),
		newTask(func(task *entity.Task) { task.DueDate = datePtr(tomorrow) }),
		newTask(func(task *entity.Task) {
			task.DueDate = datePtr(yesterday)
			task.IsCompleted = true
		}),
		newTask(func(task *entity.Task) { task.Progress = &progress }),
		newTask(func(task *entity.Task) { task.DueDate = datePtr(now) }),
	}

	d := BuildDashboard(tasks, now)

	assert.Equal(t, 5, d.Stats.Total)
	assert.Equal(t, 1, d.Stats.Completed)
	assert.Equal(t, 4, d.Stats.Pending)
	// only the incomplete past-due task counts
	assert.Equal(t, 1, d.Stats.Overdue)
	assert.Equal(t, 1, d.Stats.InProgress)
	assert.Equal(t, 1, d.Stats.TodayTasks)
}

func TestBuildDashboardRecentTasksCappedAndNewestFirst(t *testing.T) {
	var tasks []entity.Task
	for i := 0; i < 8; i++ {
		offset := time.Duration(i) * time.Hour
		tasks = append(tasks, newTask(func(task *entity.Task) {
			task.CreatedAt = now.Add(-offset)
		}))
	}

	d := BuildDashboard(tasks, now)

	require.Len(t, d.RecentTasks, 5)
	for i := 1; i < len(d.RecentTasks); i++ {
		assert.False(t, d.RecentTasks[i].CreatedAt.After(d.RecentTasks[i-1].CreatedAt))
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, now)

	assert.Equal(t, DashboardStats{}, d.Stats)
	assert.Empty(t, d.RecentTasks)
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, completionRate(0, 0))
	assert.Equal(t, 25, completionRate(1, 4))
	assert.Equal(t, 33, completionRate(1, 3))
	assert.Equal(t, 67, completionRate(2, 3))
	assert.Equal(t, 100, completionRate(5, 5))
}

func TestAverageCompletionDays(t *testing.T) {
	tasks := []entity.Task{
		// finished in just under 2 days: ceil -> 2
		newTask(func(task *entity.Task) {
			task.IsCompleted = true
			task.CreatedAt = now.Add(-47 * time.Hour)
			task.UpdatedAt = now
		}),
		// finished in 1 hour: ceil -> 1
		newTask(func(task *entity.Task) {
			task.IsCompleted = true
			task.CreatedAt = now.Add(-time.Hour)
			task.UpdatedAt = now
		}),
		// incomplete tasks are ignored
		newTask(func(task *entity.Task) {
			task.CreatedAt = now.Add(-100 * 24 * time.Hour)
		}),
	}

	assert.Equal(t, 1.5, averageCompletionDays(tasks))
	assert.Equal(t, 0.0, averageCompletionDays(nil))
}

func TestWeeklyBucketsAlwaysSevenDays(t *testing.T) {
	a := BuildAnalytics(nil, now)
	require.Len(t, a.WeeklyData, 7)

	// oldest first, ending today
	assert.Equal(t, "Thu", a.WeeklyData[0].Day)
	assert.Equal(t, "Wed", a.WeeklyData[6].Day)
	for _, b := range a.WeeklyData {
		assert.Zero(t, b.Created)
		assert.Zero(t, b.Completed)
	}
}

func TestWeeklyBucketsMembership(t *testing.T) {
	tasks := []entity.Task{
		newTask(func(task *entity.Task) {
			task.CreatedAt = now // today
		}),
		newTask(func(task *entity.Task) {
			task.CreatedAt = now.AddDate(0, 0, -3)
			task.IsCompleted = true
		}),
		// outside the window
		newTask(func(task *entity.Task) {
			task.CreatedAt = now.AddDate(0, 0, -10)
		}),
	}

	a := BuildAnalytics(tasks, now)
	require.Len(t, a.WeeklyData, 7)

	assert.Equal(t, 1, a.WeeklyData[6].Created)
	assert.Equal(t, 0, a.WeeklyData[6].Completed)
	assert.Equal(t, 1, a.WeeklyData[3].Created)
	assert.Equal(t, 1, a.WeeklyData[3].Completed)

	var total int
	for _, b := range a.WeeklyData {
		total += b.Created
	}
	assert.Equal(t, 2, total)
}

func TestCategoryCountsSumToTotal(t *testing.T) {
	tasks := []entity.Task{
		newTask(func(task *entity.Task) { task.Category = entity.CategoryWork }),
		newTask(func(task *entity.Task) { task.Category = entity.CategoryWork }),
		newTask(func(task *entity.Task) { task.Category = entity.CategoryPersonal }),
		// legacy row without a category falls into the default bucket
		newTask(func(task *entity.Task) { task.Category = "" }),
	}

	a := BuildAnalytics(tasks, now)

	var sum int
	for _, c := range a.CategoryData {
		sum += c.Count
	}
	assert.Equal(t, a.Stats.TotalTasks, sum)

	counts := map[entity.Category]int{}
	for _, c := range a.CategoryData {
		counts[c.Category] = c.Count
	}
	assert.Equal(t, 2, counts[entity.CategoryWork])
	assert.Equal(t, 1, counts[entity.CategoryPersonal])
	assert.Equal(t, 1, counts[entity.CategoryOther])
}

func TestPriorityCountsFixedBuckets(t *testing.T) {
	tasks := []entity.Task{
		newTask(func(task *entity.Task) { task.Priority = entity.PriorityHigh }),
		newTask(func(task *entity.Task) { task.Priority = entity.PriorityLow }),
		newTask(func(task *entity.Task) { task.Priority = entity.PriorityLow }),
		// out-of-enum value is not coerced into any bucket
		newTask(func(task *entity.Task) { task.Priority = "Critical" }),
	}

	a := BuildAnalytics(tasks, now)

	require.Len(t, a.PriorityData, 3)
	assert.Equal(t, entity.PriorityHigh, a.PriorityData[0].Priority)
	assert.Equal(t, 1, a.PriorityData[0].Count)
	assert.Equal(t, entity.PriorityMedium, a.PriorityData[1].Priority)
	assert.Equal(t, 0, a.PriorityData[1].Count)
	assert.Equal(t, entity.PriorityLow, a.PriorityData[2].Priority)
	assert.Equal(t, 2, a.PriorityData[2].Count)
}

func TestAnalyticsOverdueUsesStartOfDay(t *testing.T) {
	// due earlier today is not overdue, due yesterday is
	tasks := []entity.Task{
		newTask(func(task *entity.Task) { task.DueDate = datePtr(now.Add(-2 * time.Hour)) }),
		newTask(func(task *entity.Task) { task.DueDate = datePtr(now.AddDate(0, 0, -1)) }),
	}

	a := BuildAnalytics(tasks, now)
	assert.Equal(t, 1, a.Stats.OverdueTasks)
}
