// Package stats derives dashboard and analytics summaries from a user's
// full task list. Every function is pure: the reference time is passed in
// by the caller, never read from the system clock. Calendar-day boundaries
// are UTC midnights.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/taskflow/taskflow/internal/entity"
)

const recentTaskLimit = 5

// DashboardStats is the counter block shown on the dashboard.
type DashboardStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	Overdue    int `json:"overdue"`
	InProgress int `json:"inProgress"`
	TodayTasks int `json:"todayTasks"`
}

// Dashboard bundles the dashboard counters with the most recent tasks.
type Dashboard struct {
	Stats       DashboardStats
	RecentTasks []entity.Task
}

// AnalyticsStats is the headline block of the analytics view.
type AnalyticsStats struct {
	TotalTasks            int     `json:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks"`
	PendingTasks          int     `json:"pendingTasks"`
	OverdueTasks          int     `json:"overdueTasks"`
	CompletionRate        int     `json:"completionRate"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
}

// DayBucket is one calendar day of the weekly activity chart.
type DayBucket struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

// CategoryCount is the number of tasks in one category.
type CategoryCount struct {
	Category entity.Category `json:"category"`
	Count    int             `json:"count"`
}

// PriorityCount is the number of tasks at one priority.
type PriorityCount struct {
	Priority entity.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// Analytics bundles the full analytics payload.
type Analytics struct {
	Stats        AnalyticsStats
	WeeklyData   []DayBucket
	CategoryData []CategoryCount
	PriorityData []PriorityCount
}

// BuildDashboard computes the dashboard summary for one owner's tasks.
func BuildDashboard(tasks []entity.Task, now time.Time) Dashboard {
	today := startOfDay(now)

	var s DashboardStats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
			continue
		}
		s.Pending++
		if t.DueDate != nil && t.DueDate.Before(today) {
			s.Overdue++
		}
		if t.Progress != nil && *t.Progress > 0 && *t.Progress < 100 {
			s.InProgress++
		}
	}
	for _, t := range tasks {
		if t.DueDate != nil && startOfDay(*t.DueDate).Equal(today) {
			s.TodayTasks++
		}
	}

	return Dashboard{
		Stats:       s,
		RecentTasks: recentTasks(tasks),
	}
}

// BuildAnalytics computes the analytics summary for one owner's tasks.
func BuildAnalytics(tasks []entity.Task, now time.Time) Analytics {
	today := startOfDay(now)

	var s AnalyticsStats
	s.TotalTasks = len(tasks)
	for _, t := range tasks {
		if t.IsCompleted {
			s.CompletedTasks++
		} else {
			s.PendingTasks++
			if t.DueDate != nil && t.DueDate.Before(today) {
				s.OverdueTasks++
			}
		}
	}
	s.CompletionRate = completionRate(s.CompletedTasks, s.TotalTasks)
	s.AverageCompletionTime = averageCompletionDays(tasks)

	return Analytics{
		Stats:        s,
		WeeklyData:   weeklyBuckets(tasks, today),
		CategoryData: categoryCounts(tasks),
		PriorityData: priorityCounts(tasks),
	}
}

func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// averageCompletionDays treats updatedAt as the completion moment. That is
// an approximation: a later edit to a completed task shifts updatedAt.
func averageCompletionDays(tasks []entity.Task) float64 {
	var totalDays, n int
	for _, t := range tasks {
		if !t.IsCompleted || t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
			continue
		}
		days := int(math.Ceil(t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24))
		totalDays += days
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(totalDays)/float64(n)*10) / 10
}

// weeklyBuckets returns exactly 7 entries, oldest day first, ending today.
// A task lands in the bucket its createdAt falls into.
func weeklyBuckets(tasks []entity.Task, today time.Time) []DayBucket {
	buckets := make([]DayBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var created, completed int
		for _, t := range tasks {
			ts := t.CreatedAt.UTC()
			if ts.Before(dayStart) || !ts.Before(dayEnd) {
				continue
			}
			created++
			if t.IsCompleted {
				completed++
			}
		}

		buckets = append(buckets, DayBucket{
			Day:       dayStart.Weekday().String()[:3],
			Completed: completed,
			Created:   created,
		})
	}
	return buckets
}

// categoryCounts buckets every task into exactly one category, applying the
// default label to tasks persisted without one. Only categories that are
// present appear, in fixed enum order.
func categoryCounts(tasks []entity.Task) []CategoryCount {
	counts := make(map[entity.Category]int)
	for _, t := range tasks {
		c := t.Category
		if c == "" {
			c = entity.DefaultCategory
		}
		counts[c]++
	}

	order := []entity.Category{
		entity.CategoryWork,
		entity.CategoryPersonal,
		entity.CategoryUrgent,
		entity.CategoryOther,
	}
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range order {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	return out
}

// priorityCounts always returns the fixed High/Medium/Low breakdown.
// A priority outside the enum is not coerced into any bucket.
func priorityCounts(tasks []entity.Task) []PriorityCount {
	counts := make(map[entity.Priority]int)
	for _, t := range tasks {
		p := t.Priority
		if p == "" {
			p = entity.DefaultPriority
		}
		if p.Valid() {
			counts[p]++
		}
	}

	out := make([]PriorityCount, 0, 3)
	for _, p := range entity.Priorities() {
		out = append(out, PriorityCount{Priority: p, Count: counts[p]})
	}
	return out
}

func recentTasks(tasks []entity.Task) []entity.Task {
	recent := make([]entity.Task, len(tasks))
	copy(recent, tasks)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentTaskLimit {
		recent = recent[:recentTaskLimit]
	}
	return recent
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
