package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// Category is a closed set of task categories.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryUrgent   Category = "Urgent"
	CategoryOther    Category = "Other"

	// DefaultCategory is applied when a task is created without one.
	DefaultCategory = CategoryOther
)

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryUrgent, CategoryOther:
		return true
	}
	return false
}

// Priority is a closed set of task priorities.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"

	// DefaultPriority is applied when a task is created without one.
	DefaultPriority = PriorityMedium
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Priorities returns all priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ValidationError reports a field that violates its constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Task is a user-owned todo item. A task belongs to exactly one owner
// for its whole lifetime.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Normalize trims whitespace from the free-text fields.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
}

// Validate checks every field constraint on a fully populated task.
func (t *Task) Validate() error {
	if t.Title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if utf8.RuneCountInString(t.Title) > maxTitleLen {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("cannot be more than %d characters", maxTitleLen)}
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("cannot be more than %d characters", maxDescriptionLen)}
	}
	if !t.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "must be Work, Personal, Urgent, or Other"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "must be High, Medium, or Low"}
	}
	if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
		return &ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}
	return nil
}
