package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/internal/usecase"
	"github.com/taskflow/taskflow/pkg/logger"
)

const queryTimeout = 5 * time.Second

var taskColumns = []string{
	"id", "owner_id", "title", "description", "category", "priority",
	"due_date", "progress", "is_completed", "created_at", "updated_at",
}

type TaskRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
	logger  *logrus.Logger
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger:  logger.Log,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task entity.Task) (entity.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.OwnerID, task.Title, task.Description, task.Category,
			task.Priority, task.DueDate, task.Progress, task.IsCompleted,
			task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
	if err != nil {
		return entity.Task{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"method":  "Create",
			"task_id": task.ID.String(),
		}).WithError(err).Error("Failed to create task")
		return entity.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID) (entity.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return entity.Task{}, fmt.Errorf("failed to build select query: %w", err)
	}

	task, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Task{}, entity.ErrTaskNotFound
		}
		r.logger.WithFields(logrus.Fields{
			"method":  "Get",
			"task_id": id.String(),
		}).WithError(err).Error("Failed to get task")
		return entity.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListByOwner returns the owner's tasks, newest first, narrowed by the
// optional filter fields.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter usecase.TaskFilter) ([]entity.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := r.builder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC")

	switch filter.Status {
	case "completed":
		q = q.Where(squirrel.Eq{"is_completed": true})
	case "pending":
		q = q.Where(squirrel.Eq{"is_completed": false})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Priority != "" {
		q = q.Where(squirrel.Eq{"priority": filter.Priority})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"method":   "ListByOwner",
			"owner_id": ownerID.String(),
		}).WithError(err).Error("Failed to list tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task entity.Task) (entity.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("category", task.Category).
		Set("priority", task.Priority).
		Set("due_date", task.DueDate).
		Set("progress", task.Progress).
		Set("is_completed", task.IsCompleted).
		Set("updated_at", task.UpdatedAt).
		Where(squirrel.Eq{"id": task.ID}).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
	if err != nil {
		return entity.Task{}, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Task{}, entity.ErrTaskNotFound
		}
		r.logger.WithFields(logrus.Fields{
			"method":  "Update",
			"task_id": task.ID.String(),
		}).WithError(err).Error("Failed to update task")
		return entity.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"method":  "Delete",
			"task_id": id.String(),
		}).WithError(err).Error("Failed to delete task")
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (entity.Task, error) {
	var task entity.Task
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Priority,
		&task.DueDate,
		&task.Progress,
		&task.IsCompleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	return task, err
}
