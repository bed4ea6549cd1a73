package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/pkg/logger"
)

const uniqueViolationCode = "23505"

var userColumns = []string{"id", "name", "email", "password_hash", "created_at"}

type UserRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
	logger  *logrus.Logger
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger:  logger.Log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user entity.User) (entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt).
		ToSql()
	if err != nil {
		return entity.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return entity.User{}, entity.ErrEmailTaken
		}
		r.logger.WithFields(logrus.Fields{
			"method": "Create",
			"email":  user.Email,
		}).WithError(err).Error("Failed to create user")
		return entity.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return entity.User{}, fmt.Errorf("failed to build select query: %w", err)
	}
	return r.scanOne(ctx, query, args)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := r.builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return entity.User{}, fmt.Errorf("failed to build select query: %w", err)
	}
	return r.scanOne(ctx, query, args)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, args []interface{}) (entity.User, error) {
	var user entity.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		r.logger.WithField("method", "scanOne").WithError(err).Error("Failed to get user")
		return entity.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
