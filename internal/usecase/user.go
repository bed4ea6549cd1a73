package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/taskflow/internal/entity"
	"github.com/taskflow/taskflow/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	Register(ctx context.Context, creds entity.Credentials) (entity.User, error)
	Login(ctx context.Context, creds entity.Credentials) (entity.User, error)
	Get(ctx context.Context, id uuid.UUID) (entity.User, error)
}

type UserRepository interface {
	Create(ctx context.Context, user entity.User) (entity.User, error)
	Get(ctx context.Context, id uuid.UUID) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}

type UserUseCaseImpl struct {
	userRepo UserRepository
}

func NewUserUseCase(userRepo UserRepository) *UserUseCaseImpl {
	return &UserUseCaseImpl{userRepo: userRepo}
}

func (uc *UserUseCaseImpl) Register(ctx context.Context, creds entity.Credentials) (entity.User, error) {
	creds.Normalize()
	if err := creds.ValidateRegistration(); err != nil {
		logger.Log.WithError(err).Warn("Registration validation failed")
		return entity.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return entity.User{}, err
	}

	user := entity.User{
		ID:           uuid.New(),
		Name:         creds.Name,
		Email:        creds.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	created, err := uc.userRepo.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, entity.ErrEmailTaken) {
			logger.Log.WithError(err).Error("Failed to create user")
		}
		return entity.User{}, err
	}

	logger.Log.WithField("user_id", created.ID).Info("User registered")
	return created, nil
}

// Login verifies the credentials. A missing user and a wrong password are
// reported identically so the response never reveals which one it was.
func (uc *UserUseCaseImpl) Login(ctx context.Context, creds entity.Credentials) (entity.User, error) {
	creds.Normalize()
	if err := creds.ValidateLogin(); err != nil {
		return entity.User{}, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return entity.User{}, entity.ErrInvalidCredentials
		}
		logger.Log.WithError(err).Error("Failed to fetch user for login")
		return entity.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return entity.User{}, entity.ErrInvalidCredentials
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

func (uc *UserUseCaseImpl) Get(ctx context.Context, id uuid.UUID) (entity.User, error) {
	return uc.userRepo.Get(ctx, id)
}
