package entity

import "errors"

// Domain errors shared by the repositories and use cases. The HTTP layer
// maps them onto status codes.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrForbidden          = errors.New("not authorized to access this task")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
