package entity

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxNameLen     = 50
	minPasswordLen = 6
)

// User is an account that owns tasks. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Credentials is the raw registration/login input before hashing.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the identity fields and lowercases the email.
func (c *Credentials) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

// ValidateRegistration checks all fields required to create an account.
func (c *Credentials) ValidateRegistration() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if utf8.RuneCountInString(c.Name) > maxNameLen {
		return &ValidationError{Field: "name", Reason: "cannot be more than 50 characters"}
	}
	if err := c.ValidateLogin(); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Password) < minPasswordLen {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	return nil
}

// ValidateLogin checks the fields required to authenticate.
func (c *Credentials) ValidateLogin() error {
	if c.Email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return &ValidationError{Field: "email", Reason: "must be a valid email"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}
