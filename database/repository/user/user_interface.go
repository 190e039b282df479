package userRepo

import (
	"context"
	"errors"

	"chalethaven/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this email or username already exists")
)

// UserRepository defines methods for console account access.
type UserRepository interface {
	// GetByLogin looks a user up by email or username.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
