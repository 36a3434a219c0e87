// Package users is the user aggregate repository: the generic store typed to
// the User entity plus the identity operations layered on top of it.
package users

import (
	"context"

	"github.com/dbalakin/userman/internal/server/dto"
	"github.com/dbalakin/userman/internal/server/models"
	"github.com/dbalakin/userman/internal/server/store"
)

// Repository is everything the service layer can do with users.
type Repository interface {
	store.Store[models.User]

	// Register creates an account; rule violations come back as field
	// errors rather than an error value.
	Register(ctx context.Context, d dto.RegisterDto) (*models.User, []dto.FieldError, error)

	// Login verifies credentials and mints an access token.
	Login(ctx context.Context, d dto.LoginDto) (*dto.AuthResponse, error)
}
