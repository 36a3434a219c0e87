// Package identity implements account creation and credential verification
// on top of the generic user store: bcrypt password hashing, username
// uniqueness, and access token issuance.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/server/auth"
	"github.com/dbalakin/userman/internal/server/dto"
	"github.com/dbalakin/userman/internal/server/models"
	"github.com/dbalakin/userman/internal/server/store"
)

// Service handles registration and login. It owns the credential fields of
// the user record; profile operations go through the repository directly.
type Service struct {
	users                       store.Store[models.User]
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewService(users store.Store[models.User], secretKey []byte, accessTokenValidityDuration time.Duration) *Service {
	return &Service{
		users:                       users,
		jwtSecret:                   secretKey,
		accessTokenValidityDuration: accessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Register validates the payload and creates the account with a freshly
// hashed password and the default role. Rule violations come back as field
// errors, not as an error value; the error return is reserved for storage
// and hashing failures.
func (s *Service) Register(ctx context.Context, d dto.RegisterDto) (*models.User, []dto.FieldError, error) {
	if fieldErrs := d.Validate(); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	taken, err := s.users.Find(ctx, func(u models.User) bool {
		return u.UserName == d.UserName
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error searching user: %w", err)
	}
	if len(taken) > 0 {
		return nil, []dto.FieldError{{Field: "userName", Message: "username is already taken"}}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := dto.RegisterDtoToUser(d)
	user.ID = uuid.NewString()
	user.PasswordHash = string(hash)
	user.Role = common.DefaultRole
	user.CreatedAt = s.now()

	if err := s.users.Add(ctx, user); err != nil {
		if errors.Is(err, common.ErrorConstraintViolation) {
			return nil, []dto.FieldError{{Field: "userName", Message: "username is already taken"}}, nil
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	return &user, nil, nil
}

// Login verifies the credentials and mints an access token. A missing user
// and a wrong password both yield ErrorUnauthorized so the response does not
// leak which one it was.
func (s *Service) Login(ctx context.Context, d dto.LoginDto) (*dto.AuthResponse, error) {
	matches, err := s.users.Find(ctx, func(u models.User) bool {
		return u.UserName == d.UserName
	})
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if len(matches) == 0 {
		return nil, common.ErrorUnauthorized
	}
	user := matches[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(d.Password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &dto.AuthResponse{
		UserID:      user.ID,
		UserName:    user.UserName,
		Role:        user.Role,
		AccessToken: token,
		ExpiresIn:   int64(s.accessTokenValidityDuration.Seconds()),
	}, nil
}
