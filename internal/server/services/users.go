// Package services contains the server-side business logic. This file
// implements UserService: profile CRUD, filtered search, and the cached
// user-list read path.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/logging"
	"github.com/dbalakin/userman/internal/server/cache"
	"github.com/dbalakin/userman/internal/server/config"
	"github.com/dbalakin/userman/internal/server/dto"
	"github.com/dbalakin/userman/internal/server/models"
	"github.com/dbalakin/userman/internal/server/repositories/unitofwork"
)

// UsersListCacheKey is the single key under which the full user list
// snapshot lives. The list is cached as a whole; writes never touch it, the
// snapshot simply ages out.
const UsersListCacheKey = "usersList"

// FindFilter narrows a user search. Nil or empty fields match everything;
// the string fields compare case-insensitively, Age matches exactly.
type FindFilter struct {
	Age           *int
	Gender        string
	MaritalStatus string
	Location      string
}

func (f FindFilter) matches(u models.User) bool {
	if f.Age != nil && u.Age != *f.Age {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(u.Gender, f.Gender) {
		return false
	}
	if f.MaritalStatus != "" && !strings.EqualFold(u.MaritalStatus, f.MaritalStatus) {
		return false
	}
	if f.Location != "" && !strings.EqualFold(u.Location, f.Location) {
		return false
	}
	return true
}

// UserService exposes the user-management operations. Every call runs in its
// own unit of work; the list read path goes through the cache first.
type UserService struct {
	uow    unitofwork.Factory
	cache  cache.Store
	opts   cache.EntryOptions
	logger logging.Logger
}

func NewUserService(uow unitofwork.Factory, cacheStore cache.Store, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		uow:   uow,
		cache: cacheStore,
		opts: cache.EntryOptions{
			Absolute: cfg.CacheAbsoluteExpiration,
			Sliding:  cfg.CacheSlidingExpiration,
		},
		logger: logger.With("component", "users"),
	}
}

// ListAll returns every user, serving from the cached snapshot when one is
// live. An empty table yields ErrorNotFound and is never cached, so the next
// call probes the store again. Cache failures propagate; there is no
// degraded read path.
func (s *UserService) ListAll(ctx context.Context) ([]dto.UserDto, error) {
	data, ok, err := s.cache.Get(ctx, UsersListCacheKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var out []dto.UserDto
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("cache error: %w", err)
		}
		s.logger.Debug(ctx, "user list served from cache")
		return out, nil
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	users, err := uow.Users().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	if len(users) == 0 {
		return nil, common.ErrorNotFound
	}

	out := dto.UsersToDto(users)

	data, err = json.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, UsersListCacheKey, data, s.opts); err != nil {
		return nil, err
	}

	return out, nil
}

// Get returns one user by identifier.
func (s *UserService) Get(ctx context.Context, id string) (*dto.UserDto, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	user, err := uow.Users().Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	out := dto.UserToDto(user)
	return &out, nil
}

// Register creates an account. Field errors report rule violations.
func (s *UserService) Register(ctx context.Context, d dto.RegisterDto) (*dto.UserDto, []dto.FieldError, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer uow.Close()

	user, fieldErrs, err := uow.Users().Register(ctx, d)
	if err != nil || len(fieldErrs) > 0 {
		return nil, fieldErrs, err
	}

	out := dto.UserToDto(*user)
	return &out, nil, nil
}

// Login verifies credentials and returns an access token.
func (s *UserService) Login(ctx context.Context, d dto.LoginDto) (*dto.AuthResponse, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	return uow.Users().Login(ctx, d)
}

// Update overwrites the profile fields of the user identified by the DTO.
// Identity and credential fields stay as they were.
func (s *UserService) Update(ctx context.Context, d dto.UserDto) (*dto.UserDto, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	user, err := uow.Users().Get(ctx, d.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	dto.ApplyDto(&user, d)

	if err := uow.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	out := dto.UserToDto(user)
	return &out, nil
}

// Delete removes the user by identifier; ErrorNotFound when absent.
func (s *UserService) Delete(ctx context.Context, id string) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Close()

	if err := uow.Users().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	return nil
}

// Find returns the users matching the filter; ErrorNotFound when nothing
// matches. The search always hits the store, never the cached snapshot.
func (s *UserService) Find(ctx context.Context, filter FindFilter) ([]dto.UserDto, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	users, err := uow.Users().Find(ctx, filter.matches)
	if err != nil {
		return nil, fmt.Errorf("error searching users: %w", err)
	}
	if len(users) == 0 {
		return nil, common.ErrorNotFound
	}

	return dto.UsersToDto(users), nil
}
