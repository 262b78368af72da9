package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/socialdash/socialdash/internal/apperror"
	"github.com/socialdash/socialdash/internal/modules/auth"
)

// UserService defines the business logic contract for user management.
// Mutations take the acting principal's id so ownership can be enforced.
type UserService interface {
	List(ctx context.Context, page, limit int) ([]auth.User, Pagination, error)
	Get(ctx context.Context, id string) (*auth.User, error)
	Create(ctx context.Context, req CreateUserRequest) (*auth.User, error)
	Update(ctx context.Context, principalID, id string, req UpdateUserRequest) (*auth.User, error)
	Delete(ctx context.Context, principalID, id string) error
}

// userService implements UserService on top of the auth credential store.
type userService struct {
	repo auth.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(repo auth.UserRepository) UserService {
	return &userService{repo: repo}
}

// List returns one page of users plus pagination info. Page and limit are
// clamped to sane bounds.
func (s *userService) List(ctx context.Context, page, limit int) ([]auth.User, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, apperror.NewInternal(fmt.Errorf("listing users: %w", err))
	}

	pagination := Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	}

	return users, pagination, nil
}

// Get returns a user by id.
func (s *userService) Get(ctx context.Context, id string) (*auth.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}
	return user, nil
}

// Create persists a new user with a hashed password. Same uniqueness rules
// as registration.
func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*auth.User, error) {
	email := auth.NormalizeEmail(req.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflictField("This email is already registered", "email")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now().UTC()
	user := &auth.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, wrap(err)
	}

	slog.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Update applies a partial update to the user's own record. Acting on
// another user is Forbidden. An email change re-checks uniqueness against
// every other user; a password change is re-hashed.
func (s *userService) Update(ctx context.Context, principalID, id string, req UpdateUserRequest) (*auth.User, error) {
	if principalID != id {
		return nil, apperror.NewForbidden("You can only modify your own account")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}

	fields := auth.UpdateUserFields{Name: req.Name}

	if req.Email != nil {
		email := auth.NormalizeEmail(*req.Email)
		if email != existing.Email {
			taken, err := s.repo.EmailTakenByOther(ctx, email, id)
			if err != nil {
				return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
			}
			if taken {
				return nil, apperror.NewConflictField("This email is already registered", "email")
			}
			fields.Email = &email
		}
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
		}
		fields.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, wrap(err)
	}

	return user, nil
}

// Delete removes the user's own record. Acting on another user is
// Forbidden. Connected accounts cascade at the schema level.
func (s *userService) Delete(ctx context.Context, principalID, id string) error {
	if principalID != id {
		return apperror.NewForbidden("You can only delete your own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return wrap(err)
	}

	slog.Info("user deleted", slog.String("user_id", id))

	return nil
}

// wrap passes AppErrors through and hides everything else behind a 500.
func wrap(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}
