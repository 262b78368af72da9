package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/socialdash/socialdash/internal/apperror"
)

// invalidCredentialsMessage is the single generic message for every login
// failure. An unknown email and a wrong password must be indistinguishable
// to the caller, otherwise the endpoint enumerates registered addresses.
const invalidCredentialsMessage = "Invalid credentials"

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
// Token issuance deliberately does NOT live here: cookie policy belongs to
// the handler layer, identity verification belongs to this one.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}

// authService implements AuthService with bcrypt hashing.
type authService struct {
	repo UserRepository
}

// NewAuthService creates a new auth service with the given repository.
func NewAuthService(repo UserRepository) AuthService {
	return &authService{repo: repo}
}

// Register creates a new user. It checks email uniqueness, hashes the
// password, generates a UUID, and persists the record. The existence check
// produces a friendly 409 in the common case; the unique index on
// users.email catches the concurrent-registration race the check cannot.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	// Check before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflictField("This email is already registered", "email")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates a user by email and password. Lookup failure and
// password mismatch return the identical error.
func (s *authService) Login(ctx context.Context, input LoginInput) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// GetUser re-fetches the identity record for a verified principal, so
// GET /api/auth/me returns fresh profile fields. A valid token whose user
// has since been deleted surfaces as NotFound.
func (s *authService) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}

// NormalizeEmail lowercases and trims an email address. Uniqueness is
// enforced over the normalized form everywhere: registration, login, and
// profile updates must agree or a user could register twice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
