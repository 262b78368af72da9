package accounts

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

// MetricsInvalidator drops any cached metrics aggregation for a user.
// Implemented by the metrics cache; every account write calls it so the
// dashboard never serves stale totals for longer than one request.
type MetricsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// AccountService defines the business logic contract for connected accounts.
type AccountService interface {
	List(ctx context.Context, userID, platform string) ([]Account, error)
	Get(ctx context.Context, id, userID string) (*Account, error)
	Create(ctx context.Context, userID string, req CreateAccountRequest) (*Account, error)
	Update(ctx context.Context, id, userID string, req UpdateAccountRequest) (*Account, error)
	Delete(ctx context.Context, id, userID string) error
	Categories(ctx context.Context, userID string) ([]string, error)
}

// accountService implements AccountService.
type accountService struct {
	repo        AccountRepository
	invalidator MetricsInvalidator
}

// NewAccountService creates a new account service. invalidator may be nil
// in tests that don't exercise the metrics cache.
func NewAccountService(repo AccountRepository, invalidator MetricsInvalidator) AccountService {
	return &accountService{repo: repo, invalidator: invalidator}
}

// List returns the user's accounts, optionally filtered by platform.
func (s *accountService) List(ctx context.Context, userID, platform string) ([]Account, error) {
	if platform != "" {
		if !validPlatform(platform) {
			return nil, apperror.NewBadRequest("Unknown platform")
		}
		accounts, err := s.repo.ListByPlatform(ctx, userID, platform)
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		return accounts, nil
	}

	accounts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return accounts, nil
}

// Get returns one account owned by userID.
func (s *accountService) Get(ctx context.Context, id, userID string) (*Account, error) {
	account, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, wrap(err)
	}
	return account, nil
}

// Create validates and persists a new account for the user. The username
// pre-check gives a friendly 409; the (platform, username) unique index
// backs it up under concurrency.
func (s *accountService) Create(ctx context.Context, userID string, req CreateAccountRequest) (*Account, error) {
	if fields := validateCreateRequest(&req); len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	exists, err := s.repo.UsernameExists(ctx, req.Platform, req.Username, "")
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if exists {
		return nil, apperror.NewConflictField(
			"An account with this username already exists on this platform", "username")
	}

	now := time.Now().UTC()
	connected := Date{now}
	if req.ConnectedDate != nil && !req.ConnectedDate.IsZero() {
		connected = *req.ConnectedDate
	}

	account := &Account{
		ID:            uuid.NewString(),
		UserID:        userID,
		Platform:      req.Platform,
		Username:      strings.TrimSpace(req.Username),
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Followers:     max(req.Followers, 0),
		Following:     max(req.Following, 0),
		Posts:         max(req.Posts, 0),
		Verified:      req.Verified,
		Category:      strings.TrimSpace(req.Category),
		ConnectedDate: connected,
		IsActive:      req.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, wrap(err)
	}

	s.invalidate(ctx, userID)

	slog.Info("account connected",
		slog.String("user_id", userID),
		slog.String("account_id", account.ID),
		slog.String("platform", account.Platform),
	)

	return account, nil
}

// Update applies a partial update to an account owned by userID. When the
// update moves the account to a new (platform, username) pair, the pair is
// re-checked for collisions against every other account.
func (s *accountService) Update(ctx context.Context, id, userID string, req UpdateAccountRequest) (*Account, error) {
	existing, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, wrap(err)
	}

	if fields := validateUpdateRequest(&req); len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	// Resolve the effective pair after the update for the collision check.
	platform := existing.Platform
	if req.Platform != nil {
		platform = *req.Platform
	}
	username := existing.Username
	if req.Username != nil {
		username = *req.Username
	}
	if platform != existing.Platform || username != existing.Username {
		exists, err := s.repo.UsernameExists(ctx, platform, username, id)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking username: %w", err))
		}
		if exists {
			return nil, apperror.NewConflictField(
				"An account with this username already exists on this platform", "username")
		}
	}

	account, err := s.repo.Update(ctx, id, userID, req)
	if err != nil {
		return nil, wrap(err)
	}

	s.invalidate(ctx, userID)

	return account, nil
}

// Delete removes an account owned by userID.
func (s *accountService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return wrap(err)
	}

	s.invalidate(ctx, userID)

	slog.Info("account removed",
		slog.String("user_id", userID),
		slog.String("account_id", id),
	)

	return nil
}

// Categories returns the distinct categories across the user's accounts.
func (s *accountService) Categories(ctx context.Context, userID string) ([]string, error) {
	categories, err := s.repo.Categories(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return categories, nil
}

// invalidate drops the user's cached metrics summary after a write.
func (s *accountService) invalidate(ctx context.Context, userID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
}

// wrap passes AppErrors through and hides everything else behind a 500.
func wrap(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}

// --- Validation helpers ---

// validateCreateRequest checks the required fields for a new account.
func validateCreateRequest(req *CreateAccountRequest) []apperror.FieldError {
	var fields []apperror.FieldError

	if !validPlatform(req.Platform) {
		fields = append(fields, apperror.FieldError{Field: "platform", Message: "Platform is required"})
	}
	if strings.TrimSpace(req.Username) == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "Username is required"})
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		fields = append(fields, apperror.FieldError{Field: "displayName", Message: "Display name is required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		fields = append(fields, apperror.FieldError{Field: "category", Message: "Category is required"})
	}

	return fields
}

// validateUpdateRequest checks that provided fields are not emptied out and
// counters stay non-negative.
func validateUpdateRequest(req *UpdateAccountRequest) []apperror.FieldError {
	var fields []apperror.FieldError

	if req.Platform != nil && !validPlatform(*req.Platform) {
		fields = append(fields, apperror.FieldError{Field: "platform", Message: "Unknown platform"})
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "Username cannot be empty"})
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		fields = append(fields, apperror.FieldError{Field: "displayName", Message: "Display name cannot be empty"})
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		fields = append(fields, apperror.FieldError{Field: "category", Message: "Category cannot be empty"})
	}
	for field, value := range map[string]*int{
		"followers": req.Followers,
		"following": req.Following,
		"posts":     req.Posts,
	} {
		if value != nil && *value < 0 {
			fields = append(fields, apperror.FieldError{Field: field, Message: "Must be zero or greater"})
		}
	}

	return fields
}
