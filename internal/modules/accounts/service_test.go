package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/socialdash/internal/apperror"
)

// --- Mock Repository ---

// mockAccountRepo implements AccountRepository for testing.
type mockAccountRepo struct {
	createFn         func(ctx context.Context, account *Account) error
	findByIDFn       func(ctx context.Context, id, userID string) (*Account, error)
	listByUserFn     func(ctx context.Context, userID string) ([]Account, error)
	listByPlatformFn func(ctx context.Context, userID, platform string) ([]Account, error)
	updateFn         func(ctx context.Context, id, userID string, fields UpdateAccountRequest) (*Account, error)
	deleteFn         func(ctx context.Context, id, userID string) error
	categoriesFn     func(ctx context.Context, userID string) ([]string, error)
	usernameExistsFn func(ctx context.Context, platform, username, excludeID string) (bool, error)
}

func (m *mockAccountRepo) Create(ctx context.Context, account *Account) error {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id, userID string) (*Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id, userID)
	}
	return nil, apperror.NewNotFound("Account not found")
}

func (m *mockAccountRepo) ListByUser(ctx context.Context, userID string) ([]Account, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []Account{}, nil
}

func (m *mockAccountRepo) ListByPlatform(ctx context.Context, userID, platform string) ([]Account, error) {
	if m.listByPlatformFn != nil {
		return m.listByPlatformFn(ctx, userID, platform)
	}
	return []Account{}, nil
}

func (m *mockAccountRepo) Update(ctx context.Context, id, userID string, fields UpdateAccountRequest) (*Account, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, userID, fields)
	}
	return nil, apperror.NewNotFound("Account not found")
}

func (m *mockAccountRepo) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockAccountRepo) Categories(ctx context.Context, userID string) ([]string, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx, userID)
	}
	return []string{}, nil
}

func (m *mockAccountRepo) UsernameExists(ctx context.Context, platform, username, excludeID string) (bool, error) {
	if m.usernameExistsFn != nil {
		return m.usernameExistsFn(ctx, platform, username, excludeID)
	}
	return false, nil
}

// mockInvalidator counts cache invalidations.
type mockInvalidator struct {
	calls []string
}

func (m *mockInvalidator) Invalidate(ctx context.Context, userID string) {
	m.calls = append(m.calls, userID)
}

func validCreateRequest() CreateAccountRequest {
	return CreateAccountRequest{
		Platform:    "Instagram",
		Username:    "ann_gram",
		DisplayName: "Ann",
		Followers:   1200,
		Following:   300,
		Posts:       42,
		Category:    "Lifestyle",
		IsActive:    true,
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

// --- Create Tests ---

func TestAccountCreate_Success(t *testing.T) {
	var created *Account
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, account *Account) error {
			created = account
			return nil
		},
	}
	inv := &mockInvalidator{}
	svc := NewAccountService(repo, inv)

	account, err := svc.Create(context.Background(), "user-123", validCreateRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "user-123", created.UserID)
	assert.Equal(t, "Instagram", created.Platform)
	assert.False(t, created.ConnectedDate.IsZero(), "connected date defaults to today")
	assert.Equal(t, []string{"user-123"}, inv.calls, "create must invalidate the metrics cache")
}

func TestAccountCreate_ValidationFailure(t *testing.T) {
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, account *Account) error {
			t.Fatal("create must not be reached on validation failure")
			return nil
		},
	}
	svc := NewAccountService(repo, nil)

	_, err := svc.Create(context.Background(), "user-123", CreateAccountRequest{
		Platform: "Myspace",
		Username: "  ",
	})
	assert.Equal(t, 400, appErrCode(t, err))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.NotEmpty(t, appErr.Fields)
}

func TestAccountCreate_DuplicateUsername(t *testing.T) {
	repo := &mockAccountRepo{
		usernameExistsFn: func(ctx context.Context, platform, username, excludeID string) (bool, error) {
			assert.Equal(t, "Instagram", platform)
			assert.Equal(t, "ann_gram", username)
			assert.Empty(t, excludeID)
			return true, nil
		},
	}
	inv := &mockInvalidator{}
	svc := NewAccountService(repo, inv)

	_, err := svc.Create(context.Background(), "user-123", validCreateRequest())
	assert.Equal(t, 409, appErrCode(t, err))
	assert.Empty(t, inv.calls, "failed create must not invalidate the cache")
}

func TestAccountCreate_RacedDuplicatePassesThroughConflict(t *testing.T) {
	repo := &mockAccountRepo{
		createFn: func(ctx context.Context, account *Account) error {
			return apperror.NewConflictField(
				"An account with this username already exists on this platform", "username")
		},
	}
	svc := NewAccountService(repo, nil)

	_, err := svc.Create(context.Background(), "user-123", validCreateRequest())
	assert.Equal(t, 409, appErrCode(t, err))
}

// --- List Tests ---

func TestAccountList_UnknownPlatform(t *testing.T) {
	svc := NewAccountService(&mockAccountRepo{}, nil)

	_, err := svc.List(context.Background(), "user-123", "Myspace")
	assert.Equal(t, 400, appErrCode(t, err))
}

func TestAccountList_PlatformFilter(t *testing.T) {
	repo := &mockAccountRepo{
		listByPlatformFn: func(ctx context.Context, userID, platform string) ([]Account, error) {
			assert.Equal(t, "user-123", userID)
			assert.Equal(t, "X", platform)
			return []Account{{ID: "a1", Platform: "X"}}, nil
		},
	}
	svc := NewAccountService(repo, nil)

	accounts, err := svc.List(context.Background(), "user-123", "X")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

// --- Get Tests ---

func TestAccountGet_OtherUsersAccountIsNotFound(t *testing.T) {
	repo := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id, userID string) (*Account, error) {
			// Owner scoping in SQL means another user's id scans no rows.
			return nil, apperror.NewNotFound("Account not found")
		},
	}
	svc := NewAccountService(repo, nil)

	_, err := svc.Get(context.Background(), "someone-elses-account", "user-123")
	assert.Equal(t, 404, appErrCode(t, err))
}

// --- Update Tests ---

func TestAccountUpdate_CollisionCheckOnlyWhenPairChanges(t *testing.T) {
	checked := false
	existing := &Account{ID: "a1", UserID: "user-123", Platform: "Instagram", Username: "ann_gram"}
	repo := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id, userID string) (*Account, error) {
			return existing, nil
		},
		usernameExistsFn: func(ctx context.Context, platform, username, excludeID string) (bool, error) {
			checked = true
			assert.Equal(t, "a1", excludeID, "the account's own row is excluded from the check")
			return false, nil
		},
		updateFn: func(ctx context.Context, id, userID string, fields UpdateAccountRequest) (*Account, error) {
			return existing, nil
		},
	}
	inv := &mockInvalidator{}
	svc := NewAccountService(repo, inv)

	// Metrics-only update: same pair, no collision check.
	followers := 5000
	_, err := svc.Update(context.Background(), "a1", "user-123", UpdateAccountRequest{Followers: &followers})
	require.NoError(t, err)
	assert.False(t, checked)

	// Username change: pair differs, collision check runs.
	username := "ann_official"
	_, err = svc.Update(context.Background(), "a1", "user-123", UpdateAccountRequest{Username: &username})
	require.NoError(t, err)
	assert.True(t, checked)

	assert.Len(t, inv.calls, 2, "every successful update invalidates the cache")
}

func TestAccountUpdate_DuplicatePair(t *testing.T) {
	repo := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id, userID string) (*Account, error) {
			return &Account{ID: "a1", UserID: "user-123", Platform: "Instagram", Username: "ann_gram"}, nil
		},
		usernameExistsFn: func(ctx context.Context, platform, username, excludeID string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAccountService(repo, nil)

	username := "taken_name"
	_, err := svc.Update(context.Background(), "a1", "user-123", UpdateAccountRequest{Username: &username})
	assert.Equal(t, 409, appErrCode(t, err))
}

func TestAccountUpdate_NegativeCounter(t *testing.T) {
	repo := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id, userID string) (*Account, error) {
			return &Account{ID: "a1", UserID: "user-123", Platform: "Instagram", Username: "ann_gram"}, nil
		},
	}
	svc := NewAccountService(repo, nil)

	followers := -1
	_, err := svc.Update(context.Background(), "a1", "user-123", UpdateAccountRequest{Followers: &followers})
	assert.Equal(t, 400, appErrCode(t, err))
}

// --- Delete Tests ---

func TestAccountDelete_InvalidatesCache(t *testing.T) {
	inv := &mockInvalidator{}
	svc := NewAccountService(&mockAccountRepo{}, inv)

	require.NoError(t, svc.Delete(context.Background(), "a1", "user-123"))
	assert.Equal(t, []string{"user-123"}, inv.calls)
}

func TestAccountDelete_NotFound(t *testing.T) {
	repo := &mockAccountRepo{
		deleteFn: func(ctx context.Context, id, userID string) error {
			return apperror.NewNotFound("Account not found")
		},
	}
	inv := &mockInvalidator{}
	svc := NewAccountService(repo, inv)

	err := svc.Delete(context.Background(), "ghost", "user-123")
	assert.Equal(t, 404, appErrCode(t, err))
	assert.Empty(t, inv.calls)
}

// --- Categories Tests ---

func TestAccountCategories_RepoError(t *testing.T) {
	repo := &mockAccountRepo{
		categoriesFn: func(ctx context.Context, userID string) ([]string, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewAccountService(repo, nil)

	_, err := svc.Categories(context.Background(), "user-123")
	assert.Equal(t, 500, appErrCode(t, err))
}
