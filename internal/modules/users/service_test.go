package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/socialdash/internal/apperror"
	"github.com/socialdash/socialdash/internal/modules/auth"
)

// --- Mock Repository ---

// mockUserRepo implements auth.UserRepository for testing.
type mockUserRepo struct {
	createFn            func(ctx context.Context, user *auth.User) error
	findByIDFn          func(ctx context.Context, id string) (*auth.User, error)
	findByEmailFn       func(ctx context.Context, email string) (*auth.User, error)
	emailExistsFn       func(ctx context.Context, email string) (bool, error)
	emailTakenByOtherFn func(ctx context.Context, email, excludeID string) (bool, error)
	listFn              func(ctx context.Context, offset, limit int) ([]auth.User, int, error)
	updateFn            func(ctx context.Context, id string, fields auth.UpdateUserFields) (*auth.User, error)
	deleteFn            func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *auth.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("User not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("User not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	if m.emailTakenByOtherFn != nil {
		return m.emailTakenByOtherFn(ctx, email, excludeID)
	}
	return false, nil
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]auth.User, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id string, fields auth.UpdateUserFields) (*auth.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return &auth.User{ID: id}, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

// --- List Tests ---

func TestUserList_ClampsPageAndLimit(t *testing.T) {
	var gotOffset, gotLimit int
	repo := &mockUserRepo{
		listFn: func(ctx context.Context, offset, limit int) ([]auth.User, int, error) {
			gotOffset, gotLimit = offset, limit
			return []auth.User{}, 35, nil
		},
	}
	svc := NewUserService(repo)

	_, pagination, err := svc.List(context.Background(), -3, 500)
	require.NoError(t, err)
	assert.Equal(t, 0, gotOffset, "negative page clamps to 1")
	assert.Equal(t, 10, gotLimit, "out-of-range limit falls back to the default")
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 35, pagination.Total)
	assert.Equal(t, 4, pagination.Pages)
}

func TestUserList_Offset(t *testing.T) {
	var gotOffset int
	repo := &mockUserRepo{
		listFn: func(ctx context.Context, offset, limit int) ([]auth.User, int, error) {
			gotOffset = offset
			return []auth.User{}, 100, nil
		},
	}
	svc := NewUserService(repo)

	_, _, err := svc.List(context.Background(), 3, 20)
	require.NoError(t, err)
	assert.Equal(t, 40, gotOffset)
}

// --- Create Tests ---

func TestUserCreate_HashesPassword(t *testing.T) {
	var created *auth.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *auth.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Bob",
		Email:    "Bob@Example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", created.Email)
	assert.NotEqual(t, "Str0ng!pass", created.PasswordHash)
	assert.True(t, auth.VerifyPassword("Str0ng!pass", created.PasswordHash))
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Bob",
		Email:    "taken@example.com",
		Password: "Str0ng!pass",
	})
	assert.Equal(t, 409, appErrCode(t, err))
}

// --- Update Tests ---

func TestUserUpdate_OtherUserIsForbidden(t *testing.T) {
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, id string, fields auth.UpdateUserFields) (*auth.User, error) {
			t.Fatal("update must not be reached for another user's record")
			return nil, nil
		},
	}
	svc := NewUserService(repo)

	name := "Mallory"
	_, err := svc.Update(context.Background(), "user-123", "victim-456", UpdateUserRequest{Name: &name})
	assert.Equal(t, 403, appErrCode(t, err))
}

func TestUserUpdate_OwnRecord(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*auth.User, error) {
			return &auth.User{ID: id, Name: "Ann", Email: "ann@example.com"}, nil
		},
		updateFn: func(ctx context.Context, id string, fields auth.UpdateUserFields) (*auth.User, error) {
			require.NotNil(t, fields.Name)
			return &auth.User{ID: id, Name: *fields.Name, Email: "ann@example.com"}, nil
		},
	}
	svc := NewUserService(repo)

	name := "Ann B."
	user, err := svc.Update(context.Background(), "user-123", "user-123", UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", user.Name)
}

func TestUserUpdate_EmailChangeConflict(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*auth.User, error) {
			return &auth.User{ID: id, Email: "ann@example.com"}, nil
		},
		emailTakenByOtherFn: func(ctx context.Context, email, excludeID string) (bool, error) {
			assert.Equal(t, "bob@example.com", email)
			assert.Equal(t, "user-123", excludeID)
			return true, nil
		},
	}
	svc := NewUserService(repo)

	email := "Bob@Example.com"
	_, err := svc.Update(context.Background(), "user-123", "user-123", UpdateUserRequest{Email: &email})
	assert.Equal(t, 409, appErrCode(t, err))
}

func TestUserUpdate_SameEmailSkipsCheck(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*auth.User, error) {
			return &auth.User{ID: id, Email: "ann@example.com"}, nil
		},
		emailTakenByOtherFn: func(ctx context.Context, email, excludeID string) (bool, error) {
			t.Fatal("unchanged email must not trigger the uniqueness check")
			return false, nil
		},
	}
	svc := NewUserService(repo)

	email := "  ANN@example.com "
	_, err := svc.Update(context.Background(), "user-123", "user-123", UpdateUserRequest{Email: &email})
	require.NoError(t, err)
}

func TestUserUpdate_PasswordIsRehashed(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*auth.User, error) {
			return &auth.User{ID: id, Email: "ann@example.com"}, nil
		},
		updateFn: func(ctx context.Context, id string, fields auth.UpdateUserFields) (*auth.User, error) {
			require.NotNil(t, fields.PasswordHash)
			assert.True(t, auth.VerifyPassword("New!pass123", *fields.PasswordHash))
			return &auth.User{ID: id}, nil
		},
	}
	svc := NewUserService(repo)

	password := "New!pass123"
	_, err := svc.Update(context.Background(), "user-123", "user-123", UpdateUserRequest{Password: &password})
	require.NoError(t, err)
}

// --- Delete Tests ---

func TestUserDelete_OtherUserIsForbidden(t *testing.T) {
	repo := &mockUserRepo{
		deleteFn: func(ctx context.Context, id string) error {
			t.Fatal("delete must not be reached for another user's record")
			return nil
		},
	}
	svc := NewUserService(repo)

	err := svc.Delete(context.Background(), "user-123", "victim-456")
	assert.Equal(t, 403, appErrCode(t, err))
}

func TestUserDelete_OwnRecord(t *testing.T) {
	deleted := ""
	repo := &mockUserRepo{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewUserService(repo)

	require.NoError(t, svc.Delete(context.Background(), "user-123", "user-123"))
	assert.Equal(t, "user-123", deleted)
}

func TestUserGet_NotFound(t *testing.T) {
	svc := NewUserService(&mockUserRepo{})
	_, err := svc.Get(context.Background(), "ghost")
	assert.Equal(t, 404, appErrCode(t, err))
}

func TestUserList_RepoError(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context, offset, limit int) ([]auth.User, int, error) {
			return nil, 0, errors.New("db down")
		},
	}
	svc := NewUserService(repo)

	_, _, err := svc.List(context.Background(), 1, 10)
	assert.Equal(t, 500, appErrCode(t, err))
}
