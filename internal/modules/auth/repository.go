package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/socialdash/socialdash/internal/apperror"
)

// mysqlErrDuplicateEntry is the MySQL error number for a UNIQUE index
// violation. The unique index on users.email is what actually closes the
// check-then-insert race on concurrent registrations.
const mysqlErrDuplicateEntry = 1062

// UserRepository defines the data access contract for the credential store.
// All SQL lives in the concrete implementation -- no SQL leaks out. The
// users module reuses this interface for its CRUD surface.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]User, int, error)
	Update(ctx context.Context, id string, fields UpdateUserFields) (*User, error)
	Delete(ctx context.Context, id string) error
}

// UpdateUserFields holds the optional column updates for a user. Nil fields
// are left unchanged.
type UpdateUserFields struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// userRepository implements UserRepository with hand-written MySQL queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row. A duplicate email surfaces as a Conflict
// even when the caller's existence pre-check raced with another insert.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isDuplicateEntry(err) {
		return apperror.NewConflictField("This email is already registered", "email")
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, name, email, password_hash, created_at, updated_at
	          FROM users WHERE id = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by their email address.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, name, email, password_hash, created_at, updated_at
	          FROM users WHERE email = ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return user, nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during registration to check for duplicates before hashing the password.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}

	return exists, nil
}

// EmailTakenByOther returns true if any user other than excludeID holds the
// given email. Used when a profile update changes the email address.
func (r *userRepository) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND id <> ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email ownership: %w", err)
	}

	return exists, nil
}

// List returns a paginated list of users ordered by creation date, newest
// first, plus the total count for pagination. The password hash column is
// deliberately excluded.
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := `SELECT id, name, email, created_at, updated_at
	          FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

// Update applies the non-nil fields to the user row and returns the updated
// record. Returns apperror.NotFound if the user does not exist and Conflict
// if an email change collides with the unique index.
func (r *userRepository) Update(ctx context.Context, id string, fields UpdateUserFields) (*User, error) {
	var sets []string
	var args []any

	if fields.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *fields.Name)
	}
	if fields.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *fields.Email)
	}
	if fields.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *fields.PasswordHash)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	query := "UPDATE users SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE id = ?"
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if isDuplicateEntry(err) {
		return nil, apperror.NewConflictField("This email is already registered", "email")
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		// Zero rows can also mean a no-op update; confirm existence.
		return r.FindByID(ctx, id)
	}

	return r.FindByID(ctx, id)
}

// Delete removes a user row. Connected accounts cascade at the schema level.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("User not found")
	}

	return nil
}

// isDuplicateEntry reports whether err is a MySQL UNIQUE index violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
