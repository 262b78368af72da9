package accounts

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
// violation; the accounts table has one on (platform, username).
const mysqlErrDuplicateEntry = 1062

// AccountRepository defines the data access contract for connected
// accounts. Every query that touches a single row takes the owner's userID
// and scopes on it -- ownership is enforced in SQL, not in handlers.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id, userID string) (*Account, error)
	ListByUser(ctx context.Context, userID string) ([]Account, error)
	ListByPlatform(ctx context.Context, userID, platform string) ([]Account, error)
	Update(ctx context.Context, id, userID string, fields UpdateAccountRequest) (*Account, error)
	Delete(ctx context.Context, id, userID string) error
	Categories(ctx context.Context, userID string) ([]string, error)
	UsernameExists(ctx context.Context, platform, username, excludeID string) (bool, error)
}

// accountRepository implements AccountRepository with hand-written MySQL queries.
type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository backed by the given DB pool.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, user_id, platform, username, display_name, followers, following,
	posts, verified, category, connected_date, is_active, created_at, updated_at`

// scanAccount scans one row into an Account.
func scanAccount(row interface{ Scan(...any) error }) (*Account, error) {
	a := &Account{}
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Platform,
		&a.Username,
		&a.DisplayName,
		&a.Followers,
		&a.Following,
		&a.Posts,
		&a.Verified,
		&a.Category,
		&a.ConnectedDate.Time,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new account row. A (platform, username) collision maps
// to Conflict even when the caller's pre-check raced with another insert.
func (r *accountRepository) Create(ctx context.Context, account *Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.Platform,
		account.Username,
		account.DisplayName,
		account.Followers,
		account.Following,
		account.Posts,
		account.Verified,
		account.Category,
		account.ConnectedDate.Time,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if isDuplicateEntry(err) {
		return apperror.NewConflictField("This username is already registered", "username")
	}
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// FindByID retrieves an account owned by userID. Another user's account id
// returns NotFound, indistinguishable from a missing one.
func (r *accountRepository) FindByID(ctx context.Context, id, userID string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? AND user_id = ?`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("Account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying account by id: %w", err)
	}

	return account, nil
}

// ListByUser returns all of the user's accounts, newest first.
func (r *accountRepository) ListByUser(ctx context.Context, userID string) ([]Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
	          WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByPlatform returns the user's accounts on one platform, newest first.
func (r *accountRepository) ListByPlatform(ctx context.Context, userID, platform string) ([]Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
	          WHERE user_id = ? AND platform = ? ORDER BY created_at DESC`
	return r.list(ctx, query, userID, platform)
}

// list runs a multi-row account query.
func (r *accountRepository) list(ctx context.Context, query string, args ...any) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

// Update applies the non-nil fields to an account owned by userID and
// returns the updated record.
func (r *accountRepository) Update(ctx context.Context, id, userID string, fields UpdateAccountRequest) (*Account, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if fields.Platform != nil {
		add("platform", *fields.Platform)
	}
	if fields.Username != nil {
		add("username", *fields.Username)
	}
	if fields.DisplayName != nil {
		add("display_name", *fields.DisplayName)
	}
	if fields.Followers != nil {
		add("followers", *fields.Followers)
	}
	if fields.Following != nil {
		add("following", *fields.Following)
	}
	if fields.Posts != nil {
		add("posts", *fields.Posts)
	}
	if fields.Verified != nil {
		add("verified", *fields.Verified)
	}
	if fields.Category != nil {
		add("category", *fields.Category)
	}
	if fields.ConnectedDate != nil {
		add("connected_date", fields.ConnectedDate.Time)
	}
	if fields.IsActive != nil {
		add("is_active", *fields.IsActive)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id, userID)
	}

	query := "UPDATE accounts SET " + strings.Join(sets, ", ") +
		", updated_at = NOW() WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)

	_, err := r.db.ExecContext(ctx, query, args...)
	if isDuplicateEntry(err) {
		return nil, apperror.NewConflictField("This username is already registered", "username")
	}
	if err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	return r.FindByID(ctx, id, userID)
}

// Delete removes an account owned by userID.
func (r *accountRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("Account not found")
	}

	return nil
}

// Categories returns the distinct categories across the user's accounts.
func (r *accountRepository) Categories(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM accounts WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// UsernameExists returns true if an account other than excludeID already
// uses the username on the platform. Pass excludeID="" on create.
func (r *accountRepository) UsernameExists(ctx context.Context, platform, username, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts
	          WHERE platform = ? AND username = ? AND id <> ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, platform, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}

	return exists, nil
}

// isDuplicateEntry reports whether err is a MySQL UNIQUE index violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
