package metrics

import (
	"context"
	"database/sql"
	"fmt"
)

// SummaryRepository computes metric aggregations straight in SQL. It reads
// the accounts table but owns its own queries -- aggregate shapes don't
// belong in the accounts CRUD repository.
type SummaryRepository interface {
	Summarize(ctx context.Context, userID string) (*Summary, error)
}

// summaryRepository implements SummaryRepository with hand-written MySQL queries.
type summaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new summary repository backed by the given DB pool.
func NewSummaryRepository(db *sql.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

// Summarize aggregates the user's accounts into a Summary.
func (r *summaryRepository) Summarize(ctx context.Context, userID string) (*Summary, error) {
	summary := &Summary{
		Platforms:  []PlatformStats{},
		Categories: []string{},
	}

	totals := `SELECT COUNT(*),
	                  COALESCE(SUM(is_active), 0),
	                  COALESCE(SUM(verified), 0),
	                  COALESCE(SUM(followers), 0),
	                  COALESCE(SUM(following), 0),
	                  COALESCE(SUM(posts), 0)
	           FROM accounts WHERE user_id = ?`

	err := r.db.QueryRowContext(ctx, totals, userID).Scan(
		&summary.TotalAccounts,
		&summary.ActiveAccounts,
		&summary.VerifiedAccounts,
		&summary.TotalFollowers,
		&summary.TotalFollowing,
		&summary.TotalPosts,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating account totals: %w", err)
	}

	perPlatform := `SELECT platform, COUNT(*),
	                       COALESCE(SUM(followers), 0),
	                       COALESCE(SUM(posts), 0)
	                FROM accounts WHERE user_id = ?
	                GROUP BY platform ORDER BY SUM(followers) DESC`

	rows, err := r.db.QueryContext(ctx, perPlatform, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating platform stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PlatformStats
		if err := rows.Scan(&p.Platform, &p.Accounts, &p.Followers, &p.Posts); err != nil {
			return nil, fmt.Errorf("scanning platform stats: %w", err)
		}
		summary.Platforms = append(summary.Platforms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM accounts WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var c string
		if err := catRows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		summary.Categories = append(summary.Categories, c)
	}

	return summary, catRows.Err()
}
