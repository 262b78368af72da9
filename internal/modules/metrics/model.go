// Package metrics aggregates the headline numbers for the dashboard:
// follower totals, per-platform breakdowns, and category lists across a
// user's connected accounts. Summaries are computed in SQL and cached in
// Redis for a short TTL; account writes invalidate the cache.
package metrics

// Summary is the aggregated view over one user's connected accounts.
type Summary struct {
	TotalAccounts    int             `json:"totalAccounts"`
	ActiveAccounts   int             `json:"activeAccounts"`
	VerifiedAccounts int             `json:"verifiedAccounts"`
	TotalFollowers   int             `json:"totalFollowers"`
	TotalFollowing   int             `json:"totalFollowing"`
	TotalPosts       int             `json:"totalPosts"`
	Platforms        []PlatformStats `json:"platforms"`
	Categories       []string        `json:"categories"`
}

// PlatformStats is the per-platform slice of the summary.
type PlatformStats struct {
	Platform  string `json:"platform"`
	Accounts  int    `json:"accounts"`
	Followers int    `json:"followers"`
	Posts     int    `json:"posts"`
}
