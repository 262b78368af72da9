// Package accounts implements CRUD for connected social profiles. Every
// operation is scoped to the authenticated owner: an account id from
// another user behaves exactly like a missing one.
package accounts

import (
	"encoding/json"
	"fmt"
	"time"
)

// Platforms supported for connected accounts. The accounts table enforces
// the same set at the schema level.
var Platforms = []string{"Instagram", "Facebook", "X", "TikTok", "LinkedIn", "YouTube"}

// Account represents a connected social profile and its headline metrics.
type Account struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"` // Owner; never exposed, always implied by the session.
	Platform      string    `json:"platform"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	Followers     int       `json:"followers"`
	Following     int       `json:"following"`
	Posts         int       `json:"posts"`
	Verified      bool      `json:"verified"`
	Category      string    `json:"category"`
	ConnectedDate Date      `json:"connectedDate"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Date is a day-granularity timestamp serialized as "2006-01-02". The
// connected date has no meaningful time component.
type Date struct {
	time.Time
}

// MarshalJSON renders the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON accepts "2006-01-02" or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// --- Request DTOs ---

// CreateAccountRequest holds the data submitted to POST /api/accounts.
type CreateAccountRequest struct {
	Platform      string `json:"platform"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName"`
	Followers     int    `json:"followers"`
	Following     int    `json:"following"`
	Posts         int    `json:"posts"`
	Verified      bool   `json:"verified"`
	Category      string `json:"category"`
	ConnectedDate *Date  `json:"connectedDate,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// UpdateAccountRequest holds the partial update submitted to
// PUT /api/accounts/:id. Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Platform      *string `json:"platform,omitempty"`
	Username      *string `json:"username,omitempty"`
	DisplayName   *string `json:"displayName,omitempty"`
	Followers     *int    `json:"followers,omitempty"`
	Following     *int    `json:"following,omitempty"`
	Posts         *int    `json:"posts,omitempty"`
	Verified      *bool   `json:"verified,omitempty"`
	Category      *string `json:"category,omitempty"`
	ConnectedDate *Date   `json:"connectedDate,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// validPlatform reports whether p is one of the supported platforms.
func validPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}
