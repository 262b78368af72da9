// Package auth handles credential registration, login, password hashing,
// and stateless session tokens for socialdash. Sessions are signed JWTs
// carried in an HTTP-only cookie; the server stores nothing per session.
//
// Every protected route group mounts this package's guard middleware, and
// the user repository here is the single credential store for the whole
// application (the users module reuses it).
package auth

import (
	"time"
)

// User represents a registered socialdash user. This is the domain model
// used throughout the application. Database scanning and JSON marshaling
// use this struct directly.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the verified identity attached to a request after session
// validation. It is derived from a verified token on every request, never
// persisted, and valid only for the lifetime of that request.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest holds the data submitted to POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// PublicUser is the client-facing projection of a User: everything except
// the password hash. UpdatedAt is included only where the original record
// was re-fetched (GET /api/auth/me).
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Principal returns the session claims for the user.
func (u *User) Principal() Principal {
	return Principal{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}
}
