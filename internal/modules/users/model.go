// Package users implements the user management surface: paginated listing,
// creation, and self-service profile updates. It reuses the auth package's
// credential store; no second user table or repository exists.
//
// Mutating another user's record is rejected with 403. The original design
// compared ids and took no action on mismatch; the Forbidden branch closes
// that gap.
package users

// CreateUserRequest holds the data submitted to POST /api/users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest holds the partial update submitted to PATCH
// /api/users/:id. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Pagination describes one page of a listing response.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}
