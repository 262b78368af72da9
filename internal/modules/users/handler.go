package users

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/socialdash/socialdash/internal/apperror"
	"github.com/socialdash/socialdash/internal/modules/auth"
)

// Handler handles HTTP requests for user management.
type Handler struct {
	service UserService
}

// NewHandler creates a new users handler.
func NewHandler(service UserService) *Handler {
	return &Handler{service: service}
}

// List processes GET /api/users with ?page= and ?limit= query parameters.
func (h *Handler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, pagination, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"users":      users,
		"pagination": pagination,
	})
}

// Get processes GET /api/users/:id.
func (h *Handler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// Create processes POST /api/users.
func (h *Handler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}

	var fields []apperror.FieldError
	if req.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if req.Email == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Email is required"})
	}
	if req.Password == "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(fields) > 0 {
		return apperror.NewValidation(fields)
	}

	user, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created successfully",
		"user":    user.Public(),
	})
}

// Update processes PATCH /api/users/:id. Only the user themselves may
// update the record; anyone else gets 403.
func (h *Handler) Update(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}

	if req.Name == nil && req.Email == nil && req.Password == nil {
		return apperror.NewBadRequest("No data to update")
	}

	user, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete processes DELETE /api/users/:id. Only the user themselves may
// delete the record; anyone else gets 403.
func (h *Handler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "User deleted successfully",
	})
}
