package accounts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialdash/socialdash/internal/apperror"
	"github.com/socialdash/socialdash/internal/modules/auth"
)

// Handler handles HTTP requests for connected accounts. Handlers are thin:
// they read the principal, bind the request, call the service, and render
// the response.
type Handler struct {
	service AccountService
}

// NewHandler creates a new accounts handler.
func NewHandler(service AccountService) *Handler {
	return &Handler{service: service}
}

// List processes GET /api/accounts, optionally filtered with ?platform=.
func (h *Handler) List(c echo.Context) error {
	userID := auth.GetUserID(c)

	accounts, err := h.service.List(c.Request().Context(), userID, c.QueryParam("platform"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"accounts": accounts,
		"total":    len(accounts),
	})
}

// Get processes GET /api/accounts/:id.
func (h *Handler) Get(c echo.Context) error {
	account, err := h.service.Get(c.Request().Context(), c.Param("id"), auth.GetUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"account": account,
	})
}

// Create processes POST /api/accounts.
func (h *Handler) Create(c echo.Context) error {
	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}

	account, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully",
		"account": account,
	})
}

// Update processes PUT /api/accounts/:id.
func (h *Handler) Update(c echo.Context) error {
	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}

	account, err := h.service.Update(c.Request().Context(), c.Param("id"), auth.GetUserID(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Account updated successfully",
		"account": account,
	})
}

// Delete processes DELETE /api/accounts/:id.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), auth.GetUserID(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Account deleted successfully",
	})
}

// Categories processes GET /api/accounts/categories.
func (h *Handler) Categories(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}
