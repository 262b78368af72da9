package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialdash/socialdash/internal/middleware"
)

// RegisterRoutes sets up all auth routes on the given API group. Register,
// login, and logout are public (the presence gate skips them); /me requires
// the full guard.
//
// POST endpoints are rate-limited to slow brute-force and credential
// stuffing: 10 attempts per IP per minute for login, 5 for register.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g := api.Group("/auth")

	g.POST("/register", h.Register, middleware.RateLimit(5, time.Minute))
	g.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	g.POST("/logout", h.Logout)

	g.GET("/me", h.Me, requireAuth)
}
