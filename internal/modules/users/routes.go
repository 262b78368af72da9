package users

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all user management routes on the given API group.
// Every route requires the full session guard.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g := api.Group("/users", requireAuth)

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
