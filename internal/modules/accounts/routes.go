package accounts

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all account routes on the given API group. Every
// route requires the full session guard.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g := api.Group("/accounts", requireAuth)

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/categories", h.Categories)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
