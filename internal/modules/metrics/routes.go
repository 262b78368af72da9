package metrics

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the metrics routes on the given API group.
func RegisterRoutes(api *echo.Group, h *Handler, requireAuth echo.MiddlewareFunc) {
	g := api.Group("/metrics", requireAuth)

	g.GET("/summary", h.Summary)
}
