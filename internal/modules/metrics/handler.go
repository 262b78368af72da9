package metrics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialdash/socialdash/internal/modules/auth"
)

// Handler handles HTTP requests for dashboard metrics.
type Handler struct {
	service MetricsService
}

// NewHandler creates a new metrics handler.
func NewHandler(service MetricsService) *Handler {
	return &Handler{service: service}
}

// Summary processes GET /api/metrics/summary.
func (h *Handler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"summary": summary,
	})
}
