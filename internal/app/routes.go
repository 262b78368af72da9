package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialdash/socialdash/internal/modules/accounts"
	"github.com/socialdash/socialdash/internal/modules/auth"
	"github.com/socialdash/socialdash/internal/modules/metrics"
	"github.com/socialdash/socialdash/internal/modules/users"
)

// RegisterRoutes sets up all application routes. It constructs each module's
// repository, service, and handler, then delegates to the module's route
// registration function.
//
// This is the single place where all routes are aggregated and the only
// place that knows how the modules depend on each other.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for Docker health monitoring and load balancers.
	// Verifies both backing stores are reachable.
	e.GET("/healthz", a.healthz)

	// --- Session machinery shared by all modules ---

	codec := auth.NewTokenCodec(a.Config.Auth.JWTSecret, a.Config.Auth.SessionTTL)
	requireAuth := auth.RequireAuth(codec)

	// The API group carries the cheap presence gate: any request without a
	// session cookie is turned away before routing reaches a handler, except
	// for the auth endpoints that establish or end a session. Full token
	// verification happens per protected route in requireAuth.
	api := e.Group("/api", auth.RequireTokenPresence(
		"/api/auth/register",
		"/api/auth/login",
		"/api/auth/logout",
	))

	// --- Auth module ---

	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo)
	authHandler := auth.NewHandler(authService, codec, a.Config.Auth.SessionTTL, a.Config.Auth.SecureCookies)
	auth.RegisterRoutes(api, authHandler, requireAuth)

	// --- Metrics module ---
	// Built before accounts: the summary cache doubles as the invalidator
	// the accounts service calls after every write.

	metricsCache := metrics.NewCache(a.Redis, a.Config.Redis.MetricsTTL)
	metricsService := metrics.NewMetricsService(metrics.NewSummaryRepository(a.DB), metricsCache)
	metrics.RegisterRoutes(api, metrics.NewHandler(metricsService), requireAuth)

	// --- Accounts module ---

	accountRepo := accounts.NewAccountRepository(a.DB)
	accountService := accounts.NewAccountService(accountRepo, metricsCache)
	accounts.RegisterRoutes(api, accounts.NewHandler(accountService), requireAuth)

	// --- Users module ---
	// Reuses the auth module's user repository; there is one users table.

	userService := users.NewUserService(userRepo)
	users.RegisterRoutes(api, users.NewHandler(userService), requireAuth)
}

// healthz reports whether the service and its backing stores are usable.
// Returns 503 when MySQL or Redis is unreachable so orchestrators can stop
// routing traffic here.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{
		"status": "ok",
		"db":     "ok",
		"redis":  "ok",
	}
	healthy := true

	if err := a.DB.PingContext(ctx); err != nil {
		status["db"] = "unreachable"
		healthy = false
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		status["redis"] = "unreachable"
		healthy = false
	}

	if !healthy {
		status["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, status)
	}

	return c.JSON(http.StatusOK, status)
}
