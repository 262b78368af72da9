package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys for storing session data in Echo context. Other modules use
// these keys (via the exported getter functions below) to access the
// authenticated user's identity.
const (
	contextKeyPrincipal = "auth_principal"
	contextKeyUserID    = "auth_user_id"
)

// RequireTokenPresence returns the cheap outer gate: it rejects requests
// without a session cookie before any signature work happens, except for
// the given public path prefixes. It does NOT verify the token -- full
// signature and expiry verification happens in RequireAuth on each
// protected group. The double gate filters obviously-unauthenticated
// traffic early while keeping the expensive check per protected route.
func RequireTokenPresence(publicPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			if getSessionToken(c) == "" {
				return unauthenticated(c)
			}
			return next(c)
		}
	}
}

// RequireAuth returns middleware that fully verifies the session cookie
// (signature and expiry) and injects the principal into the request
// context. Invalid or missing tokens yield a uniform 401.
//
// State machine per request: no token -> Unauthenticated; token present but
// invalid or expired -> Unauthenticated (stale cookie cleared); token valid
// -> Authenticated, handler proceeds with the principal in context.
func RequireAuth(codec *TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return unauthenticated(c)
			}

			principal := codec.Verify(token)
			if principal == nil {
				// Invalid or expired token -- clear the stale cookie so the
				// browser stops resending it.
				clearSessionCookie(c)
				return unauthenticated(c)
			}

			c.Set(contextKeyPrincipal, principal)
			c.Set(contextKeyUserID, principal.UserID)

			return next(c)
		}
	}
}

// unauthenticated writes the uniform 401 response. No detail beyond "not
// authenticated" is revealed, regardless of why verification failed.
func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": "Not authenticated",
	})
}

// --- Exported getters for other modules ---

// GetPrincipal retrieves the authenticated principal from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetPrincipal(c echo.Context) *Principal {
	principal, ok := c.Get(contextKeyPrincipal).(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
