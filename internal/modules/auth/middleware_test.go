package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// newGuardedEcho builds an Echo instance with the double gate wired the way
// the application wires it: presence check on the /api group, full
// verification on the protected route.
func newGuardedEcho(codec *TokenCodec) *echo.Echo {
	e := echo.New()

	api := e.Group("/api", RequireTokenPresence("/api/auth/login"))

	api.POST("/auth/login", func(c echo.Context) error {
		return c.String(http.StatusOK, "login")
	})
	api.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserID(c))
	}, RequireAuth(codec))

	return e
}

func request(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPresenceGate_SkipsPublicPrefixes(t *testing.T) {
	tc, _ := newTestCodec(time.Hour)
	e := newGuardedEcho(tc)

	rec := request(e, http.MethodPost, "/api/auth/login", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for public route without cookie, got %d", rec.Code)
	}
}

func TestPresenceGate_RejectsMissingCookie(t *testing.T) {
	tc, _ := newTestCodec(time.Hour)
	e := newGuardedEcho(tc)

	rec := request(e, http.MethodGet, "/api/protected", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", rec.Code)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tc, _ := newTestCodec(time.Hour)
	e := newGuardedEcho(tc)

	token, err := tc.Issue(Principal{UserID: "u1", Email: "a@b.com", Name: "Ann"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	rec := request(e, http.MethodGet, "/api/protected", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
	if rec.Body.String() != "u1" {
		t.Errorf("expected principal user id in context, got %q", rec.Body.String())
	}
}

func TestRequireAuth_InvalidTokenClearsCookie(t *testing.T) {
	tc, _ := newTestCodec(time.Hour)
	e := newGuardedEcho(tc)

	rec := request(e, http.MethodGet, "/api/protected", "not-a-real-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}

	// The stale cookie should be expired so the browser stops resending it.
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected stale session cookie to be cleared")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tc, now := newTestCodec(time.Hour)
	e := newGuardedEcho(tc)

	token, err := tc.Issue(Principal{UserID: "u1", Email: "a@b.com", Name: "Ann"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	*now = now.Add(2 * time.Hour)

	rec := request(e, http.MethodGet, "/api/protected", token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestGetPrincipal_Unauthenticated(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if GetPrincipal(c) != nil {
		t.Error("expected nil principal without the guard")
	}
	if GetUserID(c) != "" {
		t.Error("expected empty user id without the guard")
	}
}
