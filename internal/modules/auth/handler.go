package auth

import (
	"net/http"
	"regexp"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/socialdash/socialdash/internal/apperror"
)

// SessionCookieName is the HTTP cookie carrying the session token.
const SessionCookieName = "auth_token"

// emailPattern is a pragmatic RFC-shaped check: one @, no whitespace, and a
// dotted domain. Full RFC 5322 validation is not worth the complexity.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Handler handles HTTP requests for authentication (register, login,
// logout, me). Handlers are thin: they bind the request, call the service,
// and render the response. Token issuance and cookie policy live here, not
// in the service.
type Handler struct {
	service       AuthService
	codec         *TokenCodec
	sessionTTL    time.Duration
	secureCookies bool
}

// NewHandler creates a new auth handler.
func NewHandler(service AuthService, codec *TokenCodec, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		service:       service,
		codec:         codec,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Register processes POST /api/auth/register. Validation failures return
// 400 with per-field errors before any store access; a duplicate email
// returns 409. Success issues a session token, sets the cookie, and
// returns 201.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}

	if fields := validateRegisterRequest(&req); len(fields) > 0 {
		return apperror.NewValidation(fields)
	}

	user, err := h.service.Register(c.Request().Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	token, err := h.codec.Issue(user.Principal())
	if err != nil {
		return apperror.NewInternal(err)
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
		"user":    user.Public(),
		"token":   token,
	})
}

// Login processes POST /api/auth/login. Any credential failure returns the
// same generic 401.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}

	if fields := validateLoginRequest(&req); len(fields) > 0 {
		return apperror.NewValidation(fields)
	}

	user, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	token, err := h.codec.Issue(user.Principal())
	if err != nil {
		return apperror.NewInternal(err)
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    user.Public(),
		"token":   token,
	})
}

// Logout processes POST /api/auth/logout. There is no server-side session
// to destroy -- clearing the cookie is the whole operation, so this always
// returns 200.
func (h *Handler) Logout(c echo.Context) error {
	clearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me processes GET /api/auth/me. The guard already verified the token; the
// identity record is re-fetched so the response reflects profile edits made
// after the token was issued. 404 means the token outlived its user.
func (h *Handler) Me(c echo.Context) error {
	principal := GetPrincipal(c)
	if principal == nil {
		return unauthenticated(c)
	}

	user, err := h.service.GetUser(c.Request().Context(), principal.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. HttpOnly (JS
// can't read it), SameSite=Strict, Max-Age matching the token's validity
// window, Secure in production.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// --- Validation helpers ---

// validateRegisterRequest checks the registration input: name 2-50 chars,
// RFC-shaped email, password at least 8 chars with one uppercase, one
// lowercase, one digit, and one symbol. Returns one error per bad field.
func validateRegisterRequest(req *RegisterRequest) []apperror.FieldError {
	var fields []apperror.FieldError

	switch {
	case req.Name == "":
		fields = append(fields, apperror.FieldError{Field: "name", Message: "Name is required"})
	case len(req.Name) < 2:
		fields = append(fields, apperror.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	case len(req.Name) > 50:
		fields = append(fields, apperror.FieldError{Field: "name", Message: "Name must be at most 50 characters"})
	}

	if msg := validateEmail(req.Email); msg != "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: msg})
	}

	if msg := validatePassword(req.Password); msg != "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: msg})
	}

	return fields
}

// validateLoginRequest checks the login input. Only presence and email
// shape: password policy is not re-checked on login.
func validateLoginRequest(req *LoginRequest) []apperror.FieldError {
	var fields []apperror.FieldError

	if msg := validateEmail(req.Email); msg != "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: msg})
	}
	if req.Password == "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Password is required"})
	}

	return fields
}

// validateEmail returns an error message or empty string.
func validateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if len(email) > 255 || !emailPattern.MatchString(email) {
		return "Email must be a valid email address"
	}
	return ""
}

// validatePassword enforces the password policy. The 72-character cap is
// bcrypt's input limit.
func validatePassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return "Password must be at most 72 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return "Password must contain an uppercase letter, a lowercase letter, a digit, and a symbol"
	}

	return ""
}
