package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the JWT payload for a session token: the principal plus
// the registered issued-at/expiry claims.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TokenCodec signs and verifies session tokens with a process-wide HMAC
// secret (HS256). Tokens are stateless: the server keeps no session record
// and there is no revocation list -- expiry is the only invalidation.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration

	// now is injectable for expiry tests; defaults to time.Now.
	now func() time.Time
}

// NewTokenCodec creates a codec signing with the given secret. Issued tokens
// expire after ttl.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue serializes the principal plus an expiry (now + ttl) and signs it.
func (tc *TokenCodec) Issue(p Principal) (string, error) {
	now := tc.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
		UserID: p.UserID,
		Email:  p.Email,
		Name:   p.Name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// Verify checks the token's signature and expiry and returns the embedded
// principal, or nil for a malformed token, a signature mismatch, or an
// expired token. Verification failures are silent: callers treat nil as
// "unauthenticated", not as an error to propagate.
//
// Strict base64 decoding matters here: without it a flipped bit in the
// unused trailing padding of a segment would decode to the same payload
// bytes and slip past the signature check.
func (tc *TokenCodec) Verify(token string) *Principal {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return tc.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return tc.now() }),
	)
	if err != nil || !parsed.Valid {
		return nil
	}

	return &Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}
}
