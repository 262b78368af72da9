package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the adaptive work factor for password hashing. Fixed at 12:
// roughly 250ms per hash on current commodity hardware, slow enough to blunt
// offline brute force without making login sluggish.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt (random salt baked
// into the output). Fails only on invalid input, e.g. a password over
// bcrypt's 72-byte limit -- request validation rejects those earlier.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash
// using the library's constant-time compare. Returns false (never an error)
// on mismatch or a malformed hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
