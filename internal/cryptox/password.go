// Package cryptox wraps the password hashing primitives used by the
// identity layer. Hashing cost is injected by the caller so the work
// factor stays a single startup-time tunable.
package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a one-way bcrypt hash of password with the given
// cost. The plaintext is never stored.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored bcrypt
// hash. bcrypt's comparison is constant-time with respect to the hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
