// Package auth issues and verifies the HS256 bearer tokens handed out by
// the login and registration flows.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/messagely/messagely/internal/common"
)

// Claims carries the standard registered claims plus the authenticated
// username.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

// GenerateToken mints a signed token for username valid for validityDuration.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUsernameFromToken parses and verifies tokenString, returning the
// username claim. Expired or tampered tokens yield an error.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
