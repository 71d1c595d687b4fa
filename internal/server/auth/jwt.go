// Package auth issues and validates the HS256 access tokens that identify
// the creating principal on authenticated endpoints.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schedvault/schedvault/internal/common"
)

// Claims carries the registered claims plus the principal identity used as
// a record's creator.
type Claims struct {
	jwt.RegisteredClaims
	Principal string `json:"principal"`
}

// GenerateToken mints an HS256 token for the given principal.
func GenerateToken(principal string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Principal: principal,
	})

	return token.SignedString(secretKey)
}

// GetPrincipalFromToken validates tokenString and returns the principal it
// identifies.
func GetPrincipalFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Principal == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Principal, nil
}
