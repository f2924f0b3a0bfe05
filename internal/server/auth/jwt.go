// Package auth issues and validates access tokens and keeps the in-memory
// session registry that holds each logged-in account's vault secret.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

// Claims carries the standard registered claims plus the account id.
// The token ID (jti) keys the server-side session holding the vault secret.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64
}

// GenerateToken mints an HS256 access token for accountID with the given jti.
func GenerateToken(accountID int64, tokenID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
