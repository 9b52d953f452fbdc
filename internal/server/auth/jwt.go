// Package auth issues and verifies signed identity tokens. Tokens are
// self-contained HS256 JWTs: verification needs only the signing secret,
// no server-side session state is consulted.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered claim set with the subject user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints a signed token for userID, valid for validityDuration
// from now.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString and returns the subject user ID.
// Expired tokens yield common.ErrTokenExpired; any other parse or signature
// failure yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
