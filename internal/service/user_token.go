package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserJWTClaims are the session claims for user-facing endpoints.
type UserJWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueUserToken signs a session token for a user.
func IssueUserToken(secretKey, userID string, expireHours int) (string, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return "", ErrTokenInvalid
	}
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := UserJWTClaims{
		UserID: trimmed,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ParseUserToken validates a session token and returns its claims.
func ParseUserToken(secretKey, tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
