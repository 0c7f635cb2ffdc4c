package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. Tokens expire after ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL is how long an issued token stays valid; the session cookie uses the same lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns an HS256 token carrying userID.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded user ID.
// Any malformed, expired or unsigned token is rejected.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if _, hasExp := claims["exp"]; !hasExp {
		return "", fmt.Errorf("invalid token: missing expiry")
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token: missing user id")
	}
	return userID, nil
}
