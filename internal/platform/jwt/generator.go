// Package jwtmw issues and verifies the bearer tokens that carry an authenticated session.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when a generator is asked to sign without a secret.
var ErrEmptySecret = errors.New("jwt secret is empty")

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given user and server-side session.
	GenerateToken(userID uint, username, sessionID string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
}

var _ Generator = (*generator)(nil)

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken creates a signed JWT token with standard claims plus username and sid.
func (g *generator) GenerateToken(userID uint, username, sessionID string) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"exp":      now.Add(g.expiration).Unix(),
		"iat":      now.Unix(),
		"username": username,
		"sid":      sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
