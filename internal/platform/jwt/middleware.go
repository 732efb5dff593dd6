package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sibtech_backend/internal/shared/identity"
)

const (
	// ContextSession is the gin context key holding identity.SessionContext.
	ContextSession = "session"
	// ContextSessionID is the gin context key holding the server-side session id.
	ContextSessionID = "sessionID"
)

// SessionChecker reports whether a server-side session is still active (not revoked, not expired).
type SessionChecker interface {
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(secret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		if secret == "" {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 2. Parse and verify JWT signature
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// Check signing algorithm (only HMAC allowed)
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. Extract claims (payload)
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		sub, _ := claims["sub"].(float64) // JWT numbers are decoded as float64
		username, _ := claims["username"].(string)
		sid, _ := claims["sid"].(string)
		if sub <= 0 || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. The token must still map to a live session (logout revokes it)
		active, err := sessions.IsActive(c.Request.Context(), sid)
		if err != nil {
			slog.Error("session lookup failed", "error", err, "session_id", sid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session ended"})
			return
		}

		c.Set(ContextSession, identity.SessionContext{UserID: uint(sub), Username: username})
		c.Set(ContextSessionID, sid)
		c.Next()
	}
}

// SessionFrom returns the identity stored by AuthRequired.
func SessionFrom(c *gin.Context) (identity.SessionContext, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return identity.SessionContext{}, false
	}
	s, ok := v.(identity.SessionContext)
	return s, ok && !s.IsZero()
}

// SessionIDFrom returns the server-side session id stored by AuthRequired.
func SessionIDFrom(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
