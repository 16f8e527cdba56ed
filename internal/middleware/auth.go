package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/roomboard/pkg/auth"
)

const UserIDKey = "userID"

// Authenticator resolves a bearer token to a user id, rejecting revoked
// tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		userID, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the user when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := auth.ExtractTokenFromHeader(c.Request); err == nil {
			if userID, err := authenticator.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
