// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/collection"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/session"
	"github.com/your-org/fireplay-backend/internal/pkg/auth"
)

const (
	identityKey   = "identity"
	sessionKey    = "session"
	controllerKey = "collections"
	tokenKey      = "token"
)

// Sessions is the registry the auth middleware binds requests to
type Sessions = session.Registry[*collection.Controller]

// AbortSignInRequired answers 401 with the sign_in_required flag
func AbortSignInRequired(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":            message,
		"sign_in_required": true,
	})
}

// AuthMiddleware verifies the bearer token and binds the request to the
// user's session
func AuthMiddleware(provider identity.Provider, sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			AbortSignInRequired(c, "Authorization header required")
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			AbortSignInRequired(c, "Invalid authorization header format")
			return
		}

		ident, err := provider.Verify(c.Request.Context(), tokenString)
		if err != nil {
			AbortSignInRequired(c, "Invalid or expired token")
			return
		}

		bind(c, sessions, ident, tokenString)
		c.Next()
	}
}

// OptionalAuthMiddleware binds the session when a valid token is present
// and lets anonymous requests through
func OptionalAuthMiddleware(provider identity.Provider, sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		// Invalid token, continue without authentication
		ident, err := provider.Verify(c.Request.Context(), tokenString)
		if err == nil {
			bind(c, sessions, ident, tokenString)
		}

		c.Next()
	}
}

func bind(c *gin.Context, sessions *Sessions, ident identity.Identity, token string) {
	sess, ctrl := sessions.Acquire(c.Request.Context(), ident)

	c.Set(identityKey, ident)
	c.Set(sessionKey, sess)
	c.Set(controllerKey, ctrl)
	c.Set(tokenKey, token)
	c.Set("user_id", ident.UID)
}

// GetIdentityFromContext returns the authenticated identity
func GetIdentityFromContext(c *gin.Context) (identity.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return identity.Identity{}, false
	}
	ident, ok := v.(identity.Identity)
	return ident, ok
}

// GetSessionFromContext returns the session bound to the request
func GetSessionFromContext(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

// GetCollectionsFromContext returns the session's Cart/Favorites controller
func GetCollectionsFromContext(c *gin.Context) (*collection.Controller, bool) {
	v, exists := c.Get(controllerKey)
	if !exists {
		return nil, false
	}
	ctrl, ok := v.(*collection.Controller)
	return ctrl, ok
}

// GetTokenFromContext returns the bearer token of the request
func GetTokenFromContext(c *gin.Context) (string, bool) {
	token, exists := c.Get(tokenKey)
	if !exists {
		return "", false
	}
	s, ok := token.(string)
	return s, ok
}
