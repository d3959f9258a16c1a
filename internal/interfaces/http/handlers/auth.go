// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *user.Service
	sessions    *middleware.Sessions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}

	h.sessions.Acquire(c.Request.Context(), response.User)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    response,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	// loads favorites and cart ids for the new session
	h.sessions.Acquire(c.Request.Context(), response.User)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    response,
	})
}

// Logout revokes the user's tokens and ends the session
func (h *AuthHandler) Logout(c *gin.Context) {
	ident, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	if err := h.userService.Logout(c.Request.Context(), ident.UID); err != nil {
		respondError(c, err, "Failed to sign out")
		return
	}

	h.sessions.Release(c.Request.Context(), ident.UID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
