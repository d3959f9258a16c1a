// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// UserProfileHandler handles the dashboard endpoints
type UserProfileHandler struct {
	userService *user.Service
	sessions    *middleware.Sessions
}

// NewUserProfileHandler creates a new user profile handler
func NewUserProfileHandler(userService *user.Service, sessions *middleware.Sessions) *UserProfileHandler {
	return &UserProfileHandler{
		userService: userService,
		sessions:    sessions,
	}
}

// ProfileView is a profile with the derived age
type ProfileView struct {
	*user.Profile
	Age *int `json:"age,omitempty"`
}

func newProfileView(p *user.Profile) ProfileView {
	view := ProfileView{Profile: p}
	if age := p.Age(time.Now()); age >= 0 {
		view.Age = &age
	}
	return view
}

// GetProfile handles GET /profile
func (h *UserProfileHandler) GetProfile(c *gin.Context) {
	ident, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    newProfileView(profile),
	})
}

// UpdateProfile handles PUT /profile
func (h *UserProfileHandler) UpdateProfile(c *gin.Context) {
	ident, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, updated, err := h.userService.UpdateProfile(c.Request.Context(), ident, &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	// subscribers see the new email through an Updated event
	if updated != ident {
		h.sessions.Acquire(c.Request.Context(), updated)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    newProfileView(profile),
	})
}
