// internal/interfaces/http/handlers/contact.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/contact"
)

// ContactHandler handles the contact form
type ContactHandler struct {
	contactService *contact.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *contact.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var msg contact.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.contactService.Submit(c.Request.Context(), &msg); err != nil {
		respondError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Message sent successfully",
	})
}
