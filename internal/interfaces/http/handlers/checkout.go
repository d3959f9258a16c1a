// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/checkout"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sess, ok := middleware.GetSessionFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}
	ctrl, _ := middleware.GetCollectionsFromContext(c)

	var state checkout.CartState
	if ctrl != nil {
		state = ctrl
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), sess, state)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}

	if !result.Placed {
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart is empty, nothing to order",
			"data":    result,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}
