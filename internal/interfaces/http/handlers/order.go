// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// OrderHandler serves the order history
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	ident, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	orders, err := h.orderService.History(c.Request.Context(), ident.UID)
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ident, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	o, err := h.orderService.Get(c.Request.Context(), ident.UID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// DownloadReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	ident, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	customer := ident.DisplayName
	if customer == "" {
		customer = ident.Email
	}

	orderID := c.Param("id")
	doc, err := h.orderService.Receipt(c.Request.Context(), ident.UID, orderID, customer)
	if err != nil {
		respondError(c, err, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", orderID))
	c.Data(http.StatusOK, "application/pdf", doc)
}
