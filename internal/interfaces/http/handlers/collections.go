// internal/interfaces/http/handlers/collections.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/collection"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// CollectionHandler serves the favorites or the cart of the signed-in user
type CollectionHandler struct {
	kind    collection.Kind
	catalog catalog.Client
}

// NewCollectionHandler creates a handler for one collection. The catalog
// resolves toggles that only carry a slug.
func NewCollectionHandler(kind collection.Kind, client catalog.Client) *CollectionHandler {
	return &CollectionHandler{kind: kind, catalog: client}
}

// ToggleRequest is the game snapshot to toggle. When only the slug is
// sent the snapshot is read from the catalog.
type ToggleRequest struct {
	ID              int                `json:"id" binding:"omitempty,min=1"`
	Name            string             `json:"name" binding:"max=255"`
	Slug            string             `json:"slug" binding:"max=255"`
	BackgroundImage string             `json:"background_image"`
	Rating          float64            `json:"rating"`
	Genres          []catalog.GenreRef `json:"genres"`
}

func (r *ToggleRequest) complete() bool {
	return r.ID > 0 && r.Name != ""
}

func (r *ToggleRequest) item() catalog.Item {
	return catalog.Item{
		ID:              r.ID,
		Name:            r.Name,
		Slug:            r.Slug,
		BackgroundImage: r.BackgroundImage,
		Rating:          r.Rating,
		Genres:          r.Genres,
	}
}

// List handles GET /favorites and GET /cart
func (h *CollectionHandler) List(c *gin.Context) {
	ctrl, ok := middleware.GetCollectionsFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	switch h.kind {
	case collection.Favorites:
		entries, err := ctrl.Favorites(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to retrieve favorites")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Favorites retrieved successfully",
			"data":    entries,
		})
	case collection.Cart:
		entries, err := ctrl.CartEntries(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to retrieve cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart retrieved successfully",
			"data": gin.H{
				"items": entries,
				"total": ctrl.ComputeTotal(entries),
			},
		})
	}
}

// Toggle handles POST /favorites/toggle and POST /cart/toggle
func (h *CollectionHandler) Toggle(c *gin.Context) {
	ctrl, ok := middleware.GetCollectionsFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item := req.item()
	if !req.complete() {
		if req.Slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Either a game snapshot (id, name) or a slug is required",
			})
			return
		}
		detail, err := h.catalog.GetGame(c.Request.Context(), req.Slug)
		if err != nil {
			respondError(c, err, "Failed to resolve game")
			return
		}
		item = detail.Item
	}

	result, err := ctrl.Toggle(c.Request.Context(), h.kind, item)
	if err != nil {
		respondError(c, err, "Failed to update "+string(h.kind))
		return
	}

	message := "Removed from " + string(h.kind)
	if result.Member {
		message = "Added to " + string(h.kind)
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}

// Membership handles GET /favorites/:id and GET /cart/:id
func (h *CollectionHandler) Membership(c *gin.Context) {
	ctrl, ok := middleware.GetCollectionsFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": collection.Result{
			Kind:   h.kind,
			ItemID: itemID,
			Member: ctrl.IsMember(h.kind, itemID),
		},
	})
}

// Remove handles DELETE /favorites/:id and DELETE /cart/:id
func (h *CollectionHandler) Remove(c *gin.Context) {
	ctrl, ok := middleware.GetCollectionsFromContext(c)
	if !ok {
		middleware.AbortSignInRequired(c, "Sign in required")
		return
	}

	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	if err := ctrl.Remove(c.Request.Context(), h.kind, itemID); err != nil {
		respondError(c, err, "Failed to update "+string(h.kind))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from " + string(h.kind),
	})
}

func parseItemID(c *gin.Context) (int, bool) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid game ID",
		})
		return 0, false
	}
	return itemID, true
}
