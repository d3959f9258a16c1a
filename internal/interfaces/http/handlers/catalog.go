// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/collection"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// CatalogHandler serves game listings and details
type CatalogHandler struct {
	catalog catalog.Client
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(client catalog.Client) *CatalogHandler {
	return &CatalogHandler{catalog: client}
}

// GameView is a game with the caller's membership flags
type GameView struct {
	catalog.Item
	InFavorites bool `json:"in_favorites"`
	InCart      bool `json:"in_cart"`
}

// GameDetailView is a game detail with the caller's membership flags
type GameDetailView struct {
	*catalog.Detail
	InFavorites bool `json:"in_favorites"`
	InCart      bool `json:"in_cart"`
}

// ListGames handles GET /catalog/games
func (h *CatalogHandler) ListGames(c *gin.Context) {
	var params catalog.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.catalog.ListGames(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to retrieve games")
		return
	}

	ctrl, signedIn := middleware.GetCollectionsFromContext(c)
	games := make([]GameView, len(page.Results))
	for i, item := range page.Results {
		games[i] = GameView{Item: item}
		if signedIn {
			games[i].InFavorites = ctrl.IsMember(collection.Favorites, item.ID)
			games[i].InCart = ctrl.IsMember(collection.Cart, item.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Games retrieved successfully",
		"data": gin.H{
			"games": games,
			"pagination": gin.H{
				"count":       page.Count,
				"page":        page.Page,
				"page_size":   page.PageSize,
				"total_pages": page.TotalPages,
			},
		},
	})
}

// GetGame handles GET /catalog/games/:slug
func (h *CatalogHandler) GetGame(c *gin.Context) {
	detail, err := h.catalog.GetGame(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to retrieve game")
		return
	}

	view := GameDetailView{Detail: detail}
	if ctrl, ok := middleware.GetCollectionsFromContext(c); ok {
		view.InFavorites = ctrl.IsMember(collection.Favorites, detail.ID)
		view.InCart = ctrl.IsMember(collection.Cart, detail.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Game retrieved successfully",
		"data":    view,
	})
}

// ListReviews handles GET /catalog/games/:slug/reviews
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	reviews, err := h.catalog.ListReviews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
	})
}

// ListGenres handles GET /catalog/genres
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve genres")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Genres retrieved successfully",
		"data":    genres,
	})
}
