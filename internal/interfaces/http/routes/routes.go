// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/checkout"
	"github.com/your-org/fireplay-backend/internal/domain/collection"
	"github.com/your-org/fireplay-backend/internal/domain/contact"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/handlers"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
)

// Dependencies are the services the routes are served by
type Dependencies struct {
	Identity identity.Provider
	Sessions *middleware.Sessions
	Catalog  catalog.Client
	Users    *user.Service
	Orders   *order.Service
	Checkout *checkout.Service
	Contact  *contact.Service
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Sessions)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Identity, deps.Sessions))
		{
			protected.POST("/logout", authHandler.Logout)
		}
	}
}

// SetupCatalogRoutes sets up game catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	games := rg.Group("/catalog")
	games.Use(middleware.OptionalAuthMiddleware(deps.Identity, deps.Sessions)) // membership flags when signed in
	{
		games.GET("/games", catalogHandler.ListGames)
		games.GET("/games/:slug", catalogHandler.GetGame)
		games.GET("/games/:slug/reviews", catalogHandler.ListReviews)
		games.GET("/genres", catalogHandler.ListGenres)
	}
}

// SetupCollectionRoutes sets up the favorites and cart routes
func SetupCollectionRoutes(rg *gin.RouterGroup, deps Dependencies) {
	for _, kind := range []collection.Kind{collection.Favorites, collection.Cart} {
		h := handlers.NewCollectionHandler(kind, deps.Catalog)

		group := rg.Group("/" + string(kind))
		group.Use(middleware.AuthMiddleware(deps.Identity, deps.Sessions))
		{
			group.GET("", h.List)
			group.POST("/toggle", h.Toggle)
			group.GET("/:id", h.Membership)
			group.DELETE("/:id", h.Remove)
		}
	}
}

// SetupOrderRoutes sets up checkout and order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)
	orderHandler := handlers.NewOrderHandler(deps.Orders)
	auth := middleware.AuthMiddleware(deps.Identity, deps.Sessions)

	rg.POST("/checkout", auth, checkoutHandler.Checkout)

	orders := rg.Group("/orders")
	orders.Use(auth) // All order routes require authentication
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/receipt", orderHandler.DownloadReceipt)
	}
}

// SetupProfileRoutes sets up the dashboard routes
func SetupProfileRoutes(rg *gin.RouterGroup, deps Dependencies) {
	profileHandler := handlers.NewUserProfileHandler(deps.Users, deps.Sessions)

	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware(deps.Identity, deps.Sessions))
	{
		profile.GET("", profileHandler.GetProfile)
		profile.PUT("", profileHandler.UpdateProfile)
	}
}

// SetupContactRoutes sets up the contact form route
func SetupContactRoutes(rg *gin.RouterGroup, deps Dependencies) {
	contactHandler := handlers.NewContactHandler(deps.Contact)
	rg.POST("/contact", contactHandler.Submit)
}

// SetupRoutes sets up all routes
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupAuthRoutes(rg, deps)
	SetupCatalogRoutes(rg, deps)
	SetupCollectionRoutes(rg, deps)
	SetupOrderRoutes(rg, deps)
	SetupProfileRoutes(rg, deps)
	SetupContactRoutes(rg, deps)
}
