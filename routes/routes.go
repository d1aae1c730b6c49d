package routes

import (
	"time"

	"storefront-backend/cart"
	"storefront-backend/commerce"
	"storefront-backend/handlers"
	"storefront-backend/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, sessions *cart.Manager, catalog *commerce.CatalogClient, store *commerce.StoreClient) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{Store: store}
	catalogHandler := &handlers.CatalogHandler{Catalog: catalog, Store: store}
	cartHandler := &handlers.CartHandler{Sessions: sessions}
	checkoutHandler := &handlers.CheckoutHandler{Sessions: sessions, Store: store}

	api := r.Group("/api")

	// Auth routes, rate limited to slow down credential stuffing
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	auth := api.Group("/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Catalog routes, no session needed
	{
		api.GET("/shop", catalogHandler.GetShop)
		api.GET("/products", catalogHandler.GetProducts)
		api.GET("/products/:slug", catalogHandler.GetProduct)
		api.GET("/categories", catalogHandler.GetCategories)
		api.GET("/brands", catalogHandler.GetBrands)
		api.GET("/store/settings", catalogHandler.GetStoreSettings)
	}

	// Cart and checkout routes carry a browsing session and an optional
	// identity. Guests get full cart access; a Bearer token switches the
	// same session to the user's saved cart.
	shop := api.Group("")
	shop.Use(middleware.Session())
	shop.Use(middleware.Identity())
	{
		shop.GET("/cart", cartHandler.GetCart)
		shop.POST("/cart", cartHandler.AddItem)
		shop.PUT("/cart/items/:productId", cartHandler.UpdateItem)
		shop.DELETE("/cart/items/:productId", cartHandler.RemoveItem)
		shop.DELETE("/cart", cartHandler.ClearCart)

		shop.POST("/checkout", checkoutHandler.Checkout)
		shop.GET("/orders/:id", checkoutHandler.GetOrder)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
