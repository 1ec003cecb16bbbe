// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/upload"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Deps carries the wired domain services the routes depend on
type Deps struct {
	Config    *config.Config
	Carts     *cart.Manager
	Checkouts *checkout.Manager
	Uploads   *upload.Service
	Signal    auth.Signal
}

// SetupRoutes configures all API routes
func SetupRoutes(rg *gin.RouterGroup, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Config)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkouts, deps.Config)
	uploadHandler := handlers.NewUploadHandler(deps.Uploads, deps.Checkouts, deps.Config)
	authHandler := handlers.NewAuthHandler(deps.Signal)

	// All routes work for guests; the checkout orchestrator consults the
	// authentication signal itself at submission time
	rg.Use(middleware.OptionalAuth(deps.Config))

	cartRoutes := rg.Group("/cart")
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateQuantity)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.POST("/toggle", cartHandler.ToggleCart)
		cartRoutes.POST("/close", cartHandler.CloseCart)
	}

	checkoutRoutes := rg.Group("/checkout")
	{
		checkoutRoutes.POST("", checkoutHandler.Begin)
		checkoutRoutes.GET("", checkoutHandler.Get)
		checkoutRoutes.POST("/shipping", checkoutHandler.SubmitShipping)
		checkoutRoutes.POST("/payment", checkoutHandler.SubmitPayment)
		checkoutRoutes.POST("/confirm", checkoutHandler.Confirm)
		checkoutRoutes.POST("/close", checkoutHandler.Close)
		checkoutRoutes.DELETE("", checkoutHandler.Cancel)
		checkoutRoutes.POST("/proof", uploadHandler.UploadProof)
		checkoutRoutes.DELETE("/proof", uploadHandler.RemoveProof)
	}

	authRoutes := rg.Group("/auth")
	{
		authRoutes.GET("/session", authHandler.GetSession)
	}
}
