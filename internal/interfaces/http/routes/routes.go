// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/config"
	"github.com/your-org/music-storefront/internal/domain/cart"
	"github.com/your-org/music-storefront/internal/domain/checkout"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/domain/product"
	"github.com/your-org/music-storefront/internal/domain/wishlist"
	"github.com/your-org/music-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Sessions middleware.SessionStore
	Identity *identity.Service
	Cart     *cart.Service
	Checkout *checkout.Service
	Orders   *order.Service
	Products *product.Service
	Wishlist *wishlist.Service
	Invoices handlers.InvoiceRenderer
}

// SetupRoutes registers every storefront route under rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	rg.Use(middleware.Session(deps.Sessions, deps.Identity, deps.Config, deps.Logger))

	SetupSessionRoutes(rg, deps)
	SetupProductRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupWishlistRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupOrderRoutes(rg, deps)
	SetupManagerRoutes(rg, deps)
}

// SetupSessionRoutes sets up login, logout and identity routes
func SetupSessionRoutes(rg *gin.RouterGroup, deps Dependencies) {
	sessionHandler := handlers.NewSessionHandler(deps.Identity, deps.Config, deps.Logger)

	session := rg.Group("/session")
	{
		session.GET("", sessionHandler.GetSession)
		session.POST("/login", sessionHandler.Login)
		session.POST("/tokens", sessionHandler.Tokens)
		session.POST("/logout", sessionHandler.Logout)
	}
}

// SetupProductRoutes sets up catalog routes; browsing is open to guests
func SetupProductRoutes(rg *gin.RouterGroup, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Products, deps.Logger)

	rg.GET("/categories", productHandler.GetCategories)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/reviews", productHandler.GetProductReviews)
		products.POST("/:id/reviews", middleware.RequireUser(), productHandler.CreateReview)
	}
}

// SetupCartRoutes sets up cart routes for guests and users alike
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Cart, deps.Products, deps.Logger)

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupWishlistRoutes sets up wishlist routes; the store keeps wishlists for users only
func SetupWishlistRoutes(rg *gin.RouterGroup, deps Dependencies) {
	wishlistHandler := handlers.NewWishlistHandler(deps.Wishlist, deps.Logger)

	wishlistGroup := rg.Group("/wishlist")
	wishlistGroup.Use(middleware.RequireUser())
	{
		wishlistGroup.GET("", wishlistHandler.GetWishlist)
		wishlistGroup.POST("/items", wishlistHandler.AddToWishlist)
		wishlistGroup.DELETE("/items/:product_id", wishlistHandler.RemoveFromWishlist)
		wishlistGroup.POST("/items/:product_id/cart", wishlistHandler.MoveToCart)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Cart, deps.Logger)

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.RequireUser())
	{
		checkoutGroup.POST("", checkoutHandler.PlaceOrder)
		checkoutGroup.GET("/attempts", checkoutHandler.GetAttempts)
	}
}

// SetupOrderRoutes sets up the shopper's order routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Logger)

	orders := rg.Group("/orders")
	orders.Use(middleware.RequireUser())
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/latest", orderHandler.GetLatestOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/items/:id/refund", orderHandler.RequestRefund)
	}
}

// SetupManagerRoutes sets up the refund, delivery, invoice and revenue screens
func SetupManagerRoutes(rg *gin.RouterGroup, deps Dependencies) {
	refundHandler := handlers.NewRefundHandler(deps.Orders, deps.Logger)
	deliveryHandler := handlers.NewDeliveryHandler(deps.Orders, deps.Logger)
	invoiceHandler := handlers.NewInvoiceHandler(deps.Orders, deps.Invoices, deps.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Orders, deps.Logger)

	refunds := rg.Group("/refunds")
	refunds.Use(middleware.RequireUser())
	refunds.Use(middleware.RequireRole(identity.RoleSalesManager))
	{
		refunds.GET("", refundHandler.GetRefunds)
		refunds.POST("/:id/approve", refundHandler.ApproveRefund)
		refunds.POST("/:id/deny", refundHandler.DenyRefund)
	}

	deliveries := rg.Group("/deliveries")
	deliveries.Use(middleware.RequireUser())
	{
		deliveries.GET("", deliveryHandler.GetDeliveries)
		deliveries.PUT("/:id/status", deliveryHandler.UpdateDeliveryStatus)
	}

	invoices := rg.Group("/invoices")
	invoices.Use(middleware.RequireUser())
	{
		invoices.GET("", invoiceHandler.GetInvoices)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.GET("/:id/pdf", invoiceHandler.DownloadInvoice)
		invoices.GET("/:id/print", invoiceHandler.PrintInvoice)
	}

	analytics := rg.Group("/analytics")
	analytics.Use(middleware.RequireUser())
	analytics.Use(middleware.RequireRole(identity.RoleSalesManager))
	{
		analytics.GET("/revenue-profit", analyticsHandler.GetRevenueProfit)
	}
}
