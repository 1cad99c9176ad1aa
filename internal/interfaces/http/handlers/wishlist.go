// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/pricing"
	"github.com/your-org/music-storefront/internal/domain/wishlist"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	logger          *logrus.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *wishlist.Service, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.wishlistService.GetWishlist(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    list,
	})
}

// AddToWishlist handles POST /wishlist/items
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req wishlist.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.wishlistService.AddToWishlist(c.Request.Context(), id, req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to wishlist successfully",
		"data":    list,
	})
}

// RemoveFromWishlist handles DELETE /wishlist/items/:product_id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	productID, ok := parseID(c, "product_id", "product ID")
	if !ok {
		return
	}

	list, err := h.wishlistService.RemoveFromWishlist(c.Request.Context(), id, productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from wishlist successfully",
		"data":    list,
	})
}

// MoveToCart handles POST /wishlist/items/:product_id/cart and answers with
// the reconciled cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	productID, ok := parseID(c, "product_id", "product ID")
	if !ok {
		return
	}

	current, err := h.wishlistService.AddToCart(c.Request.Context(), id, productID)
	if err != nil {
		status := logFailure(c, h.logger, err)
		c.JSON(status, gin.H{
			"error": apiclient.UserMessage(err),
			"data":  pricing.Reconcile(current),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart from wishlist",
		"data":    pricing.Reconcile(current),
	})
}
