// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/cart"
	"github.com/your-org/music-storefront/internal/domain/pricing"
	"github.com/your-org/music-storefront/internal/domain/product"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// CartHandler handles cart endpoints. Every answer carries the reconciled cart.
type CartHandler struct {
	cartService    *cart.Service
	productService *product.Service
	logger         *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, productService *product.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		logger:         logger,
	}
}

// AddToCartRequest is the body of POST /cart/items. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  *int  `json:"quantity"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:id
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	current, err := h.cartService.FetchCart(c.Request.Context(), id)
	if err != nil {
		h.respondWithCart(c, current, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    pricing.Reconcile(current),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	var knownStock *int
	if quantity >= 1 {
		stock, err := h.productService.StockOf(c.Request.Context(), req.ProductID)
		if err != nil {
			h.logger.WithField("product_id", req.ProductID).WithError(err).Debug("Stock lookup failed, leaving clamp to the store")
		} else {
			knownStock = stock
		}
	}

	current, err := h.cartService.AddLine(c.Request.Context(), id, req.ProductID, quantity, knownStock)
	if err != nil {
		h.respondWithCart(c, current, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    pricing.Reconcile(current),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	lineID, ok := parseID(c, "id", "cart item ID")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	current, err := h.cartService.SetLineQuantity(c.Request.Context(), id, lineID, *req.Quantity)
	if err != nil {
		h.respondWithCart(c, current, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    pricing.Reconcile(current),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	lineID, ok := parseID(c, "id", "cart item ID")
	if !ok {
		return
	}

	current, err := h.cartService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.respondWithCart(c, current, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    pricing.Reconcile(current),
	})
}

// respondWithCart reports err together with the last-known cart
func (h *CartHandler) respondWithCart(c *gin.Context, current cart.Cart, err error) {
	status := logFailure(c, h.logger, err)
	c.JSON(status, gin.H{
		"error": apiclient.UserMessage(err),
		"data":  pricing.Reconcile(current),
	})
}
