// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
)

// OrderHandler handles the shopper's order history, cancellation and refund requests
type OrderHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetLatestOrder handles GET /orders/latest, the confirmation shown after checkout
func (h *OrderHandler) GetLatestOrder(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	latest, err := h.orderService.LatestOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    latest,
	})
}

// CancelOrder handles POST /orders/:id/cancel and answers with the re-fetched orders
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	orders, err := h.orderService.CancelOrder(c.Request.Context(), id, orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    orders,
	})
}

// RequestRefund handles POST /orders/items/:id/refund
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	itemID, ok := parseID(c, "id", "order item ID")
	if !ok {
		return
	}

	var req order.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	receipt, err := h.orderService.RequestRefund(c.Request.Context(), id, itemID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": receipt.Success,
		"data":    receipt,
	})
}
