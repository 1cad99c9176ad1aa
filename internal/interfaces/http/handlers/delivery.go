// internal/interfaces/http/handlers/delivery.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
)

// DeliveryHandler handles the delivery manager's list
type DeliveryHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(orderService *order.Service, logger *logrus.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetDeliveries handles GET /deliveries
func (h *DeliveryHandler) GetDeliveries(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	deliveries, err := h.orderService.ListDeliveries(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deliveries retrieved successfully",
		"data":    deliveries,
	})
}

// UpdateDeliveryStatus handles PUT /deliveries/:id/status and answers with the
// updated delivery and the refreshed list
func (h *DeliveryHandler) UpdateDeliveryStatus(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	deliveryID, ok := parseID(c, "id", "delivery ID")
	if !ok {
		return
	}

	var req order.DeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.orderService.UpdateDeliveryStatus(c.Request.Context(), id, deliveryID, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := gin.H{
		"message": "Delivery status updated successfully",
		"data":    updated,
	}

	// The store's list can lag the update, so the new status is laid over it
	deliveries, err := h.orderService.ListDeliveries(c.Request.Context(), id)
	if err != nil {
		h.logger.WithField("delivery_id", deliveryID).WithError(err).Warn("Failed to refresh deliveries after update")
	} else {
		response["deliveries"] = order.PatchDeliveryStatus(deliveries, deliveryID, updated.Status)
	}

	c.JSON(http.StatusOK, response)
}
