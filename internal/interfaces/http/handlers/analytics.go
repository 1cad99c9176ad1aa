// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
)

// AnalyticsHandler handles the sales manager's revenue screen
type AnalyticsHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(orderService *order.Service, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetRevenueProfit handles GET /analytics/revenue-profit?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *AnalyticsHandler) GetRevenueProfit(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.orderService.RevenueProfit(c.Request.Context(), id, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue analysis retrieved successfully",
		"data":    report,
	})
}
