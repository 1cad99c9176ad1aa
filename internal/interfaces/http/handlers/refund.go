// internal/interfaces/http/handlers/refund.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// RefundHandler handles the sales manager's refund queue
type RefundHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(orderService *order.Service, logger *logrus.Logger) *RefundHandler {
	return &RefundHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetRefunds handles GET /refunds?status=
func (h *RefundHandler) GetRefunds(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := order.RefundStatus(strings.ToUpper(c.Query("status")))
	refunds, err := h.orderService.ListRefunds(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Refunds retrieved successfully",
		"data":    refunds,
	})
}

// ApproveRefund handles POST /refunds/:id/approve
func (h *RefundHandler) ApproveRefund(c *gin.Context) {
	h.decide(c, h.orderService.ApproveRefund)
}

// DenyRefund handles POST /refunds/:id/deny
func (h *RefundHandler) DenyRefund(c *gin.Context) {
	h.decide(c, h.orderService.DenyRefund)
}

type decideFunc func(ctx context.Context, id identity.Identity, refundID int64, status order.RefundStatus) (*order.RefundDecision, []order.Refund, error)

// decide runs an approve or deny and answers with the decision and the
// re-fetched queue, filtered the way the caller is viewing it
func (h *RefundHandler) decide(c *gin.Context, fn decideFunc) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	refundID, ok := parseID(c, "id", "refund ID")
	if !ok {
		return
	}

	status := order.RefundStatus(strings.ToUpper(c.Query("status")))
	decision, refunds, err := fn(c.Request.Context(), id, refundID, status)
	if err != nil && decision == nil {
		respondError(c, h.logger, err)
		return
	}
	if err != nil {
		// The decision stands; only the refreshed queue is missing
		logFailure(c, h.logger, err)
		c.JSON(http.StatusOK, gin.H{
			"message":  decision.Success,
			"decision": decision,
			"error":    apiclient.UserMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  decision.Success,
		"decision": decision,
		"data":     refunds,
	})
}
