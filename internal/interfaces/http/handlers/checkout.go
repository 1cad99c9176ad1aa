// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/cart"
	"github.com/your-org/music-storefront/internal/domain/checkout"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/pricing"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	cartService     *cart.Service
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cartService *cart.Service, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		logger:          logger,
	}
}

// PlaceOrder handles POST /checkout. Each request is one submission; a
// failed one is not retried here. Failures carry the cart that was kept.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var form checkout.CardForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}

	submitter := h.checkoutService.NewSubmitter(id)
	placed, err := submitter.PlaceOrder(c.Request.Context(), form)
	if err != nil {
		var valErr *apiclient.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": valErr.Message,
				"field": valErr.Field,
				"state": submitter.State(),
				"cart":  h.keptCart(c, id),
			})
			return
		}

		status := logFailure(c, h.logger, err)
		c.JSON(status, gin.H{
			"error": apiclient.UserMessage(err),
			"state": submitter.State(),
			"cart":  h.keptCart(c, id),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"state":   submitter.State(),
		"data":    placed,
	})
}

// GetAttempts handles GET /checkout/attempts
func (h *CheckoutHandler) GetAttempts(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	journal := h.checkoutService.Journal()
	if journal == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Checkout attempts retrieved successfully",
			"data":    []checkout.Attempt{},
		})
		return
	}

	attempts, err := journal.Recent(c.Request.Context(), checkout.OwnerOf(id), 10)
	if err != nil {
		h.logger.WithField("session_id", id.SessionID).WithError(err).Error("Failed to load checkout attempts")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout attempts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout attempts retrieved successfully",
		"data":    attempts,
	})
}

// keptCart is the last-known cart, left in place by a failed checkout
func (h *CheckoutHandler) keptCart(c *gin.Context, id identity.Identity) *pricing.Summary {
	current, err := h.cartService.Mirror(c.Request.Context(), id)
	if err != nil {
		h.logger.WithField("session_id", id.SessionID).WithError(err).Debug("No cart mirror to show")
		return nil
	}
	summary := pricing.Reconcile(current)
	return &summary
}
