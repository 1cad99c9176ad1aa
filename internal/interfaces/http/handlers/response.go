// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// respondError answers with the shopper-facing message for err and a status
// derived from its kind. Server-side failures are logged, form errors are not.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := logFailure(c, logger, err)
	c.JSON(status, gin.H{
		"error": apiclient.UserMessage(err),
	})
}

// logFailure returns the status for err, logging it when it is not the shopper's fault
func logFailure(c *gin.Context, logger *logrus.Logger, err error) int {
	status := apiclient.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		entry := logger.WithField("path", c.FullPath()).WithError(err)
		if requestID, ok := c.Get(middleware.RequestIDKey); ok {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error("Store request failed")
	}
	return status
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + label,
		})
		return 0, false
	}
	return id, true
}

// bindError answers a malformed request body
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
