// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/config"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// SessionHandler handles login, logout and the current identity
type SessionHandler struct {
	identityService *identity.Service
	config          *config.Config
	logger          *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(identityService *identity.Service, cfg *config.Config, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		identityService: identityService,
		config:          cfg,
		logger:          logger,
	}
}

// TokensRequest installs tokens the shopper already obtained from the store.
// The role is read from the access token's claims only.
type TokensRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    id,
	})
}

// Login handles POST /session/login
func (h *SessionHandler) Login(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondError(c, h.logger, &apiclient.AuthError{Message: "no session"})
		return
	}

	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	id, err := h.identityService.Login(c.Request.Context(), sess, &req)
	if err != nil {
		if apiclient.IsAuth(err) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid credentials",
			})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    id,
	})
}

// Tokens handles POST /session/tokens
func (h *SessionHandler) Tokens(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		respondError(c, h.logger, &apiclient.AuthError{Message: "no session"})
		return
	}

	var req TokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	creds := identity.Credentials{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	id, err := h.identityService.Authenticate(c.Request.Context(), sess, creds, req.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    id,
	})
}

// Logout handles POST /session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if ok {
		if err := h.identityService.Logout(c.Request.Context(), sess); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Session.CookieName, "", -1, "/", h.config.Session.CookieDomain, h.config.Session.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}
