// internal/interfaces/http/middleware/session.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/config"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/session"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

const (
	sessionKey       = "session"
	sessionIDKey     = "session_id"
	identityKey      = "identity"
	identityErrorKey = "identity_error"
)

// SessionStore loads and refreshes shopper sessions
type SessionStore interface {
	GetOrCreate(ctx context.Context, id string) (*session.Session, bool, error)
	Touch(ctx context.Context, id string) error
}

// IdentityResolver turns a session into the identity store calls are made with
type IdentityResolver interface {
	Resolve(ctx context.Context, sess *session.Session) (identity.Identity, error)
}

// Session loads the shopper's session from its cookie, creating one on first
// visit, and resolves the identity for the rest of the chain.
func Session(store SessionStore, resolver IdentityResolver, cfg *config.Config, logger *logrus.Logger) gin.HandlerFunc {
	maxAge := int(cfg.Session.TTL.Seconds())

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		cookieID, _ := c.Cookie(cfg.Session.CookieName)

		sess, created, err := store.GetOrCreate(ctx, cookieID)
		if err != nil {
			logger.WithError(err).Error("Failed to load session")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Session store unavailable. Please try again.",
			})
			c.Abort()
			return
		}

		if !created {
			if err := store.Touch(ctx, sess.ID); err != nil {
				logger.WithError(err).WithField("session_id", sess.ID).Warn("Failed to extend session")
			}
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.Session.CookieName, sess.ID, maxAge, "/", cfg.Session.CookieDomain, cfg.Session.CookieSecure, true)

		c.Set(sessionKey, sess)
		c.Set(sessionIDKey, sess.ID)

		id, err := resolver.Resolve(ctx, sess)
		if err != nil {
			c.Set(identityErrorKey, err)
		} else {
			c.Set(identityKey, id)
		}

		c.Next()
	}
}

// RequireUser rejects guests and sessions whose token is no longer usable
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := GetIdentity(c)
		if err == nil && !id.IsUser() {
			err = &apiclient.AuthError{Message: "guest session"}
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": apiclient.UserMessage(err),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole ensures the logged-in user has one of roles. It runs after RequireUser.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := GetIdentity(c)
		if err != nil || !id.IsUser() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": apiclient.UserMessage(&apiclient.AuthError{}),
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if id.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not have permission to access this page.",
		})
		c.Abort()
	}
}

// GetSession returns the session loaded by Session
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}

// GetIdentity returns the identity resolved by Session, or the resolution error
func GetIdentity(c *gin.Context) (identity.Identity, error) {
	if value, exists := c.Get(identityErrorKey); exists {
		if err, ok := value.(error); ok {
			return identity.Identity{}, err
		}
	}
	value, exists := c.Get(identityKey)
	if !exists {
		return identity.Identity{}, &apiclient.AuthError{Message: "no session"}
	}
	id, ok := value.(identity.Identity)
	if !ok {
		return identity.Identity{}, &apiclient.AuthError{Message: "no session"}
	}
	return id, nil
}
