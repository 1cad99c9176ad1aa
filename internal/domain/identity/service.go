// internal/domain/identity/service.go
package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/session"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/auth"
)

// SessionStore is the part of the session store identity needs
type SessionStore interface {
	Save(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, id string) error
}

// CartMirror drops the locally kept copy of a session's cart
type CartMirror interface {
	Clear(ctx context.Context, sessionID string) error
}

// LoginRequest carries the shopper's credentials through to the store
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Service resolves identities and handles the login/logout transitions
type Service struct {
	sessions SessionStore
	carts    CartMirror
	client   *apiclient.Client
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService creates a new identity service
func NewService(sessions SessionStore, carts CartMirror, client *apiclient.Client, logger *logrus.Logger) *Service {
	return &Service{
		sessions: sessions,
		carts:    carts,
		client:   client,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the user identity when the session holds a bearer token,
// otherwise the guest identity, generating and persisting the guest token on
// first use. An access token already past its exp claim is an AuthError.
func (s *Service) Resolve(ctx context.Context, sess *session.Session) (Identity, error) {
	if sess.IsAuthenticated() {
		if auth.IsExpired(sess.AccessToken, s.now()) {
			return Identity{}, &apiclient.AuthError{Message: "session expired"}
		}
		return Identity{
			Kind:      KindUser,
			Token:     sess.AccessToken,
			SessionID: sess.ID,
			Username:  sess.Username,
			Role:      sess.UserRole,
		}, nil
	}

	if sess.GuestToken == "" {
		sess.GuestToken = auth.NewGuestToken()
		if err := s.sessions.Save(ctx, sess); err != nil {
			return Identity{}, fmt.Errorf("failed to persist guest token: %w", err)
		}
		s.logger.WithField("session_id", sess.ID).Debug("Issued guest token")
	}

	return Identity{
		Kind:      KindGuest,
		Token:     sess.GuestToken,
		SessionID: sess.ID,
	}, nil
}

// Login authenticates against the store, stores the tokens in the session
// and merges any guest cart into the user's cart. The merge is attempted once
// and its failure never fails the login.
func (s *Service) Login(ctx context.Context, sess *session.Session, req *LoginRequest) (Identity, error) {
	var creds Credentials
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/login/",
		Body:   req,
	}, &creds)
	if err != nil {
		return Identity{}, err
	}
	if creds.AccessToken == "" {
		return Identity{}, &apiclient.AuthError{Message: "store returned no access token"}
	}

	return s.Authenticate(ctx, sess, creds, req.Username)
}

// Authenticate installs already-issued credentials into the session
func (s *Service) Authenticate(ctx context.Context, sess *session.Session, creds Credentials, username string) (Identity, error) {
	guestToken := sess.GuestToken

	sess.AccessToken = creds.AccessToken
	sess.RefreshToken = creds.RefreshToken
	sess.Username = username
	if creds.Username != "" {
		sess.Username = creds.Username
	}
	sess.UserRole = creds.Role
	if claims, ok := auth.InspectToken(creds.AccessToken); ok {
		if claims.Username != "" {
			sess.Username = claims.Username
		}
		if claims.Role != "" {
			sess.UserRole = claims.Role
		}
	}
	sess.GuestToken = ""

	if err := s.sessions.Save(ctx, sess); err != nil {
		return Identity{}, fmt.Errorf("failed to save session: %w", err)
	}

	if guestToken != "" {
		if err := s.MergeGuestCart(ctx, guestToken, creds.AccessToken); err != nil {
			s.logger.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"username":   sess.Username,
			}).WithError(err).Warn("Guest cart merge failed, continuing with user cart")
		}
	}

	return Identity{
		Kind:      KindUser,
		Token:     sess.AccessToken,
		SessionID: sess.ID,
		Username:  sess.Username,
		Role:      sess.UserRole,
	}, nil
}

// MergeGuestCart asks the store to fold the guest cart into the user's cart.
// This is the only call that carries both credential headers.
func (s *Service) MergeGuestCart(ctx context.Context, guestToken, bearerToken string) error {
	header := AuthHeaders(Identity{Kind: KindUser, Token: bearerToken})
	header.Set("Guest-Token", guestToken)

	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/cart/merge_cart/",
		Header: header,
	}, nil)
	if err != nil {
		return fmt.Errorf("merge guest cart: %w", err)
	}
	return nil
}

// Logout ends the session and drops its cart mirror; the next request starts
// a new one with a new guest token
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	sess.ClearCredentials()
	sess.GuestToken = ""
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if s.carts != nil {
		if err := s.carts.Clear(ctx, sess.ID); err != nil {
			s.logger.WithField("session_id", sess.ID).WithError(err).Warn("Failed to clear cart mirror on logout")
		}
	}
	return nil
}
