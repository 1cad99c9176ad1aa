// internal/domain/session/entity.go
package session

import "time"

// Session is the shopper's browser session held server-side. It replaces
// the sessionStorage keys access_token, refresh_token, username, user_role
// and guest_token, and lives from first request until logout or expiry.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Username     string    `json:"username,omitempty"`
	UserRole     string    `json:"user_role,omitempty"`
	GuestToken   string    `json:"guest_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAuthenticated reports whether a bearer token is present
func (s *Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// ClearCredentials drops the user half of the session
func (s *Session) ClearCredentials() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.Username = ""
	s.UserRole = ""
}
