// internal/domain/identity/entity.go
package identity

import (
	"net/http"

	"github.com/your-org/music-storefront/internal/pkg/auth"
)

// Kind tells an authenticated shopper from an anonymous one
type Kind string

const (
	KindUser  Kind = "user"
	KindGuest Kind = "guest"
)

// Identity is the credential every store call is made with
type Identity struct {
	Kind      Kind   `json:"kind"`
	Token     string `json:"-"`
	SessionID string `json:"-"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
}

// IsUser reports whether the identity carries a bearer token
func (i Identity) IsUser() bool {
	return i.Kind == KindUser
}

// AuthHeaders returns exactly one of Authorization or Guest-Token, never both
func AuthHeaders(i Identity) http.Header {
	header := http.Header{}
	if i.Token == "" {
		return header
	}
	switch i.Kind {
	case KindUser:
		header.Set("Authorization", auth.BearerHeader(i.Token))
	case KindGuest:
		header.Set("Guest-Token", i.Token)
	}
	return header
}

// Roles the store assigns to accounts
const (
	RoleCustomer       = "CUSTOMER"
	RoleProductManager = "PRODUCT_MANAGER"
	RoleSalesManager   = "SALES_MANAGER"
)

// Credentials is what the store hands back from /login/
type Credentials struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
}
