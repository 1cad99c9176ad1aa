package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("store-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	token := signedToken(t, &Claims{
		Username:  "alice",
		Role:      "sales_manager",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, ok := InspectToken(token)
	require.True(t, ok)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "sales_manager", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestInspectToken_Opaque(t *testing.T) {
	_, ok := InspectToken("hardcoded_access_token")
	assert.False(t, ok)

	_, ok = InspectToken("a.b.c")
	assert.False(t, ok)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	expired := signedToken(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}})
	fresh := signedToken(t, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}})
	noExpiry := signedToken(t, &Claims{Username: "bob"})

	assert.True(t, IsExpired(expired, now))
	assert.False(t, IsExpired(fresh, now))
	assert.False(t, IsExpired(noExpiry, now))
	assert.False(t, IsExpired("opaque", now))
}

func TestBearerHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", BearerHeader("abc"))
}

func TestNewGuestToken(t *testing.T) {
	a, b := NewGuestToken(), NewGuestToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
