package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/domain/session"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/auth"
	"github.com/your-org/music-storefront/internal/pkg/logger"
)

type memorySessions struct {
	saved   map[string]session.Session
	deleted []string
	saveErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{saved: map[string]session.Session{}}
}

func (m *memorySessions) Save(ctx context.Context, sess *session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[sess.ID] = *sess
	return nil
}

func (m *memorySessions) Delete(ctx context.Context, id string) error {
	delete(m.saved, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type memoryCarts struct {
	cleared []string
	err     error
}

func (m *memoryCarts) Clear(ctx context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return m.err
}

type mergeCall struct {
	authorization string
	guestToken    string
}

func newStore(t *testing.T, accessToken string, mergeStatus int) (*apiclient.Client, *[]mergeCall) {
	calls := &[]mergeCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			var body LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body.Password != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Invalid credentials"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"access": accessToken, "refresh": "refresh-token"})
		case "/cart/merge_cart/":
			*calls = append(*calls, mergeCall{
				authorization: r.Header.Get("Authorization"),
				guestToken:    r.Header.Get("Guest-Token"),
			})
			w.WriteHeader(mergeStatus)
			w.Write([]byte(`{"message":"Carts merged successfully"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return apiclient.NewClientWithHTTP(srv.URL, srv.Client(), logger.Discard()), calls
}

func TestAuthHeaders_ExactlyOne(t *testing.T) {
	user := AuthHeaders(Identity{Kind: KindUser, Token: "abc"})
	assert.Equal(t, "Bearer abc", user.Get("Authorization"))
	assert.Empty(t, user.Get("Guest-Token"))

	guest := AuthHeaders(Identity{Kind: KindGuest, Token: "g1"})
	assert.Equal(t, "g1", guest.Get("Guest-Token"))
	assert.Empty(t, guest.Get("Authorization"))

	assert.Empty(t, AuthHeaders(Identity{Kind: KindGuest}))
}

func TestResolve_GuestTokenGeneratedOnce(t *testing.T) {
	sessions := newMemorySessions()
	svc := NewService(sessions, nil, nil, logger.Discard())
	sess := &session.Session{ID: "s1"}

	first, err := svc.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, KindGuest, first.Kind)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, first.Token, sessions.saved["s1"].GuestToken)

	second, err := svc.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
}

func TestResolve_SeparateSessionsGetSeparateGuestTokens(t *testing.T) {
	svc := NewService(newMemorySessions(), nil, nil, logger.Discard())

	a, err := svc.Resolve(context.Background(), &session.Session{ID: "a"})
	require.NoError(t, err)
	b, err := svc.Resolve(context.Background(), &session.Session{ID: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
}

func TestResolve_User(t *testing.T) {
	svc := NewService(newMemorySessions(), nil, nil, logger.Discard())
	sess := &session.Session{ID: "s1", AccessToken: "opaque", Username: "alice", UserRole: "customer"}

	id, err := svc.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, id.IsUser())
	assert.Equal(t, "opaque", id.Token)
	assert.Equal(t, "alice", id.Username)
}

func TestResolve_ExpiredTokenIsAuthError(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	svc := NewService(newMemorySessions(), nil, nil, logger.Discard())
	_, err = svc.Resolve(context.Background(), &session.Session{ID: "s1", AccessToken: token})
	assert.True(t, apiclient.IsAuth(err))
}

func TestResolve_SaveFailure(t *testing.T) {
	sessions := newMemorySessions()
	sessions.saveErr = errors.New("redis down")
	svc := NewService(sessions, nil, nil, logger.Discard())

	_, err := svc.Resolve(context.Background(), &session.Session{ID: "s1"})
	assert.Error(t, err)
}

func TestLogin_MergesGuestCartOnce(t *testing.T) {
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		Username: "alice",
		Role:     "customer",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	client, calls := newStore(t, access, http.StatusOK)
	sessions := newMemorySessions()
	svc := NewService(sessions, nil, client, logger.Discard())
	sess := &session.Session{ID: "s1", GuestToken: "guest-1"}

	id, err := svc.Login(context.Background(), sess, &LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, id.IsUser())
	assert.Equal(t, "customer", id.Role)
	require.Len(t, *calls, 1)
	assert.Equal(t, "Bearer "+access, (*calls)[0].authorization)
	assert.Equal(t, "guest-1", (*calls)[0].guestToken)

	stored := sessions.saved["s1"]
	assert.Equal(t, access, stored.AccessToken)
	assert.Equal(t, "refresh-token", stored.RefreshToken)
	assert.Empty(t, stored.GuestToken)
}

func TestLogin_MergeFailureIsSwallowed(t *testing.T) {
	client, calls := newStore(t, "opaque-token", http.StatusNotFound)
	svc := NewService(newMemorySessions(), nil, client, logger.Discard())
	sess := &session.Session{ID: "s1", GuestToken: "guest-1"}

	id, err := svc.Login(context.Background(), sess, &LoginRequest{Username: "bob", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "bob", id.Username)
	assert.Len(t, *calls, 1)
}

func TestLogin_NoGuestTokenSkipsMerge(t *testing.T) {
	client, calls := newStore(t, "opaque-token", http.StatusOK)
	svc := NewService(newMemorySessions(), nil, client, logger.Discard())

	_, err := svc.Login(context.Background(), &session.Session{ID: "s1"}, &LoginRequest{Username: "bob", Password: "secret"})
	require.NoError(t, err)
	assert.Empty(t, *calls)
}

func TestLogin_BadCredentials(t *testing.T) {
	client, calls := newStore(t, "opaque-token", http.StatusOK)
	svc := NewService(newMemorySessions(), nil, client, logger.Discard())
	sess := &session.Session{ID: "s1", GuestToken: "guest-1"}

	_, err := svc.Login(context.Background(), sess, &LoginRequest{Username: "bob", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apiclient.UserMessage(err))
	assert.Empty(t, *calls)
	assert.Equal(t, "guest-1", sess.GuestToken)
	assert.False(t, sess.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	sessions := newMemorySessions()
	carts := &memoryCarts{}
	svc := NewService(sessions, carts, nil, logger.Discard())
	sess := &session.Session{ID: "s1", AccessToken: "a", GuestToken: "g"}

	require.NoError(t, svc.Logout(context.Background(), sess))
	assert.Equal(t, []string{"s1"}, sessions.deleted)
	assert.Equal(t, []string{"s1"}, carts.cleared)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.GuestToken)
}

func TestLogout_CartMirrorFailureIsNotFatal(t *testing.T) {
	sessions := newMemorySessions()
	carts := &memoryCarts{err: errors.New("redis down")}
	svc := NewService(sessions, carts, nil, logger.Discard())

	require.NoError(t, svc.Logout(context.Background(), &session.Session{ID: "s2", AccessToken: "a"}))
	assert.Equal(t, []string{"s2"}, sessions.deleted)
	assert.Equal(t, []string{"s2"}, carts.cleared)
}
