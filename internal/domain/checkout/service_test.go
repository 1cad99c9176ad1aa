package checkout

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/logger"
	"github.com/your-org/music-storefront/internal/pkg/storetest"
)

type fakeCart struct {
	cleared int
}

func (f *fakeCart) Clear(ctx context.Context, id identity.Identity) error {
	f.cleared++
	return nil
}

type fakeJournal struct {
	mu       sync.Mutex
	attempts []Attempt
	err      error
}

func (f *fakeJournal) Record(ctx context.Context, attempt *Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeJournal) Recent(ctx context.Context, owner Owner, limit int) ([]Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts, nil
}

var alice = identity.Identity{Kind: identity.KindUser, Token: "token-alice", SessionID: "s1", Username: "alice"}

type fixture struct {
	store   *storetest.Server
	cart    *fakeCart
	journal *fakeJournal
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	store := storetest.NewServer()
	t.Cleanup(store.Close)
	store.AddProduct(storetest.Product{ID: 7, Name: "Fender Stratocaster", Price: "19.99", Stock: 5})
	store.SeedUserCart("alice", 7, 2)

	f := &fixture{store: store, cart: &fakeCart{}, journal: &fakeJournal{}}
	client := apiclient.NewClientWithHTTP(store.URL, store.Client(), logger.Discard())
	f.svc = NewService(client, f.cart, f.journal, logger.Discard())
	return f
}

func TestSubmitter_Success(t *testing.T) {
	f := newFixture(t)
	sub := f.svc.NewSubmitter(alice)
	assert.Equal(t, StateIdle, sub.State())

	placed, err := sub.PlaceOrder(context.Background(), validForm())
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, sub.State())
	assert.Equal(t, "PROCESSING", string(placed.Status))
	assert.Equal(t, placed, sub.Order())
	assert.Equal(t, 1, f.cart.cleared)

	sent := f.store.Requests("/checkout/")
	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer token-alice", sent[0].Header.Get("Authorization"))
	card := sent[0].Body["credit_card"].(map[string]interface{})
	assert.Equal(t, false, card["use_saved_card"])
	assert.Equal(t, "1234567812345678", card["card_number"])

	require.Len(t, f.journal.attempts, 1)
	recorded := f.journal.attempts[0]
	assert.Equal(t, StateSucceeded, recorded.State)
	assert.Equal(t, "5678", recorded.CardLast4)
	assert.Equal(t, placed.ID, *recorded.OrderID)
	assert.NotNil(t, recorded.FinishedAt)
}

func TestSubmitter_ServerErrorLeavesCartAlone(t *testing.T) {
	f := newFixture(t)
	f.store.Fail(http.MethodPost, "/checkout/", http.StatusInternalServerError, `{"detail":"Payment gateway unavailable"}`)
	sub := f.svc.NewSubmitter(alice)

	placed, err := sub.PlaceOrder(context.Background(), validForm())
	require.Error(t, err)
	assert.Nil(t, placed)

	assert.Equal(t, StateFailed, sub.State())
	assert.Equal(t, "Payment gateway unavailable", apiclient.UserMessage(sub.Err()))
	assert.Zero(t, f.cart.cleared)
	assert.Equal(t, 2, f.store.CartQuantity("user:alice", 7))
	assert.Len(t, f.store.Requests("/checkout/"), 1)

	require.Len(t, f.journal.attempts, 1)
	assert.Equal(t, http.StatusInternalServerError, f.journal.attempts[0].HTTPStatus)
}

func TestSubmitter_NoRetryUntilEdit(t *testing.T) {
	f := newFixture(t)
	f.store.Fail(http.MethodPost, "/checkout/", http.StatusInternalServerError, `{}`)
	sub := f.svc.NewSubmitter(alice)
	ctx := context.Background()

	_, err := sub.PlaceOrder(ctx, validForm())
	require.Error(t, err)
	assert.Equal(t, "The store could not process the request. Please try again.", apiclient.UserMessage(err))

	_, err = sub.PlaceOrder(ctx, validForm())
	assert.ErrorIs(t, err, ErrNotIdle)
	assert.Len(t, f.store.Requests("/checkout/"), 1)

	f.store.Recover(http.MethodPost, "/checkout/")
	sub.Edit()
	assert.Equal(t, StateIdle, sub.State())
	assert.NoError(t, sub.Err())

	_, err = sub.PlaceOrder(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, sub.State())
}

func TestSubmitter_ValidationFailureSendsNothing(t *testing.T) {
	f := newFixture(t)
	sub := f.svc.NewSubmitter(alice)
	form := validForm()
	form.CVV = "12"

	_, err := sub.PlaceOrder(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, invalidCVV, apiclient.UserMessage(err))
	assert.Equal(t, StateFailed, sub.State())
	assert.Empty(t, f.store.Requests("/checkout/"))

	sub.Edit()
	assert.Equal(t, StateIdle, sub.State())
}

func TestSubmitter_SavedCardBypassesValidation(t *testing.T) {
	f := newFixture(t)
	sub := f.svc.NewSubmitter(alice)
	cardID := int64(3)

	_, err := sub.PlaceOrder(context.Background(), CardForm{SavedCardID: &cardID, CardNumber: "", CVV: "x"})
	require.NoError(t, err)

	sent := f.store.Requests("/checkout/")
	require.Len(t, sent, 1)
	card := sent[0].Body["credit_card"].(map[string]interface{})
	assert.Equal(t, true, card["use_saved_card"])
	assert.Equal(t, float64(3), card["card_id"])
	assert.NotContains(t, card, "card_number")
	assert.Empty(t, f.journal.attempts[0].CardLast4)
}

func TestSubmitter_GuestMustLogIn(t *testing.T) {
	f := newFixture(t)
	guest := identity.Identity{Kind: identity.KindGuest, Token: "g", SessionID: "s2"}
	sub := f.svc.NewSubmitter(guest)

	_, err := sub.PlaceOrder(context.Background(), validForm())
	assert.True(t, apiclient.IsAuth(err))
	assert.Equal(t, StateFailed, sub.State())
	assert.Empty(t, f.store.Requests("/checkout/"))
}

func TestSubmitter_JournalFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.journal.err = errors.New("db down")
	sub := f.svc.NewSubmitter(alice)

	_, err := sub.PlaceOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, sub.State())
}

func TestSubmitter_NilJournal(t *testing.T) {
	f := newFixture(t)
	client := apiclient.NewClientWithHTTP(f.store.URL, f.store.Client(), logger.Discard())
	svc := NewService(client, f.cart, nil, logger.Discard())
	assert.Nil(t, svc.Journal())

	_, err := svc.NewSubmitter(alice).PlaceOrder(context.Background(), validForm())
	require.NoError(t, err)
}
