package cart

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/logger"
	"github.com/your-org/music-storefront/internal/pkg/storetest"
)

type fixture struct {
	store  *storetest.Server
	redis  *miniredis.Miniredis
	mirror *RedisMirror
	svc    *Service
	guest  identity.Identity
}

func newFixture(t *testing.T) *fixture {
	store := storetest.NewServer()
	t.Cleanup(store.Close)
	store.AddProduct(storetest.Product{ID: 7, Name: "Fender Stratocaster", Price: "19.99", Stock: 5})
	store.AddProduct(storetest.Product{ID: 9, Name: "Drum Sticks", Price: "5.00", Stock: 100})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	mirror := NewRedisMirror(rdb, time.Hour)
	client := apiclient.NewClientWithHTTP(store.URL, store.Client(), logger.Discard())

	return &fixture{
		store:  store,
		redis:  mr,
		mirror: mirror,
		svc:    NewService(client, mirror, logger.Discard()),
		guest:  identity.Identity{Kind: identity.KindGuest, Token: "guest-abc", SessionID: "sess-1"},
	}
}

func TestService_AddLineThenFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.AddLine(ctx, f.guest, 7, 2, nil)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(7), c.Lines[0].ProductID)
	assert.True(t, c.Lines[0].LineTotal().Equal(decimal.RequireFromString("39.98")))

	mirrored, err := f.svc.Mirror(ctx, f.guest)
	require.NoError(t, err)
	assert.Equal(t, c.Lines, mirrored.Lines)

	adds := f.store.Requests("/cart/add_item/")
	require.Len(t, adds, 1)
	assert.Equal(t, "guest-abc", adds[0].Header.Get("Guest-Token"))
	assert.Empty(t, adds[0].Header.Get("Authorization"))
}

func TestService_AddLineRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddLine(context.Background(), f.guest, 7, 0, nil)
	assert.True(t, apiclient.IsValidation(err))
	assert.Empty(t, f.store.Requests("/cart/"))
}

func TestService_AddLineClampsToKnownStock(t *testing.T) {
	f := newFixture(t)
	stock := 3

	c, err := f.svc.AddLine(context.Background(), f.guest, 7, 10, &stock)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Lines[0].Quantity)

	stock = 0
	_, err = f.svc.AddLine(context.Background(), f.guest, 7, 1, &stock)
	assert.True(t, apiclient.IsValidation(err))
}

func TestService_AddLineServerRejection(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.AddLine(context.Background(), f.guest, 7, 50, nil)
	require.Error(t, err)
	assert.Equal(t, "Not enough stock available", apiclient.UserMessage(err))
	assert.True(t, c.IsEmpty())
}

func TestService_SetLineQuantityReconcilesWithServerClamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.AddLine(ctx, f.guest, 7, 1, nil)
	require.NoError(t, err)
	lineID := c.Lines[0].ID

	c, err = f.svc.SetLineQuantity(ctx, f.guest, lineID, 9)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestService_SetLineQuantityZeroRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.AddLine(ctx, f.guest, 7, 1, nil)
	require.NoError(t, err)

	lineID := c.Lines[0].ID

	c, err = f.svc.SetLineQuantity(ctx, f.guest, lineID, 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Empty(t, f.store.Requests(fmt.Sprintf("/cart/%d/update_item/", lineID)))
	assert.Len(t, f.store.Requests(fmt.Sprintf("/cart/%d/remove_item/", lineID)), 1)
}

func TestService_SetLineQuantityFailureRestoresMirror(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.AddLine(ctx, f.guest, 7, 2, nil)
	require.NoError(t, err)
	lineID := c.Lines[0].ID

	f.store.Fail(http.MethodPost, fmt.Sprintf("/cart/%d/update_item/", lineID), http.StatusInternalServerError, `{}`)
	f.store.Fail(http.MethodGet, "/cart/", http.StatusInternalServerError, `{}`)

	c, err = f.svc.SetLineQuantity(ctx, f.guest, lineID, 4)
	require.Error(t, err)
	assert.Equal(t, 2, c.Lines[0].Quantity)

	mirrored, err := f.svc.Mirror(ctx, f.guest)
	require.NoError(t, err)
	assert.Equal(t, 2, mirrored.Lines[0].Quantity)
}

func TestService_RemoveLineIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.AddLine(ctx, f.guest, 9, 1, nil)
	require.NoError(t, err)
	lineID := c.Lines[0].ID

	c, err = f.svc.RemoveLine(ctx, f.guest, lineID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	c, err = f.svc.RemoveLine(ctx, f.guest, lineID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestService_FetchFailureKeepsLastKnownCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddLine(ctx, f.guest, 7, 2, nil)
	require.NoError(t, err)

	f.store.Fail(http.MethodGet, "/cart/", http.StatusServiceUnavailable, `{"detail":"maintenance"}`)
	c, err := f.svc.FetchCart(ctx, f.guest)
	require.Error(t, err)
	assert.Equal(t, "maintenance", apiclient.UserMessage(err))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestService_FetchNetworkError(t *testing.T) {
	f := newFixture(t)
	f.store.Close()

	c, err := f.svc.FetchCart(context.Background(), f.guest)
	assert.True(t, apiclient.IsNetwork(err))
	assert.True(t, c.IsEmpty())
}

func TestService_Clear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddLine(ctx, f.guest, 7, 1, nil)
	require.NoError(t, err)
	require.True(t, f.redis.Exists("storefront:cart:sess-1"))

	require.NoError(t, f.svc.Clear(ctx, f.guest))
	assert.False(t, f.redis.Exists("storefront:cart:sess-1"))
}
