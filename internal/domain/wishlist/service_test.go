package wishlist

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/domain/cart"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/logger"
	"github.com/your-org/music-storefront/internal/pkg/storetest"
)

var (
	alice = identity.Identity{Kind: identity.KindUser, Token: "token-alice", SessionID: "s1", Username: "alice"}
	guest = identity.Identity{Kind: identity.KindGuest, Token: "guest-1", SessionID: "s2"}
)

type fixture struct {
	store *storetest.Server
	carts *cart.Service
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	store := storetest.NewServer()
	t.Cleanup(store.Close)
	store.AddProduct(storetest.Product{ID: 7, Name: "Fender Stratocaster", Price: "19.99", Stock: 5})
	store.AddProduct(storetest.Product{ID: 12, Name: "Bass Amp", Price: "249.00", Stock: 0})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	client := apiclient.NewClientWithHTTP(store.URL, store.Client(), logger.Discard())
	carts := cart.NewService(client, cart.NewRedisMirror(rdb, time.Hour), logger.Discard())

	return &fixture{
		store: store,
		carts: carts,
		svc:   NewService(client, carts, logger.Discard()),
	}
}

func TestService_GetWishlistSummarizes(t *testing.T) {
	f := newFixture(t)
	f.store.SeedWishlist("alice", 7, 12)

	list, err := f.svc.GetWishlist(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, list.Products, 2)
	assert.Equal(t, "Fender Stratocaster", list.Products[0].Name)
	assert.Equal(t, 2, list.Summary.TotalItems)
	assert.Equal(t, 1, list.Summary.AvailableItems)
	assert.Equal(t, 1, list.Summary.UnavailableItems)
	assert.True(t, list.Summary.TotalValue.Equal(decimal.RequireFromString("268.99")))
}

func TestService_EmptyWishlist(t *testing.T) {
	f := newFixture(t)

	list, err := f.svc.GetWishlist(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, list.Products)
	assert.Empty(t, list.Products)
	assert.True(t, list.Summary.TotalValue.IsZero())
}

func TestService_AddAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.svc.AddToWishlist(ctx, alice, 7)
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, []int64{7}, f.store.Wishlist("alice"))

	adds := f.store.Requests("/api/wishlist/")
	require.NotEmpty(t, adds)
	assert.Equal(t, http.MethodPost, adds[0].Method)
	assert.Equal(t, float64(7), adds[0].Body["product_id"])
	assert.Equal(t, "Bearer token-alice", adds[0].Header.Get("Authorization"))

	list, err = f.svc.RemoveFromWishlist(ctx, alice, 7)
	require.NoError(t, err)
	assert.Empty(t, list.Products)
	assert.Empty(t, f.store.Wishlist("alice"))

	_, err = f.svc.RemoveFromWishlist(ctx, alice, 7)
	require.Error(t, err)
	assert.Equal(t, "Product not in wishlist.", apiclient.UserMessage(err))
}

func TestService_AddUnknownProductIsVerbatim(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddToWishlist(context.Background(), alice, 404)
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
	assert.Equal(t, "Product not found.", apiclient.UserMessage(err))
}

func TestService_RejectsLocally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetWishlist(ctx, guest)
	assert.True(t, apiclient.IsAuth(err))

	_, err = f.svc.AddToCart(ctx, guest, 7)
	assert.True(t, apiclient.IsAuth(err))

	_, err = f.svc.AddToWishlist(ctx, alice, 0)
	require.Error(t, err)
	assert.True(t, apiclient.IsValidation(err))
	assert.Equal(t, "Product ID is required.", apiclient.UserMessage(err))

	assert.Empty(t, f.store.Requests("/"))
}

func TestService_AddToCartRefreshesMirror(t *testing.T) {
	f := newFixture(t)
	f.store.SeedWishlist("alice", 7)
	f.store.SeedUserCart("alice", 7, 1)
	ctx := context.Background()

	c, err := f.svc.AddToCart(ctx, alice, 7)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 2, f.store.CartQuantity("user:alice", 7))

	mirrored, err := f.carts.Mirror(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mirrored.Lines, 1)
	assert.Equal(t, 2, mirrored.Lines[0].Quantity)

	// The product stays saved
	assert.Equal(t, []int64{7}, f.store.Wishlist("alice"))
}

func TestService_AddToCartOutOfStockKeepsMirror(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.carts.FetchCart(ctx, alice)
	require.NoError(t, err)

	c, err := f.svc.AddToCart(ctx, alice, 12)
	require.Error(t, err)
	assert.Equal(t, "Product is out of stock.", apiclient.UserMessage(err))
	assert.Empty(t, c.Lines)
	assert.Empty(t, f.store.Requests("/cart/add_item/"))
}
