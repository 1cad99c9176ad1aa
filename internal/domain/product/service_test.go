package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
	"github.com/your-org/music-storefront/internal/pkg/logger"
)

const productsJSON = `[
	{"id":1,"name":"Fender Stratocaster","category":2,"model":"Player","serial_number":"MX1","description":"",
	 "quantity_in_stock":2,"price":"899.00","warranty_status":"2 years","distributor_info":"Fender","image":"/media/strat.png"},
	{"id":2,"name":"Drum Sticks","category":"Drums","quantity_in_stock":0,"price":12.5,"image_url":"/media/sticks.png"}
]`

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(apiclient.NewClientWithHTTP(srv.URL, srv.Client(), logger.Discard()), logger.Discard())
}

func TestService_ListProducts(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/", r.URL.Path)
		w.Write([]byte(productsJSON))
	})

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, apiclient.Ref("2"), products[0].Category)
	assert.Equal(t, "/media/strat.png", products[0].ImageSource())
	assert.Equal(t, "/media/sticks.png", products[1].ImageSource())
	assert.Equal(t, "12.5", products[1].Price.String())
	assert.False(t, products[1].IsInStock())
}

func TestService_Browse(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsJSON))
	})

	page, err := svc.Browse(context.Background(), Filters{InStock: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(page.Products))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "899", page.MaxPrice.String())
}

func TestService_StockOf(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/1/" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
			return
		}
		w.Write([]byte(`{"id":1,"name":"Strat","quantity_in_stock":3,"price":"899.00"}`))
	})

	stock, err := svc.StockOf(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, *stock)

	_, err = svc.StockOf(context.Background(), 2)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestService_ListCategoriesSorted(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"guitars"},{"id":2,"name":"Amplifiers"},{"id":3,"name":"Drums"}]`))
	})

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Amplifiers", categories[0].Name)
	assert.Equal(t, "Drums", categories[1].Name)
	assert.Equal(t, "guitars", categories[2].Name)
}

func TestService_ListReviewsKeepsOnlyThatProduct(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("product"))
		w.Write([]byte(`[{"id":1,"product":1,"user":4,"rating":5,"comment":"Great"},{"id":2,"product":2,"user":4,"rating":1}]`))
	})

	reviews, err := svc.ListReviews(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great", reviews[0].Comment)
}

func TestService_SubmitReview(t *testing.T) {
	var body map[string]interface{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-alice", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"product":1,"rating":4,"comment":"Nice","is_approved":false}`))
	})
	alice := identity.Identity{Kind: identity.KindUser, Token: "token-alice"}

	review, err := svc.SubmitReview(context.Background(), alice, CreateReviewRequest{Product: 1, Rating: 4, Comment: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), review.ID)
	assert.False(t, review.IsApproved)
	assert.Equal(t, float64(1), body["product"])

	_, err = svc.SubmitReview(context.Background(), alice, CreateReviewRequest{Product: 1, Rating: 6})
	assert.True(t, apiclient.IsValidation(err))

	_, err = svc.SubmitReview(context.Background(), identity.Identity{Kind: identity.KindGuest, Token: "g"}, CreateReviewRequest{Product: 1, Rating: 4})
	assert.True(t, apiclient.IsAuth(err))
}
