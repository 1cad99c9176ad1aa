// internal/domain/wishlist/service.go
package wishlist

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/cart"
	"github.com/your-org/music-storefront/internal/domain/identity"
	"github.com/your-org/music-storefront/internal/domain/product"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// Service handles the logged-in shopper's wishlist. The store owns the list;
// each mutation is followed by a re-fetch.
type Service struct {
	client      *apiclient.Client
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewService creates a new wishlist service
func NewService(client *apiclient.Client, cartService *cart.Service, logger *logrus.Logger) *Service {
	return &Service{
		client:      client,
		cartService: cartService,
		logger:      logger,
	}
}

// GetWishlist fetches the wishlist
func (s *Service) GetWishlist(ctx context.Context, id identity.Identity) (*Wishlist, error) {
	if err := requireUser(id); err != nil {
		return nil, err
	}
	fetched, err := apiclient.Fetch[serverWishlist](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/wishlist/",
		Header: identity.AuthHeaders(id),
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if fetched.Products == nil {
		fetched.Products = []product.Product{}
	}
	return &Wishlist{
		Products: fetched.Products,
		Summary:  summarize(fetched.Products),
	}, nil
}

// AddToWishlist saves a product and returns the re-fetched wishlist
func (s *Service) AddToWishlist(ctx context.Context, id identity.Identity, productID int64) (*Wishlist, error) {
	if err := s.mutate(ctx, id, http.MethodPost, "/api/wishlist/", productID); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"product_id": productID,
	}).Debug("Added product to wishlist")

	return s.GetWishlist(ctx, id)
}

// RemoveFromWishlist drops a product and returns the re-fetched wishlist
func (s *Service) RemoveFromWishlist(ctx context.Context, id identity.Identity, productID int64) (*Wishlist, error) {
	if err := s.mutate(ctx, id, http.MethodDelete, "/api/wishlist/", productID); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"product_id": productID,
	}).Debug("Removed product from wishlist")

	return s.GetWishlist(ctx, id)
}

// AddToCart puts one unit of a wishlisted product into the cart. The store
// adds to an existing line when there is one; the product stays on the
// wishlist. The returned cart is re-fetched into the mirror.
func (s *Service) AddToCart(ctx context.Context, id identity.Identity, productID int64) (cart.Cart, error) {
	if err := s.mutate(ctx, id, http.MethodPost, "/add-to-cart-from-wishlist/", productID); err != nil {
		current, _ := s.cartService.Mirror(ctx, id)
		return current, err
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": id.SessionID,
		"product_id": productID,
	}).Info("Moved wishlist product to cart")

	return s.cartService.FetchCart(ctx, id)
}

func (s *Service) mutate(ctx context.Context, id identity.Identity, method, path string, productID int64) error {
	if err := requireUser(id); err != nil {
		return err
	}
	if productID <= 0 {
		return &apiclient.ValidationError{Field: "product_id", Message: "Product ID is required."}
	}

	return s.client.Do(ctx, apiclient.Request{
		Method: method,
		Path:   path,
		Body:   ProductRequest{ProductID: productID},
		Header: identity.AuthHeaders(id),
	}, nil)
}

func requireUser(id identity.Identity) error {
	if !id.IsUser() {
		return &apiclient.AuthError{Message: "login required"}
	}
	return nil
}
