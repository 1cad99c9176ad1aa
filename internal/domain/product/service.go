// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// Service reads the catalog from the store
type Service struct {
	client *apiclient.Client
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(client *apiclient.Client, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// ListProducts fetches the full product list
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := apiclient.Fetch[[]Product](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/products/",
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Browse fetches the product list and narrows it with f. Total and MaxPrice
// describe the whole catalog so the filter controls keep their range.
func (s *Service) Browse(ctx context.Context, f Filters) (*Page, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &Page{
		Products: Filter(products, f),
		Total:    len(products),
		MaxPrice: MaxPrice(products),
	}, nil
}

// GetProduct fetches one product
func (s *Service) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	result := apiclient.Fetch[Product](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/products/%d/", productID),
	})
	if !result.IsOk() {
		return nil, result.Err
	}
	return &result.Value, nil
}

// StockOf returns the stock figure of a product, used to pre-clamp cart quantities
func (s *Service) StockOf(ctx context.Context, productID int64) (*int, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	stock := p.QuantityInStock
	return &stock, nil
}
