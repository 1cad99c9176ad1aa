// internal/domain/product/category_service.go
package product

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// ListCategories fetches the categories offered in the filter panel, sorted by name
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := apiclient.Fetch[[]Category](ctx, s.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/api/categories/",
	}).Unwrap()
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}
