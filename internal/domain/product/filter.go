// internal/domain/product/filter.go
package product

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Sort orders for Filters.PriceSort
const (
	SortLowToHigh = "lowToHigh"
	SortHighToLow = "highToLow"
)

// Filters narrows an already fetched product list
type Filters struct {
	Query     string           `form:"q"`
	Category  string           `form:"category"`
	MinPrice  *decimal.Decimal `form:"-"`
	MaxPrice  *decimal.Decimal `form:"-"`
	InStock   bool             `form:"in_stock"`
	PriceSort string           `form:"sort"`
}

// Filter applies the name search, price range, stock and category filters and
// the price sort. The input slice is left untouched; ties keep their order.
func Filter(products []Product, f Filters) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category.String(), f.Category) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.InStock && !p.IsInStock() {
			continue
		}
		out = append(out, p)
	}

	switch f.PriceSort {
	case SortLowToHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortHighToLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	}

	return out
}

// MaxPrice returns the highest price in the list, zero for an empty list.
// It bounds the price-range slider.
func MaxPrice(products []Product) decimal.Decimal {
	highest := decimal.Zero
	for _, p := range products {
		if p.Price.GreaterThan(highest) {
			highest = p.Price
		}
	}
	return highest
}
