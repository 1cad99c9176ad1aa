package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func catalog() []Product {
	return []Product{
		{ID: 1, Name: "Fender Stratocaster", Category: "Guitars", Price: decimal.RequireFromString("899.00"), QuantityInStock: 2},
		{ID: 2, Name: "Drum Sticks", Category: "Drums", Price: decimal.RequireFromString("12.50"), QuantityInStock: 0},
		{ID: 3, Name: "Gibson Les Paul", Category: "Guitars", Price: decimal.RequireFromString("1299.00"), QuantityInStock: 1},
		{ID: 4, Name: "Guitar Strings", Category: "Accessories", Price: decimal.RequireFromString("12.50"), QuantityInStock: 40},
	}
}

func ids(products []Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{name: "no filters", filters: Filters{}, want: []int64{1, 2, 3, 4}},
		{name: "case-insensitive search", filters: Filters{Query: "GUITAR"}, want: []int64{4}},
		{name: "search trims", filters: Filters{Query: "  les "}, want: []int64{3}},
		{name: "category", filters: Filters{Category: "guitars"}, want: []int64{1, 3}},
		{name: "price range inclusive", filters: Filters{MinPrice: price("12.50"), MaxPrice: price("899")}, want: []int64{1, 2, 4}},
		{name: "in stock", filters: Filters{InStock: true}, want: []int64{1, 3, 4}},
		{name: "low to high keeps ties stable", filters: Filters{PriceSort: SortLowToHigh}, want: []int64{2, 4, 1, 3}},
		{name: "high to low", filters: Filters{PriceSort: SortHighToLow}, want: []int64{3, 1, 2, 4}},
		{name: "combined", filters: Filters{InStock: true, MaxPrice: price("1000"), PriceSort: SortHighToLow}, want: []int64{1, 4}},
		{name: "unknown sort leaves order", filters: Filters{PriceSort: "random"}, want: []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(catalog(), tt.filters)))
		})
	}
}

func TestFilter_DoesNotReorderInput(t *testing.T) {
	products := catalog()
	Filter(products, Filters{PriceSort: SortHighToLow})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(products))
}

func TestMaxPrice(t *testing.T) {
	assert.True(t, MaxPrice(catalog()).Equal(decimal.RequireFromString("1299")))
	assert.True(t, MaxPrice(nil).IsZero())
}
