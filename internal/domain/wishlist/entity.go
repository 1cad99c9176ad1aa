// internal/domain/wishlist/entity.go
package wishlist

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/music-storefront/internal/domain/product"
)

// Wishlist is a user's saved products as the store keeps them
type Wishlist struct {
	Products []product.Product `json:"products"`
	Summary  Summary           `json:"summary"`
}

// Summary provides summary information
type Summary struct {
	TotalItems       int             `json:"total_items"`
	AvailableItems   int             `json:"available_items"`
	UnavailableItems int             `json:"unavailable_items"`
	TotalValue       decimal.Decimal `json:"total_value"`
}

// ProductRequest is the body of every wishlist call to the store
type ProductRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

type serverWishlist struct {
	Products []product.Product `json:"products"`
}

func summarize(products []product.Product) Summary {
	summary := Summary{TotalItems: len(products), TotalValue: decimal.Zero}
	for _, p := range products {
		if p.IsInStock() {
			summary.AvailableItems++
		} else {
			summary.UnavailableItems++
		}
		summary.TotalValue = summary.TotalValue.Add(p.Price)
	}
	return summary
}
