// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/music-storefront/internal/pkg/apiclient"
)

// Product is a catalog entry as the store lists it
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Category        apiclient.Ref   `json:"category"`
	Model           string          `json:"model"`
	SerialNumber    string          `json:"serial_number"`
	Description     string          `json:"description"`
	QuantityInStock int             `json:"quantity_in_stock"`
	Price           decimal.Decimal `json:"price"`
	WarrantyStatus  string          `json:"warranty_status"`
	DistributorInfo string          `json:"distributor_info"`
	Image           string          `json:"image,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
}

// IsInStock reports whether at least one unit is available
func (p Product) IsInStock() bool {
	return p.QuantityInStock > 0
}

// ImageSource returns whichever image field the store filled in
func (p Product) ImageSource() string {
	if p.Image != "" {
		return p.Image
	}
	return p.ImageURL
}

// Page is one filtered view of the catalog
type Page struct {
	Products []Product
	Total    int
	MaxPrice decimal.Decimal
}

// Category groups products
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Review is an approved product review
type Review struct {
	ID         int64         `json:"id"`
	Product    apiclient.Ref `json:"product"`
	User       apiclient.Ref `json:"user"`
	Rating     int           `json:"rating"`
	Comment    string        `json:"comment"`
	IsApproved bool          `json:"is_approved"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CreateReviewRequest is the body of POST /api/reviews/
type CreateReviewRequest struct {
	Product int64  `json:"product"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
