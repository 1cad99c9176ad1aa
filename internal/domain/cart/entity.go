// internal/domain/cart/entity.go
package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product entry of the shopper's cart
type CartLine struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// LineTotal is always recomputed from unit price and quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered local mirror of the server cart
type Cart struct {
	Lines     []CartLine `json:"lines"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Line returns the line with the given id
func (c Cart) Line(lineID int64) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return CartLine{}, false
}

// LineForProduct returns the line holding productID
func (c Cart) LineForProduct(productID int64) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// AddItemRequest is the body of POST /cart/add_item/
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// UpdateItemRequest is the body of POST /cart/{id}/update_item/
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// serverCart is the store's cart representation
type serverCart struct {
	Items []serverItem `json:"items"`
}

// serverItem accepts every historical shape of a cart item: product may be a
// name, an id or a nested object, and prices may arrive as strings or numbers.
type serverItem struct {
	ID           int64           `json:"id"`
	Product      json.RawMessage `json:"product"`
	ProductID    *int64          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	ImageURL     string          `json:"image_url"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type serverProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	ImageURL string          `json:"image_url"`
	Price    decimal.Decimal `json:"price"`
}

// toLine maps a server item onto a CartLine
func (i serverItem) toLine() (CartLine, error) {
	line := CartLine{
		ID:           i.ID,
		ProductName:  i.ProductName,
		ProductImage: i.ProductImage,
		UnitPrice:    i.Price,
		Quantity:     i.Quantity,
	}
	if line.ProductImage == "" {
		line.ProductImage = i.ImageURL
	}
	if i.ProductID != nil {
		line.ProductID = *i.ProductID
	}

	raw := bytes.TrimSpace(i.Product)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return CartLine{}, fmt.Errorf("cart item %d: product: %w", i.ID, err)
		}
		if line.ProductName == "" {
			line.ProductName = name
		}
	case raw[0] == '{':
		var product serverProduct
		if err := json.Unmarshal(raw, &product); err != nil {
			return CartLine{}, fmt.Errorf("cart item %d: product: %w", i.ID, err)
		}
		if line.ProductID == 0 {
			line.ProductID = product.ID
		}
		if line.ProductName == "" {
			line.ProductName = product.Name
		}
		if line.ProductImage == "" {
			line.ProductImage = product.Image
		}
		if line.ProductImage == "" {
			line.ProductImage = product.ImageURL
		}
		if line.UnitPrice.IsZero() {
			line.UnitPrice = product.Price
		}
	default:
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return CartLine{}, fmt.Errorf("cart item %d: unexpected product value %s", i.ID, raw)
		}
		if line.ProductID == 0 {
			line.ProductID = id
		}
	}

	// Older serializers only sent total_price
	if line.UnitPrice.IsZero() && !i.TotalPrice.IsZero() && i.Quantity > 0 {
		line.UnitPrice = i.TotalPrice.Div(decimal.NewFromInt(int64(i.Quantity)))
	}
	if line.Quantity < 0 {
		line.Quantity = 0
	}

	return line, nil
}

func (c serverCart) toCart(fetchedAt time.Time) (Cart, error) {
	lines := make([]CartLine, 0, len(c.Items))
	for _, item := range c.Items {
		line, err := item.toLine()
		if err != nil {
			return Cart{}, err
		}
		lines = append(lines, line)
	}
	return Cart{Lines: lines, FetchedAt: fetchedAt}, nil
}
