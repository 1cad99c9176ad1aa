// internal/domain/pricing/reconciler.go
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/music-storefront/internal/domain/cart"
)

// DisplayLine is a cart line ready to render
type DisplayLine struct {
	LineID           int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductImage     string          `json:"product_image,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	UnitPriceDisplay string          `json:"unit_price_display"`
	LineTotalDisplay string          `json:"line_total_display"`
}

// Summary is the reconciled view of a cart
type Summary struct {
	Lines             []DisplayLine   `json:"lines"`
	ItemCount         int             `json:"item_count"`
	TotalQuantity     int             `json:"total_quantity"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	GrandTotalDisplay string          `json:"grand_total_display"`
}

// Reconcile folds the cart's lines into display lines and a grand total.
// Totals are exact; rounding to cents happens only in the display strings.
func Reconcile(c cart.Cart) Summary {
	summary := Summary{
		Lines:      make([]DisplayLine, 0, len(c.Lines)),
		GrandTotal: decimal.Zero,
	}

	for _, line := range c.Lines {
		total := line.LineTotal()
		summary.Lines = append(summary.Lines, DisplayLine{
			LineID:           line.ID,
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			ProductImage:     line.ProductImage,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			LineTotal:        total,
			UnitPriceDisplay: FormatCurrency(line.UnitPrice),
			LineTotalDisplay: FormatCurrency(total),
		})
		summary.TotalQuantity += line.Quantity
		summary.GrandTotal = summary.GrandTotal.Add(total)
	}

	summary.ItemCount = len(summary.Lines)
	summary.GrandTotalDisplay = FormatCurrency(summary.GrandTotal)
	return summary
}

// FormatCurrency renders an amount as dollars with two decimals
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
