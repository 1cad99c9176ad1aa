package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/music-storefront/internal/config"
	"github.com/your-org/music-storefront/internal/domain/order"
)

func TestRenderInvoiceHTML(t *testing.T) {
	cfg := &config.Config{Invoice: config.InvoiceConfig{CompanyName: "Music Store", CompanyEmail: "billing@music.example"}}
	svc := NewService(cfg)
	svc.now = func() time.Time { return time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC) }

	html, err := svc.RenderInvoiceHTML(&order.Order{
		ID:         12,
		Status:     order.StatusDelivered,
		TotalPrice: decimal.RequireFromString("39.98"),
		CreatedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Items: []order.Item{
			{ID: 1, ProductName: "Fender <Strat>", Quantity: 2, Price: decimal.RequireFromString("19.99")},
			{ID: 2, Quantity: 1, Price: decimal.Zero},
		},
	})
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "<title>Invoice #12</title>")
	assert.Contains(t, page, "Music Store")
	assert.Contains(t, page, "billing@music.example")
	assert.Contains(t, page, "March 1, 2024 09:30")
	assert.Contains(t, page, "DELIVERED")
	assert.Contains(t, page, "Fender &lt;Strat&gt;")
	assert.Contains(t, page, "Deleted Product")
	assert.Contains(t, page, "$19.99")
	assert.Contains(t, page, "Items: 3")
	assert.Contains(t, page, "Total: $39.98")
	assert.Contains(t, page, "Printed March 2, 2024 10:00")
}

func TestRenderInvoiceHTML_NilOrder(t *testing.T) {
	_, err := NewService(&config.Config{}).RenderInvoiceHTML(nil)
	assert.Error(t, err)
}

func TestRenderInvoiceHTML_ItemImages(t *testing.T) {
	svc := NewService(&config.Config{})

	html, err := svc.RenderInvoiceHTML(&order.Order{
		ID: 3,
		Items: []order.Item{
			{ID: 1, ProductName: "Strat", ProductImageURL: "https://cdn.example/strat.jpg", Quantity: 1},
			{ID: 2, ProductName: "Picks", Quantity: 1},
		},
	})
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, `<img class="thumb" src="https://cdn.example/strat.jpg">Strat`)
	assert.Equal(t, 1, strings.Count(page, "<img"))
}
