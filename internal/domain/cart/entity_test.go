package cart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerCart_ParsesItemShapes(t *testing.T) {
	body := `{"items":[
		{"id":1,"product":"Fender Stratocaster","product_id":7,"product_image":"/media/strat.png","quantity":2,"price":"19.99","total_price":"39.98"},
		{"id":2,"product":{"id":9,"name":"Drum Sticks","image_url":"/media/sticks.png"},"quantity":1,"price":5},
		{"id":3,"product":11,"product_name":"Capo","quantity":3,"total_price":"7.50"}
	]}`

	var sc serverCart
	require.NoError(t, json.Unmarshal([]byte(body), &sc))

	c, err := sc.toCart(time.Now())
	require.NoError(t, err)
	require.Len(t, c.Lines, 3)

	assert.Equal(t, "Fender Stratocaster", c.Lines[0].ProductName)
	assert.Equal(t, int64(7), c.Lines[0].ProductID)
	assert.Equal(t, "/media/strat.png", c.Lines[0].ProductImage)
	assert.True(t, c.Lines[0].LineTotal().Equal(decimal.RequireFromString("39.98")))

	assert.Equal(t, int64(9), c.Lines[1].ProductID)
	assert.Equal(t, "Drum Sticks", c.Lines[1].ProductName)
	assert.Equal(t, "/media/sticks.png", c.Lines[1].ProductImage)

	assert.Equal(t, int64(11), c.Lines[2].ProductID)
	assert.Equal(t, "Capo", c.Lines[2].ProductName)
	assert.True(t, c.Lines[2].UnitPrice.Equal(decimal.RequireFromString("2.5")))
}

func TestServerCart_RejectsUnknownProductValue(t *testing.T) {
	var sc serverCart
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"id":1,"product":true,"quantity":1,"price":"1"}]}`), &sc))

	_, err := sc.toCart(time.Now())
	assert.Error(t, err)
}

func TestCart_Lookups(t *testing.T) {
	c := sampleCart()

	l, ok := c.LineForProduct(9)
	assert.True(t, ok)
	assert.Equal(t, int64(2), l.ID)

	_, ok = c.LineForProduct(100)
	assert.False(t, ok)
}
