package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestBuildExtractionDefaults(t *testing.T) {
	out, err := buildExtraction(offerWire{
		Title:      "  ",
		VendorName: "",
		Department: strptr("   "),
		OrderLines: []lineWire{
			{Description: "Ergonomic office chair with lumbar support and armrests", Quantity: 0},
		},
		TotalCost: nil,
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, out.Title)
	assert.Equal(t, DefaultVendor, out.VendorName)
	assert.Nil(t, out.Department)
	assert.Nil(t, out.VendorVATID)
	assert.True(t, out.TotalCost.Equal(decimal.Zero))

	require.Len(t, out.OrderLines, 1)
	line := out.OrderLines[0]
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "Ergonomic office chair with lumbar support", line.Product)
	assert.True(t, line.UnitPrice.Equal(decimal.Zero))
	assert.True(t, line.TotalPrice.Equal(decimal.Zero))
}

func TestBuildExtractionProductFallbacks(t *testing.T) {
	out, err := buildExtraction(offerWire{
		OrderLines: []lineWire{
			{Product: "  Laptop Pro 16  ", Description: "High-end workstation laptop"},
			{Product: "", Description: "USB-C dock"},
			{Product: "", Description: ""},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.OrderLines, 3)
	assert.Equal(t, "Laptop Pro 16", out.OrderLines[0].Product)
	assert.Equal(t, "USB-C dock", out.OrderLines[1].Product)
	assert.Equal(t, DefaultProduct, out.OrderLines[2].Product)
}

func TestBuildExtractionMixedMoneyFormats(t *testing.T) {
	out, err := buildExtraction(offerWire{
		Title:       "Office furniture order",
		VendorName:  "Büromöbel Schmidt GmbH",
		VendorVATID: strptr("DE123456789"),
		OrderLines: []lineWire{
			{Description: "Desk", UnitPrice: "1.199,00", Quantity: 2, TotalPrice: "2.398,00"},
			{Description: "Chair", UnitPrice: float64(349.5), Quantity: 1, TotalPrice: "€349,50"},
			{Description: "Lamp", UnitPrice: "45.00 EUR", Quantity: 3, TotalPrice: 135},
		},
		TotalCost: "2.882,50",
	})
	require.NoError(t, err)

	assert.True(t, out.OrderLines[0].UnitPrice.Equal(decimal.RequireFromString("1199")))
	assert.True(t, out.OrderLines[0].TotalPrice.Equal(decimal.RequireFromString("2398")))
	assert.True(t, out.OrderLines[1].TotalPrice.Equal(decimal.RequireFromString("349.5")))
	assert.True(t, out.OrderLines[2].UnitPrice.Equal(decimal.RequireFromString("45")))
	assert.True(t, out.TotalCost.Equal(decimal.RequireFromString("2882.5")))
}

func TestBuildExtractionTotalIsNotRecomputed(t *testing.T) {
	// Per-line discounts mean the stated net total can differ from the sum
	// of the lines; the stated value wins.
	out, err := buildExtraction(offerWire{
		VendorName: "ACME",
		OrderLines: []lineWire{
			{Description: "Widget", UnitPrice: "100,00", Quantity: 2, TotalPrice: "180,00"},
		},
		TotalCost: "180,00",
	})
	require.NoError(t, err)
	assert.True(t, out.TotalCost.Equal(decimal.RequireFromString("180")))
}

func TestBuildExtractionMalformedMoneyFailsRecord(t *testing.T) {
	_, err := buildExtraction(offerWire{
		OrderLines: []lineWire{
			{Description: "Thing", UnitPrice: "not a price"},
		},
	})
	require.ErrorIs(t, err, ErrMalformedMonetaryValue)
	assert.Contains(t, err.Error(), "order_lines[0].unit_price")
}

func TestTruncateWords(t *testing.T) {
	s, truncated := TruncateWords("one two three four", 10)
	assert.False(t, truncated)
	assert.Equal(t, "one two three four", s)

	s, truncated = TruncateWords("one two three four", 2)
	assert.True(t, truncated)
	assert.Equal(t, "one two", s)

	// Layout between kept words survives.
	s, truncated = TruncateWords("alpha\n\nbeta gamma", 2)
	assert.True(t, truncated)
	assert.Equal(t, "alpha\n\nbeta", s)
}
