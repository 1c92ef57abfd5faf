package extract

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmountStrings(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"german thousands and decimal", "1.767,26", "1767.26"},
		{"euro symbol", "€150.00", "150"},
		{"trailing currency code", "500.00 EUR", "500"},
		{"comma only decimal", "150,00", "150"},
		{"plain dot decimal", "1234.56", "1234.56"},
		{"integer string", "42", "42"},
		{"symbol and german format", "€ 2.499,99", "2499.99"},
		{"lowercase code", "99,90 eur", "99.9"},
		{"chf code", "CHF 1.250,00", "1250"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeAmount(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s want %s", got, tc.want)
		})
	}
}

func TestNormalizeAmountNumericPassthrough(t *testing.T) {
	got, err := NormalizeAmount(float64(12.5))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")))

	got, err = NormalizeAmount(7)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(7)))

	got, err = NormalizeAmount(json.Number("3.14"))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("3.14")))
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	first, err := NormalizeAmount("1.767,26")
	require.NoError(t, err)
	second, err := NormalizeAmount(first.String())
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestNormalizeAmountMalformed(t *testing.T) {
	for _, in := range []string{"abc", "12,34,56 garbage", "€"} {
		_, err := NormalizeAmount(in)
		assert.ErrorIs(t, err, ErrMalformedMonetaryValue, "input %q", in)
	}

	_, err := NormalizeAmount([]string{"nope"})
	assert.ErrorIs(t, err, ErrMalformedMonetaryValue)
}
