package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prokura/procure-backend/internal/llm"
)

// fakeChat returns a canned result and records the last request.
type fakeChat struct {
	result llm.ChatResult
	err    error
	last   llm.ChatRequest
}

func (f *fakeChat) Complete(_ context.Context, req llm.ChatRequest) (llm.ChatResult, error) {
	f.last = req
	return f.result, f.err
}

func TestExtractNilClientUnavailable(t *testing.T) {
	e := NewExtractor(nil, nil)
	_, err := e.Extract(context.Background(), "some offer text")
	assert.ErrorIs(t, err, ErrExtractionUnavailable)
}

func TestExtractHappyPathWithShippingLine(t *testing.T) {
	chat := &fakeChat{result: llm.ChatResult{Content: []byte(`{
		"title": "Office Furniture Purchase",
		"vendor_name": "Büromöbel Schmidt GmbH",
		"vendor_vat_id": "DE812345678",
		"department": null,
		"order_lines": [
			{"product": "Schreibtisch Pro", "description": "Höhenverstellbarer Schreibtisch 160x80", "unit_price": "1.199,00", "amount": 2, "unit": "Stück", "total_price": "2.398,00"},
			{"product": "Versandkosten", "description": "Lieferung frei Bordsteinkante", "unit_price": "49,00", "amount": 1, "unit": null, "total_price": "49,00"}
		],
		"total_cost": "2.447,00"
	}`)}}

	e := NewExtractor(chat, nil)
	out, err := e.Extract(context.Background(), "Angebot ... Nettosumme 2.447,00 EUR ... Gesamtsumme 2.911,93 EUR")
	require.NoError(t, err)

	assert.Equal(t, "offer_extraction", chat.last.SchemaName)
	assert.Contains(t, chat.last.User, "Offer document text:")

	assert.Equal(t, "Büromöbel Schmidt GmbH", out.VendorName)
	require.NotNil(t, out.VendorVATID)
	assert.Equal(t, "DE812345678", *out.VendorVATID)
	assert.Nil(t, out.Department)

	require.Len(t, out.OrderLines, 2)
	shipping := out.OrderLines[1]
	assert.Equal(t, "Versandkosten", shipping.Product)
	assert.True(t, shipping.TotalPrice.Equal(decimal.RequireFromString("49")))

	// The stated net total, not lines plus shipping recomputed.
	assert.True(t, out.TotalCost.Equal(decimal.RequireFromString("2447")))
}

func TestExtractSanitizesNearMissOutput(t *testing.T) {
	// Unknown top-level key plus missing order_lines: first validation fails,
	// the lenient pass repairs it.
	chat := &fakeChat{result: llm.ChatResult{Content: []byte(`{
		"title": "Cleaning Supplies",
		"vendor_name": "CleanCo",
		"confidence": 0.93,
		"total_cost": "150,00"
	}`)}}

	e := NewExtractor(chat, nil)
	out, err := e.Extract(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, "CleanCo", out.VendorName)
	assert.Empty(t, out.OrderLines)
	assert.True(t, out.TotalCost.Equal(decimal.RequireFromString("150")))
}

func TestExtractRefusal(t *testing.T) {
	chat := &fakeChat{result: llm.ChatResult{Refusal: "cannot process this content"}}
	e := NewExtractor(chat, nil)
	_, err := e.Extract(context.Background(), "doc")
	require.ErrorIs(t, err, ErrExtractionRefused)
	assert.Contains(t, err.Error(), "cannot process this content")
}

func TestExtractEmptyContentRefused(t *testing.T) {
	chat := &fakeChat{result: llm.ChatResult{Content: []byte("  ")}}
	e := NewExtractor(chat, nil)
	_, err := e.Extract(context.Background(), "doc")
	assert.ErrorIs(t, err, ErrExtractionRefused)
}

func TestExtractHopelessOutputRefused(t *testing.T) {
	chat := &fakeChat{result: llm.ChatResult{Content: []byte(`["not","an","object"]`)}}
	e := NewExtractor(chat, nil)
	_, err := e.Extract(context.Background(), "doc")
	assert.ErrorIs(t, err, ErrExtractionRefused)
}

func TestExtractTransportErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	chat := &fakeChat{err: boom}
	e := NewExtractor(chat, nil)
	_, err := e.Extract(context.Background(), "doc")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrExtractionRefused)
}

func TestExtractMalformedMoneyAborts(t *testing.T) {
	chat := &fakeChat{result: llm.ChatResult{Content: []byte(`{
		"vendor_name": "ACME",
		"order_lines": [
			{"description": "Widget", "unit_price": "around fifty", "amount": 1, "total_price": null}
		],
		"total_cost": null
	}`)}}
	e := NewExtractor(chat, nil)
	_, err := e.Extract(context.Background(), "doc")
	assert.ErrorIs(t, err, ErrMalformedMonetaryValue)
}
