package extract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fallbacks substituted during structural validation when the engine returns
// a degraded or partial response. Downstream always receives a usable record
// once the engine produced any structure at all.
const (
	DefaultTitle   = "Procurement Request"
	DefaultVendor  = "Unknown Vendor"
	DefaultProduct = "Unnamed Item"
)

// productFallbackWords is how many leading words of the description stand in
// for a missing product label.
const productFallbackWords = 6

// OrderLine is one extracted offer position. TotalPrice is the line total as
// stated in the document; offers may carry per-line discounts, so it is never
// recomputed from UnitPrice and Quantity.
type OrderLine struct {
	Product     string          `json:"product"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"amount"`
	Unit        *string         `json:"unit,omitempty"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OfferExtraction is the validated, normalized offer record. It is built once
// per extraction call and immutable afterwards; ownership passes to the
// caller. TotalCost is the document's stated net (pre-tax) total, copied
// verbatim from the source, not a derived sum.
type OfferExtraction struct {
	Title       string          `json:"title"`
	VendorName  string          `json:"vendor_name"`
	VendorVATID *string         `json:"vendor_vat_id,omitempty"`
	Department  *string         `json:"department,omitempty"`
	OrderLines  []OrderLine     `json:"order_lines"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// Wire shapes: monetary fields arrive as strings or numbers depending on how
// the engine felt that day, so they decode as any and go through the
// normalizer during construction.
type offerWire struct {
	Title       string     `json:"title"`
	VendorName  string     `json:"vendor_name"`
	VendorVATID *string    `json:"vendor_vat_id"`
	Department  *string    `json:"department"`
	OrderLines  []lineWire `json:"order_lines"`
	TotalCost   any        `json:"total_cost"`
}

type lineWire struct {
	Product     string  `json:"product"`
	Description string  `json:"description"`
	UnitPrice   any     `json:"unit_price"`
	Quantity    int     `json:"amount"`
	Unit        *string `json:"unit"`
	TotalPrice  any     `json:"total_price"`
}

// buildExtraction applies normalization and the defaulting policy. The only
// hard failure is a monetary value that survives cleaning but still does not
// parse; that aborts the whole record.
func buildExtraction(w offerWire) (OfferExtraction, error) {
	out := OfferExtraction{
		Title:       strings.TrimSpace(w.Title),
		VendorName:  strings.TrimSpace(w.VendorName),
		VendorVATID: cleanOptional(w.VendorVATID),
		Department:  cleanOptional(w.Department),
	}
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	if out.VendorName == "" {
		out.VendorName = DefaultVendor
	}

	for i, lw := range w.OrderLines {
		unitPrice, err := normalizeOptionalAmount(lw.UnitPrice, fmt.Sprintf("order_lines[%d].unit_price", i))
		if err != nil {
			return OfferExtraction{}, err
		}
		totalPrice, err := normalizeOptionalAmount(lw.TotalPrice, fmt.Sprintf("order_lines[%d].total_price", i))
		if err != nil {
			return OfferExtraction{}, err
		}
		quantity := lw.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		description := strings.TrimSpace(lw.Description)
		out.OrderLines = append(out.OrderLines, OrderLine{
			Product:     productOrFallback(lw.Product, description),
			Description: description,
			UnitPrice:   unitPrice,
			Quantity:    quantity,
			Unit:        cleanOptional(lw.Unit),
			TotalPrice:  totalPrice,
		})
	}

	totalCost, err := normalizeOptionalAmount(w.TotalCost, "total_cost")
	if err != nil {
		return OfferExtraction{}, err
	}
	out.TotalCost = totalCost
	return out, nil
}

// normalizeOptionalAmount defaults absent values to zero; present values must
// parse or the record fails.
func normalizeOptionalAmount(v any, field string) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := NormalizeAmount(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// productOrFallback keeps the engine's product label when present, otherwise
// borrows the first words of the description. Product is never empty.
func productOrFallback(product, description string) string {
	if p := strings.TrimSpace(product); p != "" {
		return p
	}
	words := strings.Fields(description)
	if len(words) == 0 {
		return DefaultProduct
	}
	if len(words) > productFallbackWords {
		words = words[:productFallbackWords]
	}
	return strings.Join(words, " ")
}

// cleanOptional maps empty strings to the explicit absent marker. An empty
// string never stands in for "unknown".
func cleanOptional(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
