package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedMonetaryValue marks a monetary field that could not be parsed
// after cleaning. It fails the structural validation of the whole record.
var ErrMalformedMonetaryValue = errors.New("malformed monetary value")

var (
	currencySymbols = strings.NewReplacer("€", "", "$", "", "£", "")
	currencyCodes   = regexp.MustCompile(`(?i)\b(eur|usd|gbp|chf)\b`)
)

// NormalizeAmount turns a raw monetary value from the engine into a canonical
// decimal. Numeric inputs pass through as-is; strings are stripped of currency
// markers and run through the German-convention separator heuristic:
//
//	both "." and "," present -> "." is thousands, "," is decimal
//	only ","                 -> decimal separator
//	only "." or neither      -> already canonical
//
// Documents using comma-as-thousands / dot-as-decimal (US style) are parsed
// wrong on purpose; there is no locale detection.
func NormalizeAmount(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedMonetaryValue, t.String())
		}
		return d, nil
	case string:
		return normalizeAmountString(t)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedMonetaryValue, v)
	}
}

func normalizeAmountString(raw string) (decimal.Decimal, error) {
	s := currencySymbols.Replace(raw)
	s = currencyCodes.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedMonetaryValue, raw)
	}
	return d, nil
}
