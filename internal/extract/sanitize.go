package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// NormalizeOfferJSON repairs near-miss engine output so the overall document
// can still validate:
//   - injects an empty order_lines array when the key is missing or null
//   - removes unknown keys (additionalProperties = false friendliness)
//   - drops empty/whitespace strings so construction-time defaults apply
//   - coerces string amounts ("2") to integers
//
// It only touches shape; monetary cleanup stays with the normalizer.
func NormalizeOfferJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	allowed := map[string]struct{}{
		"title": {}, "vendor_name": {}, "vendor_vat_id": {}, "department": {},
		"order_lines": {}, "total_cost": {},
	}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for _, k := range []string{"title", "vendor_name"} {
		if v, ok := m[k].(string); ok && strings.TrimSpace(v) == "" {
			delete(m, k)
			dropped = append(dropped, k+"(empty)")
		}
	}

	if v, ok := m["order_lines"]; !ok || v == nil {
		m["order_lines"] = []any{}
		dropped = append(dropped, "order_lines(defaulted)")
	}

	if lines, ok := m["order_lines"].([]any); ok {
		lineAllowed := map[string]struct{}{
			"product": {}, "description": {}, "unit_price": {},
			"amount": {}, "unit": {}, "total_price": {},
		}
		for i, lv := range lines {
			lm, ok := lv.(map[string]any)
			if !ok {
				continue
			}
			for k := range lm {
				if _, ok := lineAllowed[k]; !ok {
					delete(lm, k)
					dropped = append(dropped, fmt.Sprintf("order_lines[%d].%s(unknown)", i, k))
				}
			}
			if _, ok := lm["description"]; !ok {
				lm["description"] = ""
				dropped = append(dropped, fmt.Sprintf("order_lines[%d].description(defaulted)", i))
			}
			switch a := lm["amount"].(type) {
			case string:
				if n, err := strconv.Atoi(strings.TrimSpace(a)); err == nil {
					lm["amount"] = n
				} else {
					delete(lm, "amount")
					dropped = append(dropped, fmt.Sprintf("order_lines[%d].amount(unparseable)", i))
				}
			case float64:
				lm["amount"] = int(a)
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("extract.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
