package extract

// BuildOfferJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the engine as a structured output constraint
// and also use it locally to validate the reply.
//
// The schema is deliberately forgiving: only order_lines is required, money
// fields accept strings or numbers (the normalizer owns the cleanup), and
// optionals are nullable. Defaulting for a degraded response happens during
// construction, not here.
func BuildOfferJSONSchema() map[string]any {
	props := map[string]any{
		"title":         map[string]any{"type": "string"},
		"vendor_name":   map[string]any{"type": "string"},
		"vendor_vat_id": nullableString(),
		"department":    nullableString(),
		"order_lines": map[string]any{
			"type":  "array",
			"items": orderLineSchema(),
		},
		"total_cost": moneyProp(),
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"order_lines"},
	}
}

func orderLineSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"product":     map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"unit_price":  moneyProp(),
			"amount":      map[string]any{"type": "integer"},
			"unit":        nullableString(),
			"total_price": moneyProp(),
		},
		"required": []string{"description"},
	}
}

// BuildCommodityJSONSchema constrains the classifier to a single three-digit
// commodity group id.
func BuildCommodityJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"commodity_group_id": map[string]any{
				"type":    "string",
				"pattern": `^\d{3}$`,
			},
		},
		"required": []string{"commodity_group_id"},
	}
}

// moneyProp accepts strings or numbers; the engine is told to emit plain
// decimals but European formats like "1.767,26" must survive validation so
// the normalizer can fix them.
func moneyProp() map[string]any {
	return map[string]any{"type": []string{"string", "number", "null"}}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}
