package export

// BuildOrderSummaryJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// for one final order summary, as a generic map. Final documents are
// validated against it before they are written: a violation here is a bug
// in the pipeline, not a data condition.
func BuildOrderSummaryJSONSchema() map[string]any {
	suggestion := map[string]any{
		"type":                 []string{"object", "null"},
		"additionalProperties": false,
		"properties": map[string]any{
			"suggested_qty":  map[string]any{"type": "integer", "minimum": 0},
			"suggested_name": map[string]any{"type": "string", "minLength": 1},
			"sku":            map[string]any{"type": "string"},
			"price":          map[string]any{"type": "number"},
			"moq":            map[string]any{"type": "integer", "minimum": 0},
			"available":      map[string]any{"type": "integer", "minimum": 0},
		},
	}

	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"sku":                   map[string]any{"type": "string"},
			"product_name":          map[string]any{"type": "string", "minLength": 1},
			"name":                  map[string]any{"type": "string", "minLength": 1},
			"quantity":              map[string]any{"type": "integer", "minimum": 1},
			"price":                 map[string]any{"type": "number"},
			"total":                 map[string]any{"type": "number"},
			"valid":                 map[string]any{"type": "boolean"},
			"issue":                 map[string]any{"type": []string{"string", "null"}},
			"suggested_alternative": suggestion,
		},
		"required": []string{"quantity", "valid", "issue", "suggested_alternative"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"customer":      map[string]any{"type": "string", "minLength": 1},
			"delivery_date": map[string]any{"type": "string", "pattern": `^(\d{4}-\d{2}-\d{2}|Unknown)$`},
			"address":       map[string]any{"type": "string"},
			"items":         map[string]any{"type": "array", "items": item},
			"total_amount":  map[string]any{"type": "number", "minimum": 0},
			"notes":         map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"customer", "delivery_date", "address", "items", "total_amount", "notes"},
	}
}
