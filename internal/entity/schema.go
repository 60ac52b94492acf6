package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns the canonical record JSON-Schema
// (draft 2020-12 subset) as a generic map. The same shape is the output
// contract for every consumer of the engine.
func BuildRecordJSONSchema() map[string]any {
	party := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":      map[string]any{"type": "string"},
			"name":    map[string]any{"type": "string"},
			"address": map[string]any{"type": "string"},
		},
		"required": []string{"id", "name", "address"},
	}
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":       map[string]any{"type": "string", "minLength": 1},
			"quantity":   map[string]any{"type": "number"},
			"unit_price": map[string]any{"type": "number"},
			"amount":     map[string]any{"type": "number", "minimum": 0.0},
		},
		"required": []string{"name", "quantity", "unit_price", "amount"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_number": map[string]any{"type": "string", "pattern": `^([A-Z][A-D]\d{8})?$`},
			"invoice_date":   map[string]any{"type": "string", "pattern": `^(\d{4}/\d{2}/\d{2})?$`},
			"invoice_type":   map[string]any{"type": "string"},
			"seller":         party,
			"buyer":          party,
			"amounts": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"subtotal":   map[string]any{"type": "number"},
					"tax_rate":   map[string]any{"type": "number"},
					"tax_amount": map[string]any{"type": "number"},
					"total":      map[string]any{"type": "number"},
				},
				"required": []string{"subtotal", "tax_rate", "tax_amount", "total"},
			},
			"items":      map[string]any{"type": "array", "items": item},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{
			"invoice_number", "invoice_date", "invoice_type",
			"seller", "buyer", "amounts", "items", "confidence",
		},
	}
}

var recordSchema = mustCompileSchema(BuildRecordJSONSchema())

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// ValidateRecordJSON validates canonical record JSON against the schema.
func ValidateRecordJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := recordSchema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

// MarshalRecord emits the canonical JSON for an invoice after checking it
// against the schema.
func MarshalRecord(inv *Invoice) ([]byte, error) {
	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
	b, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := ValidateRecordJSON(b); err != nil {
		return nil, err
	}
	return b, nil
}
