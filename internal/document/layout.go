package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/einvoice-tools/extractor/internal/common"
)

// BuildLayoutJSONSchema returns the JSON-Schema (draft 2020-12 subset) for the
// decoded-layout interchange format produced by external byte-level decoders.
func BuildLayoutJSONSchema() map[string]any {
	cell := map[string]any{"type": []string{"string", "null"}}
	row := map[string]any{"type": "array", "items": cell}
	table := map[string]any{"type": "array", "items": row}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"pages":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tables": map[string]any{"type": "array", "items": table},
		},
		"required": []string{"pages"},
	}
}

var layoutSchema = mustCompileSchema(BuildLayoutJSONSchema())

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

type layoutPayload struct {
	Pages  []string     `json:"pages"`
	Tables [][][]string `json:"tables"`
}

// DecodeLayout validates and decodes a layout interchange document.
// Null cells decode to "".
func DecodeLayout(raw []byte) (*Document, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: layout decode: %v", common.ErrInvalidDocument, err)
	}
	if err := layoutSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: layout schema: %v", common.ErrInvalidDocument, err)
	}

	// Null cells are legal in the interchange format but decode to ""
	// for consumers; a second decode into typed slices handles that.
	var p layoutPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: layout decode: %v", common.ErrInvalidDocument, err)
	}

	pages := make([]string, len(p.Pages))
	for i, pg := range p.Pages {
		pages[i] = Normalize(pg)
	}
	tables := make([]Table, len(p.Tables))
	for i, t := range p.Tables {
		tables[i] = Table(t)
	}
	return New(pages, tables), nil
}
