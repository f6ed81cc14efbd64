package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SummaryValidator holds the compiled order-summary schema so a batch can
// validate every document without recompiling.
type SummaryValidator struct {
	schema *jsonschema.Schema
}

func NewSummaryValidator() (*SummaryValidator, error) {
	schema, err := compileSchema(BuildOrderSummaryJSONSchema())
	if err != nil {
		return nil, err
	}
	return &SummaryValidator{schema: schema}, nil
}

// Validate checks one marshaled order summary against the schema.
func (sv *SummaryValidator) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := sv.schema.Validate(v); err != nil {
		return fmt.Errorf("summary does not match schema: %w", err)
	}
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
