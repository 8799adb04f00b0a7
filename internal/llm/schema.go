package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseEnvelopeSchema constrains the chat-completions response before any
// field is trusted: at least one choice carrying a string content. Local LLM
// servers are loose about error bodies, so a schema check up front turns
// "panic on missing field" into a clean recognition error.
func responseEnvelopeSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"choices"},
		"properties": map[string]any{
			"choices": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"message"},
					"properties": map[string]any{
						"message": map[string]any{
							"type":     "object",
							"required": []string{"content"},
							"properties": map[string]any{
								"content": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
