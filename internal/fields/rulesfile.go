package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// rulesFile is the on-disk shape of a user-supplied rule table.
type rulesFile struct {
	Rules []ruleSpec `json:"rules"`
}

type ruleSpec struct {
	Field    Field    `json:"field"`
	Patterns []string `json:"patterns"`
}

// buildRulesJSONSchema returns the JSON-Schema for the rules file as a
// generic map, validated locally before any pattern compiles.
func buildRulesJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"rules"},
		"properties": map[string]any{
			"rules": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"field", "patterns"},
					"properties": map[string]any{
						"field": map[string]any{
							"type": "string",
							"enum": []string{
								string(FieldInvoiceNumber),
								string(FieldInvoiceDate),
								string(FieldVendor),
								string(FieldTotalAmount),
							},
						},
						"patterns": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items":    map[string]any{"type": "string", "minLength": 1},
						},
					},
				},
			},
		},
	}
}

// LoadRules reads, validates, and compiles a rules file. Every pattern
// must carry at least one capture group; the first group is the field
// value. Rule order in the file is the evaluation order.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	if err := validateRulesJSON(data); err != nil {
		return nil, err
	}

	var rf rulesFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("unmarshal rules file: %w", err)
	}

	var rules []Rule
	for _, spec := range rf.Rules {
		for _, pat := range spec.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q: %w", pat, err)
			}
			if re.NumSubexp() < 1 {
				return nil, fmt.Errorf("pattern %q has no capture group", pat)
			}
			rules = append(rules, Rule{Field: spec.Field, Pattern: re})
		}
	}
	return rules, nil
}

func validateRulesJSON(data []byte) error {
	b, err := json.Marshal(buildRulesJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal rules file: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("rules file does not match schema: %w", err)
	}
	return nil
}
