package exercise

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

func str() map[string]any { return map[string]any{"type": "string"} }

func strArray() map[string]any {
	return map[string]any{"type": "array", "items": str()}
}

var optionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text":      map[string]any{"type": "string", "minLength": 1},
		"isCorrect": map[string]any{"type": "boolean"},
		"rationale": str(),
	},
	"required": []any{"text"},
}

var optionsSchema = map[string]any{
	"type":     "array",
	"minItems": 2,
	"items":    optionSchema,
}

// setSchema checks the envelope only; questions are checked one by one so
// a single malformed question does not reject the whole set.
var setSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":          str(),
		"title":       str(),
		"description": str(),
		"questions":   map[string]any{"type": "array"},
	},
	"required": []any{"questions"},
}

var kindSchemas = map[Kind]map[string]any{
	KindMultipleChoice: {
		"type": "object",
		"properties": map[string]any{
			"question":      str(),
			"answerOptions": optionsSchema,
		},
		"required": []any{"question", "answerOptions"},
	},
	KindTrueFalse: {
		"type": "object",
		"properties": map[string]any{
			"question":      str(),
			"answerOptions": optionsSchema,
			"answer":        map[string]any{"type": []any{"boolean", "string"}},
		},
		"required": []any{"question"},
		"anyOf": []any{
			map[string]any{"required": []any{"answerOptions"}},
			map[string]any{"required": []any{"answer"}},
		},
	},
	KindFillInBlanks: {
		"type": "object",
		"properties": map[string]any{
			"questionParts": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"anyOf": []any{
						str(),
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"answer":       map[string]any{"type": "string", "minLength": 1},
								"label":        str(),
								"alternatives": strArray(),
							},
							"required": []any{"answer"},
						},
					},
				},
			},
		},
		"required": []any{"questionParts"},
	},
	KindMatching: {
		"type": "object",
		"properties": map[string]any{
			"pairs": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"left":  str(),
						"right": str(),
						"text1": str(),
						"text2": str(),
					},
					"anyOf": []any{
						map[string]any{"required": []any{"left", "right"}},
						map[string]any{"required": []any{"text1", "text2"}},
					},
				},
			},
		},
		"required": []any{"pairs"},
	},
	KindOrdering: {
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{"type": "array", "minItems": 1, "items": str()},
			"correctOrder": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": []any{"string", "integer"}},
			},
		},
		"required": []any{"items", "correctOrder"},
	},
	KindShortAnswer: {
		"type": "object",
		"properties": map[string]any{
			"question":      str(),
			"correctAnswer": map[string]any{"type": "string", "minLength": 1},
			"alternatives":  strArray(),
		},
		"required": []any{"question", "correctAnswer"},
	},
	KindReadingComprehension: {
		"type": "object",
		"properties": map[string]any{
			"passage": map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string", "minLength": 1},
					map[string]any{"type": "array", "minItems": 1, "items": str()},
				},
			},
			"questions":     map[string]any{"type": "array", "minItems": 1},
			"answerOptions": optionsSchema,
		},
		"required": []any{"passage"},
		"anyOf": []any{
			map[string]any{"required": []any{"questions"}},
			map[string]any{"required": []any{"answerOptions"}},
		},
	},
}

var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateAgainst checks a parsed JSON value against the named schema.
func validateAgainst(name string, def map[string]any, v any) error {
	compiled, err := compiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}
	return compiled.Validate(v)
}

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON values, not Go-typed maps.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://exercise/%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
