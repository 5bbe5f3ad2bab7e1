package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds one compiled validator per Schema. Schemas are package
// level values in their callers, so keying on the pointer is stable.
var compiled sync.Map // *Schema -> *jsonschema.Schema

// validateResponse checks raw against schema. A nil schema accepts
// anything; every failure is an *ErrInvalidResponse carrying raw.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(err error) error {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	reply, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(fmt.Errorf("reply is not JSON: %w", err))
	}
	v, err := compile(schema)
	if err != nil {
		return invalid(fmt.Errorf("schema %s: %w", schema.Name, err))
	}
	if err := v.Validate(reply); err != nil {
		return invalid(fmt.Errorf("reply does not match schema: %w", err))
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(schema); ok {
		return v.(*jsonschema.Schema), nil
	}

	// Definitions are Go literals (ints, []string); the compiler needs
	// decoded JSON values.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	url := "mem://llm/" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	v, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(schema, v)
	return v, nil
}
