package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const toolSchemaBase = "https://gh-triage-mcp.local/tools/"

// compileInputSchema compiles the JSON Schema advertised for t.
func compileInputSchema(t mcp.Tool) (*jsonschema.Schema, error) {
	data := []byte(t.RawInputSchema)
	if len(data) == 0 {
		var err error
		if data, err = json.Marshal(t.InputSchema); err != nil {
			return nil, fmt.Errorf("encode input schema: %w", err)
		}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse input schema: %w", err)
	}

	location := toolSchemaBase + t.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(location, doc); err != nil {
		return nil, fmt.Errorf("add input schema: %w", err)
	}
	sch, err := c.Compile(location)
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	return sch, nil
}

// validateArguments checks call arguments against a compiled input schema.
// Values are round-tripped through JSON so Go numeric types validate the way
// they would arrive on the wire.
func validateArguments(sch *jsonschema.Schema, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
