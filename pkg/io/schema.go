package io

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchemaURL = "https://procflow.dev/schemas/document.json"

// documentSchemaJSON describes a process document.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://procflow.dev/schemas/document.json",
  "type": "object",
  "required": ["rows"],
  "properties": {
    "rows": {
      "type": "array",
      "items": { "$ref": "#/$defs/row" }
    },
    "config": {
      "type": "object",
      "properties": {
        "mode": { "type": "string" },
        "transpose": { "type": "boolean" },
        "viewport": {
          "type": "object",
          "properties": {
            "width": { "type": "number", "minimum": 0 },
            "height": { "type": "number", "minimum": 0 }
          },
          "additionalProperties": false
        }
      },
      "additionalProperties": false
    },
    "limits": {
      "type": "object",
      "properties": {
        "row_limit": { "type": "integer", "minimum": 0 },
        "max_trellis_count": { "type": "integer", "minimum": 0 }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false,
  "$defs": {
    "row": {
      "type": "object",
      "required": ["Object Type"],
      "properties": {
        "Object Type": { "type": "string" }
      },
      "additionalProperties": {
        "type": ["string", "number", "boolean", "null"]
      }
    }
  }
}`

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal document schema: %w", err)
	}
	if err := c.AddResource(documentSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add document schema resource: %w", err)
	}
	return c.Compile(documentSchemaURL)
})
