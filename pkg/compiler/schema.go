package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// irSchema is the IR's structural JSON schema, tightened just
// enough to catch structurally broken documents before they reach
// json.Unmarshal; type mistakes further in (e.g. a param holding the
// wrong shape) are the node executors' and Template Validator's concern.
const irSchema = `{
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "name": {"type": "string"},
    "inputs": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"type": "string"},
          "required": {"type": "boolean"},
          "stdin": {"type": "boolean"},
          "description": {"type": "string"}
        }
      }
    },
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "params": {"type": "object"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "action": {"type": "string"}
        }
      }
    },
    "outputs": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["source"],
        "properties": {
          "source": {"type": "string"}
        }
      }
    }
  }
}`

var irSchemaLoader = gojsonschema.NewStringLoader(irSchema)

// checkSchema validates raw IR bytes against irSchema before any attempt to
// unmarshal it into a types.Workflow.
func checkSchema(data []byte) error {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	result, err := gojsonschema.Validate(irSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, msgs)
	}
	return nil
}
