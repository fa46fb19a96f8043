package spec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/dataflows/flowgrid/pkg/errors"
)

// schemaJSON is the structural schema for specification documents,
// mirroring dataflows.io/system.json.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "dataflows.io/system.json",
  "type": "object",
  "required": ["specificationVersion", "title"],
  "properties": {
    "specificationVersion": { "type": "string" },
    "title": { "type": "string" },
    "hideSystems": { "type": "boolean" },
    "systems": { "type": "array", "items": { "$ref": "#/definitions/system" } },
    "links": { "type": "array", "items": { "$ref": "#/definitions/link" } },
    "flows": { "type": "array", "items": { "$ref": "#/definitions/flow" } }
  },
  "additionalProperties": false,
  "definitions": {
    "system": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "string", "pattern": "^[a-zA-Z0-9_-]+$" },
        "title": { "type": "string" },
        "hideSystems": { "type": "boolean" },
        "position": {
          "type": "object",
          "required": ["x", "y"],
          "properties": {
            "x": { "type": "integer" },
            "y": { "type": "integer" }
          },
          "additionalProperties": false
        },
        "systems": { "type": "array", "items": { "$ref": "#/definitions/system" } }
      },
      "additionalProperties": false
    },
    "link": {
      "type": "object",
      "required": ["a", "b"],
      "properties": {
        "a": { "type": "string" },
        "b": { "type": "string" }
      },
      "additionalProperties": false
    },
    "flow": {
      "type": "object",
      "required": ["steps"],
      "properties": {
        "steps": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["keyframe", "from", "to"],
            "properties": {
              "keyframe": { "type": "integer", "minimum": 0 },
              "from": { "type": "string" },
              "to": { "type": "string" },
              "links": { "type": "array", "items": { "type": "integer", "minimum": 0 } }
            },
            "additionalProperties": false
          }
        }
      },
      "additionalProperties": false
    }
  }
}`

// ValidateStructure checks a raw YAML/JSON document against the embedded
// schema. The document is decoded generically, re-encoded as JSON and fed
// to the schema validator, so YAML and JSON inputs share one code path.
func ValidateStructure(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed document")
	}
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidSpec, "empty document")
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "document is not JSON-representable")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "schema validation")
	}

	if !result.Valid() {
		var b strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s: %s", desc.Field(), desc.Description())
		}
		return errors.New(errors.ErrCodeInvalidSpec, "structural validation failed: %s", b.String())
	}
	return nil
}
