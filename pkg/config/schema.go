package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// configSchema is the JSON schema every plugin configuration file must
// satisfy before semantic validation runs. Structural typos (a string where
// a list belongs, a missing plugin name) fail here with a path-qualified
// error instead of a confusing unmarshal message.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["plugin"],
  "properties": {
    "plugin": {"type": "string", "minLength": 1},
    "basePath": {"type": "string"},
    "specFile": {"type": "string"},
    "system": {
      "type": "object",
      "properties": {
        "xmlNamespaces": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "resources": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "path": {"type": "string"},
          "method": {"type": "string"},
          "queryParams": {"type": "object", "additionalProperties": {"type": "string"}},
          "requestHeaders": {"type": "object", "additionalProperties": {"type": "string"}},
          "requestBody": {"$ref": "#/$defs/requestBody"},
          "allOf": {"type": "array", "items": {"$ref": "#/$defs/expression"}},
          "anyOf": {"type": "array", "items": {"$ref": "#/$defs/expression"}},
          "eval": {"type": "string"},
          "xmlNamespaces": {"type": "object", "additionalProperties": {"type": "string"}},
          "response": {"$ref": "#/$defs/response"}
        }
      }
    }
  },
  "$defs": {
    "bodyCondition": {
      "type": "object",
      "properties": {
        "jsonPath": {"type": "string"},
        "xPath": {"type": "string"},
        "xmlNamespaces": {"type": "object", "additionalProperties": {"type": "string"}},
        "value": {"type": "string"},
        "operator": {"type": "string"}
      }
    },
    "requestBody": {
      "type": "object",
      "properties": {
        "jsonPath": {"type": "string"},
        "xPath": {"type": "string"},
        "xmlNamespaces": {"type": "object", "additionalProperties": {"type": "string"}},
        "value": {"type": "string"},
        "operator": {"type": "string"},
        "allOf": {"type": "array", "items": {"$ref": "#/$defs/bodyCondition"}},
        "anyOf": {"type": "array", "items": {"$ref": "#/$defs/bodyCondition"}}
      }
    },
    "expression": {
      "type": "object",
      "required": ["expression"],
      "properties": {
        "expression": {"type": "string"},
        "value": {"type": "string"},
        "operator": {"type": "string"}
      }
    },
    "response": {
      "type": "object",
      "properties": {
        "statusCode": {"type": "integer", "minimum": 100, "maximum": 599},
        "headers": {"type": "object", "additionalProperties": {"type": "string"}},
        "content": {"type": "string"},
        "file": {"type": "string"},
        "template": {"type": "boolean"},
        "scriptFile": {"type": "string"},
        "delay": {
          "type": "object",
          "properties": {
            "exact": {"type": "integer", "minimum": 0},
            "min": {"type": "integer", "minimum": 0},
            "max": {"type": "integer", "minimum": 0}
          }
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("config.schema.json")
}

// ValidateSchema checks raw file content against the configuration schema.
// ext selects the decoder (".yaml"/".yml" vs JSON).
func ValidateSchema(data []byte, ext string) error {
	var doc any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		// Round-trip through JSON so numbers and maps carry the types the
		// schema validator expects.
		encoded, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(encoded, &doc); err != nil {
			return err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
	}

	if err := compiledSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s", ve.Error())
		}
		return err
	}
	return nil
}
