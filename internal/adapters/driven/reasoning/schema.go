package reasoning

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const responseSchemaURL = "doceval://schemas/compliance-response.json"

// responseSchemaJSON describes the verdict object the model must return.
// approval_status is a plain string here so an unknown value is reported
// by name rather than as an enum mismatch.
const responseSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["approval_status", "reason", "confidence_score"],
  "properties": {
    "approval_status": {"type": "string"},
    "reason": {"type": "string"},
    "confidence_score": {"type": "number", "minimum": 0, "maximum": 1},
    "rule_checks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["rule_name", "passed", "details", "confidence"],
        "properties": {
          "rule_name": {"type": "string"},
          "passed": {"type": "boolean"},
          "details": {"type": "string"},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

var responseSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(responseSchemaURL, strings.NewReader(responseSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile(responseSchemaURL)
}
