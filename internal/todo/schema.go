package todo

import (
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "todoneko://data.schema.json"

// SchemaJSON is the JSON Schema of the data file.
const SchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["todos", "lastEmotion"],
  "properties": {
    "todos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "done"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "done": {"type": "boolean"}
        }
      }
    },
    "lastEmotion": {"type": "string"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

func documentSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		schema = jsonschema.MustCompileString(schemaURL, SchemaJSON)
	})
	return schema
}
