package codec

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the file form.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(FileDocument))
	schema.Title = "Trackforge Map"
	schema.Description = "Map file written by trackforge export and accepted by trackforge import"
	return schema
}

// SchemaJSON returns Schema pretty-printed.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: cannot encode schema: %w", err)
	}
	return data, nil
}
