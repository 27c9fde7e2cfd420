package toolgen

import (
	"encoding/json"

	"github.com/apibridge/openapi-toolgen/pkg/schema"
)

// Manifest returns the JSON-serializable form of the result. Tool input
// schemas and named types are rendered as JSON Schema fragments; references
// point into the top-level "definitions" block.
func (r *Result) Manifest() map[string]any {
	tools := make([]map[string]any, 0, len(r.Tools))
	for _, tool := range r.Tools {
		entry := map[string]any{
			"name":         tool.Name,
			"description":  tool.Description,
			"input_schema": schema.AsJSONSchema(tool.InputSchema),
			"binding":      tool.Binding,
		}
		if len(tool.Tags) > 0 {
			entry["tags"] = tool.Tags
		}
		if tool.Auth != nil {
			entry["auth"] = tool.Auth
		}
		tools = append(tools, entry)
	}

	definitions := make(map[string]any, len(r.Types))
	for _, nt := range r.Types {
		definitions[nt.Name] = schema.AsJSONSchema(nt.Type)
	}

	manifest := map[string]any{
		"build_id": r.BuildID,
		"title":    r.Title,
		"version":  r.Version,
		"base_url": r.BaseURL,
		"tools":    tools,
	}
	if len(definitions) > 0 {
		manifest["definitions"] = definitions
	}
	if len(r.Diagnostics) > 0 {
		manifest["diagnostics"] = r.Diagnostics
	}
	return manifest
}

// MarshalManifest renders the manifest as indented JSON.
func (r *Result) MarshalManifest() ([]byte, error) {
	return json.MarshalIndent(r.Manifest(), "", "  ")
}
