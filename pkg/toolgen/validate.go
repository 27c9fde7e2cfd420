package toolgen

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/apibridge/openapi-toolgen/pkg/schema"
)

// ValidateArgs checks a prospective tool call's arguments against the tool's
// input schema. The result's named types are attached as a definitions block
// so reference descriptors inside the schema resolve. A non-nil error lists
// every violation.
func (r *Result) ValidateArgs(toolName string, args map[string]any) error {
	tool := r.Tool(toolName)
	if tool == nil {
		return fmt.Errorf("no such tool: %s", toolName)
	}

	doc := schema.AsJSONSchema(tool.InputSchema)
	if len(r.Types) > 0 {
		definitions := make(map[string]any, len(r.Types))
		for _, nt := range r.Types {
			definitions[nt.Name] = schema.AsJSONSchema(nt.Type)
		}
		doc["definitions"] = definitions
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(doc),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("validating arguments for %s: %w", toolName, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("invalid arguments for %s: %s", toolName, strings.Join(violations, "; "))
}

// Tool returns the tool with the given name, or nil.
func (r *Result) Tool(name string) *Tool {
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			return &r.Tools[i]
		}
	}
	return nil
}
