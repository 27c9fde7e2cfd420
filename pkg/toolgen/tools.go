package toolgen

import (
	"sort"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/apibridge/openapi-toolgen/pkg/schema"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

// requestBodyKey is the input-schema field the request body nests under when
// it cannot be inlined.
const requestBodyKey = "requestBody"

// BuildTools assembles one Tool per extracted operation: input schema, HTTP
// binding and auth policy. Operations whose path template disagrees with the
// declared path parameters, and operations left unauthenticated because no
// supported scheme matched their requirement, are flagged with diagnostics.
func BuildTools(doc *spec.Document, ops []Operation, schemes map[string]*SecurityScheme) ([]Tool, []Diagnostic, error) {
	var tools []Tool
	var diags []Diagnostic

	for _, op := range ops {
		input, inputDiags, err := buildInputSchema(op)
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, inputDiags...)

		binding, bindDiags := buildBinding(doc.BaseURL, op)
		diags = append(diags, bindDiags...)

		auth, unauthenticated := effectiveScheme(op, doc.Security, schemes)
		if unauthenticated {
			diags = append(diags, Diagnostic{
				Kind:    DiagMissingAuthDecoration,
				Subject: op.Name,
				Message: "operation requires authentication but no supported scheme matched; tool is emitted without auth",
			})
		}

		description := op.Description
		if description == "" {
			description = op.Summary
		}

		tools = append(tools, Tool{
			Name:        op.Name,
			Description: description,
			Tags:        op.Tags,
			InputSchema: input,
			Binding:     binding,
			Auth:        auth,
		})
	}
	return tools, diags, nil
}

// buildInputSchema flattens an operation's parameters and request body into a
// single object schema. With no parameters and an object-shaped body, the
// body's fields are inlined at the top level; otherwise the whole body nests
// under the "requestBody" field. A declared parameter already named
// "requestBody" in the nesting case is a fatal name collision. Parameters
// sharing a name across locations are legal in the source document but
// collapse to one input field; the first declaration wins and the rest are
// dropped with a diagnostic.
func buildInputSchema(op Operation) (*schema.TypeDescriptor, []Diagnostic, error) {
	input := &schema.TypeDescriptor{Kind: schema.KindObject}

	var diags []Diagnostic
	for _, param := range op.Parameters {
		if existing := input.FieldByName(param.Name); existing != nil {
			diags = append(diags, Diagnostic{
				Kind:    DiagIgnoredParameter,
				Subject: op.Name,
				Message: "parameter " + param.Name + " (" + param.In + ") shares its name with an earlier parameter; only the first is kept in the input schema",
			})
			continue
		}
		input.Fields = append(input.Fields, schema.FieldDescriptor{
			Name:        param.Name,
			Type:        param.Type,
			Required:    param.Required,
			Description: param.Description,
			Constraints: param.Type.Constraints,
		})
	}

	if op.RequestBody == nil {
		return input, diags, nil
	}

	if len(op.Parameters) == 0 && op.RequestBody.Kind == schema.KindObject {
		input.Fields = append(input.Fields, op.RequestBody.Fields...)
		if input.Description == "" {
			input.Description = op.RequestBody.Description
		}
		return input, diags, nil
	}

	if input.FieldByName(requestBodyKey) != nil {
		return nil, nil, spec.NewError(spec.ErrNameCollision,
			"parameter "+requestBodyKey+" collides with the nested request body field", op.Name)
	}
	input.Fields = append(input.Fields, schema.FieldDescriptor{
		Name:        requestBodyKey,
		Type:        op.RequestBody,
		Required:    op.RequestBodyRequired,
		Description: "The JSON request body.",
	})
	return input, diags, nil
}

// buildBinding maps declared parameters onto their request positions and
// cross-checks the path template's variables against the declared path
// parameters. OpenAPI path templates are plain {name} placeholders, a subset
// of RFC 6570 level 1.
func buildBinding(baseURL string, op Operation) (HTTPBinding, []Diagnostic) {
	binding := HTTPBinding{
		Method:  strings.ToUpper(op.Method),
		Path:    op.Path,
		BaseURL: baseURL,
	}

	declared := make(map[string]bool)
	for _, param := range op.Parameters {
		switch param.In {
		case "path":
			binding.PathParams = append(binding.PathParams, param.Name)
			declared[param.Name] = true
		case "query":
			binding.QueryParams = append(binding.QueryParams, param.Name)
		case "header":
			binding.HeaderParams = append(binding.HeaderParams, param.Name)
		}
	}

	var diags []Diagnostic
	tpl, err := uritemplate.New(op.Path)
	if err != nil {
		diags = append(diags, Diagnostic{
			Kind:    DiagPathTemplateMismatch,
			Subject: op.Name,
			Message: "path " + op.Path + " is not a valid URI template: " + err.Error(),
		})
		return binding, diags
	}

	templated := make(map[string]bool)
	for _, name := range tpl.Varnames() {
		templated[name] = true
		if !declared[name] {
			diags = append(diags, Diagnostic{
				Kind:    DiagPathTemplateMismatch,
				Subject: op.Name,
				Message: "path variable {" + name + "} has no matching path parameter declaration",
			})
		}
	}

	missing := make([]string, 0)
	for name := range declared {
		if !templated[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		diags = append(diags, Diagnostic{
			Kind:    DiagPathTemplateMismatch,
			Subject: op.Name,
			Message: "path parameter " + name + " does not appear in the path template",
		})
	}

	return binding, diags
}
