package toolgen

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"

	"github.com/apibridge/openapi-toolgen/pkg/resolver"
	"github.com/apibridge/openapi-toolgen/pkg/schema"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

// methodOrder fixes the method walk order within a path item so extraction is
// deterministic across runs.
var methodOrder = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// ExtractOperations walks the document's path items in sorted path order and,
// within each item, in fixed method order, producing one Operation per
// method+path pair. Operation names are unique across the whole document:
// a name that would repeat gets a numeric suffix.
func ExtractOperations(doc *spec.Document, res *resolver.Resolver, der *schema.Deriver) ([]Operation, []Diagnostic, error) {
	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var ops []Operation
	var diags []Diagnostic
	used := make(map[string]bool)

	for _, path := range paths {
		item := doc.Paths[path]
		pathParams, pathDiags, err := extractParameters(item["parameters"], path, res, der)
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, pathDiags...)

		for _, method := range methodOrder {
			rawOp, err := cast.ToStringMapE(item[method])
			if err != nil {
				continue
			}
			op, opDiags, err := extractOperation(path, method, rawOp, pathParams, res, der)
			if err != nil {
				return nil, nil, err
			}
			diags = append(diags, opDiags...)

			name := uniqueName(op.Name, used)
			if op.Synthesized {
				diags = append(diags, Diagnostic{
					Kind:    DiagSynthesizedName,
					Subject: strings.ToUpper(method) + " " + path,
					Message: "operation has no operationId, synthesized name " + name,
				})
			}
			op.Name = name
			ops = append(ops, op)
		}
	}
	return ops, diags, nil
}

func extractOperation(path, method string, rawOp map[string]any, pathParams []ParameterDescriptor, res *resolver.Resolver, der *schema.Deriver) (Operation, []Diagnostic, error) {
	op := Operation{
		Method:      method,
		Path:        path,
		Summary:     cast.ToString(rawOp["summary"]),
		Description: cast.ToString(rawOp["description"]),
		Tags:        cast.ToStringSlice(rawOp["tags"]),
	}

	op.Name = cast.ToString(rawOp["operationId"])
	if op.Name == "" {
		op.Name = synthesizeName(method, path)
		op.Synthesized = true
	}

	opParams, diags, err := extractParameters(rawOp["parameters"], strings.ToUpper(method)+" "+path, res, der)
	if err != nil {
		return Operation{}, nil, err
	}
	op.Parameters = mergeParameters(pathParams, opParams)

	bodyDiags, err := extractRequestBody(&op, rawOp["requestBody"], res, der)
	if err != nil {
		return Operation{}, nil, err
	}
	diags = append(diags, bodyDiags...)

	if err := extractResponse(&op, rawOp["responses"], res, der); err != nil {
		return Operation{}, nil, err
	}

	if _, declared := rawOp["security"]; declared {
		op.SecurityDeclared = true
		op.Security = spec.ParseSecurity(rawOp["security"])
	}

	return op, diags, nil
}

// extractParameters converts a raw parameter list. Parameters in unsupported
// locations (cookie) and unresolvable entries are dropped with a diagnostic.
func extractParameters(raw any, subject string, res *resolver.Resolver, der *schema.Deriver) ([]ParameterDescriptor, []Diagnostic, error) {
	entries, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, nil, nil
	}

	var params []ParameterDescriptor
	var diags []Diagnostic
	for _, entry := range entries {
		rawParam, err := cast.ToStringMapE(entry)
		if err != nil {
			continue
		}
		if ref := cast.ToString(rawParam["$ref"]); ref != "" {
			diags = append(diags, Diagnostic{
				Kind:    DiagIgnoredParameter,
				Subject: subject,
				Message: "parameter references " + ref + "; component parameters are not dereferenced",
			})
			continue
		}

		name := cast.ToString(rawParam["name"])
		in := cast.ToString(rawParam["in"])
		switch in {
		case "path", "query", "header":
		default:
			diags = append(diags, Diagnostic{
				Kind:    DiagIgnoredParameter,
				Subject: subject,
				Message: "parameter " + name + " in unsupported location " + strconv.Quote(in),
			})
			continue
		}

		td, err := paramType(rawParam, res, der)
		if err != nil {
			return nil, nil, err
		}

		params = append(params, ParameterDescriptor{
			Name:        name,
			In:          in,
			Required:    in == "path" || cast.ToBool(rawParam["required"]),
			Description: cast.ToString(rawParam["description"]),
			Type:        td,
		})
	}
	return params, diags, nil
}

// paramType derives the parameter's schema, defaulting to a bare string when
// none is declared.
func paramType(rawParam map[string]any, res *resolver.Resolver, der *schema.Deriver) (*schema.TypeDescriptor, error) {
	fragment, err := cast.ToStringMapE(rawParam["schema"])
	if err != nil || len(fragment) == 0 {
		return &schema.TypeDescriptor{Kind: schema.KindPrimitive, Primitive: "string"}, nil
	}
	rs, err := res.ResolveFragment(fragment)
	if err != nil {
		return nil, err
	}
	return der.Derive(rs)
}

// mergeParameters combines path-item and operation parameters. An operation
// parameter with the same name and location replaces the path-item one in
// place; the rest are appended in declaration order.
func mergeParameters(pathParams, opParams []ParameterDescriptor) []ParameterDescriptor {
	merged := make([]ParameterDescriptor, len(pathParams))
	copy(merged, pathParams)

	for _, p := range opParams {
		replaced := false
		for i := range merged {
			if merged[i].Name == p.Name && merged[i].In == p.In {
				merged[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, p)
		}
	}
	return merged
}

// extractRequestBody derives the application/json request body schema. Other
// media types are skipped with a diagnostic each.
func extractRequestBody(op *Operation, raw any, res *resolver.Resolver, der *schema.Deriver) ([]Diagnostic, error) {
	rawBody, err := cast.ToStringMapE(raw)
	if err != nil || len(rawBody) == 0 {
		return nil, nil
	}
	content, err := cast.ToStringMapE(rawBody["content"])
	if err != nil {
		return nil, nil
	}

	mediaTypes := make([]string, 0, len(content))
	for mt := range content {
		mediaTypes = append(mediaTypes, mt)
	}
	sort.Strings(mediaTypes)

	var diags []Diagnostic
	for _, mt := range mediaTypes {
		if !isJSONMediaType(mt) {
			diags = append(diags, Diagnostic{
				Kind:    DiagIgnoredMediaType,
				Subject: strings.ToUpper(op.Method) + " " + op.Path,
				Message: "request body media type " + mt + " is not supported, only application/json",
			})
			continue
		}
		media, err := cast.ToStringMapE(content[mt])
		if err != nil {
			continue
		}
		fragment, err := cast.ToStringMapE(media["schema"])
		if err != nil || len(fragment) == 0 {
			continue
		}
		rs, err := res.ResolveFragment(fragment)
		if err != nil {
			return nil, err
		}
		td, err := der.Derive(rs)
		if err != nil {
			return nil, err
		}
		op.RequestBody = td
		op.RequestBodyRequired = cast.ToBool(rawBody["required"])
	}
	return diags, nil
}

// extractResponse picks the lowest 2xx response carrying an application/json
// schema, best effort. Operations without one keep a nil Response.
func extractResponse(op *Operation, raw any, res *resolver.Resolver, der *schema.Deriver) error {
	responses, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil
	}

	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if len(code) != 3 || code[0] != '2' {
			continue
		}
		response, err := cast.ToStringMapE(responses[code])
		if err != nil {
			continue
		}
		content, err := cast.ToStringMapE(response["content"])
		if err != nil {
			continue
		}
		for mt, rawMedia := range content {
			if !isJSONMediaType(mt) {
				continue
			}
			media, err := cast.ToStringMapE(rawMedia)
			if err != nil {
				continue
			}
			fragment, err := cast.ToStringMapE(media["schema"])
			if err != nil || len(fragment) == 0 {
				continue
			}
			rs, err := res.ResolveFragment(fragment)
			if err != nil {
				return err
			}
			td, err := der.Derive(rs)
			if err != nil {
				return err
			}
			op.Response = td
			return nil
		}
	}
	return nil
}

func isJSONMediaType(mt string) bool {
	base, _, _ := strings.Cut(mt, ";")
	return strings.TrimSpace(base) == "application/json"
}

// synthesizeName derives an operation name from method and path: the
// lowercased method followed by each static path segment in PascalCase, with
// template segments dropped. "get /users/{id}/posts" becomes "getUsersPosts".
func synthesizeName(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	wrote := false
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || strings.HasPrefix(segment, "{") {
			continue
		}
		b.WriteString(pascalCase(segment))
		wrote = true
	}
	if !wrote {
		b.WriteString("Root")
	}
	return b.String()
}

// pascalCase capitalizes each hyphen/underscore/dot separated word.
func pascalCase(segment string) string {
	words := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// uniqueName reserves the first unused variant of base, appending 2, 3, ...
// on collision.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for i := 2; used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	used[name] = true
	return name
}
