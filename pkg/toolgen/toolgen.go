// Package toolgen transforms OpenAPI 3.x descriptions into a canonical tool
// model: one typed, callable Tool record per operation, plus the set of named
// type descriptors the tools reference.
//
// The package is the final stage of a single forward pass:
//
//	doc, err := spec.Load(data)
//	result, err := toolgen.Build(doc)
//
// The resulting model (tools, named types, diagnostics) is the sole artifact
// handed to an external code emitter; toolgen itself renders nothing beyond
// the JSON manifest form.
//
// Fatal conditions (dangling references, incompatible compositions, name
// collisions) abort the run with a *spec.Error naming the offending pointer
// or operation. Recoverable conditions (unsupported auth schemes, ignored
// media types, synthesized operation names) never abort; they are collected
// as Diagnostics on the Result for the caller to print or log.
package toolgen

import (
	"sort"

	"github.com/google/uuid"

	"github.com/apibridge/openapi-toolgen/pkg/resolver"
	"github.com/apibridge/openapi-toolgen/pkg/schema"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

// DefaultCredentialSource is the environment variable generated tools read
// their API key from when no override is configured.
const DefaultCredentialSource = "API_KEY"

// ParameterDescriptor is one operation parameter with its derived type.
type ParameterDescriptor struct {
	Name        string
	In          string // "path", "query" or "header"
	Required    bool
	Description string
	Type        *schema.TypeDescriptor
}

// Operation is one method+path combination extracted from the document.
type Operation struct {
	Name string
	// Synthesized is set when the name was derived from method+path because
	// the operation declared no operationId.
	Synthesized bool

	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string

	Parameters []ParameterDescriptor

	RequestBody         *schema.TypeDescriptor
	RequestBodyRequired bool

	// Response is the first 2xx application/json response schema, best
	// effort; nil when the operation declares none.
	Response *schema.TypeDescriptor

	// Security is the operation-level requirement list; only meaningful
	// when SecurityDeclared is set (an explicit empty list clears the
	// document-level requirement).
	Security         []spec.SecurityRequirement
	SecurityDeclared bool
}

// SecurityScheme is a bound request-decoration policy for an apiKey scheme.
// The credential itself is never part of the model; CredentialSource names
// the environment variable it is read from at call time.
type SecurityScheme struct {
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	In               string `json:"in"` // "header" or "query"
	FieldName        string `json:"field_name"`
	CredentialSource string `json:"credential_source"`
}

// HTTPBinding describes how a tool call maps onto an HTTP request: path
// parameters substitute their {name} placeholders, query parameters are
// appended, header parameters are set as headers.
type HTTPBinding struct {
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	BaseURL      string   `json:"base_url"`
	PathParams   []string `json:"path_params,omitempty"`
	QueryParams  []string `json:"query_params,omitempty"`
	HeaderParams []string `json:"header_params,omitempty"`
}

// Tool is one callable unit: a unique name, an input schema covering
// parameters and request body, the HTTP binding, and the auth policy.
type Tool struct {
	Name        string
	Description string
	Tags        []string
	InputSchema *schema.TypeDescriptor
	Binding     HTTPBinding
	Auth        *SecurityScheme
}

// NamedType is a type descriptor that requires a named declaration in
// emitted code: every top-level component schema, which also covers every
// cycle-reference target.
type NamedType struct {
	Name    string
	Pointer resolver.Pointer
	Type    *schema.TypeDescriptor
}

// DiagnosticKind classifies recoverable conditions encountered during a run.
type DiagnosticKind string

const (
	DiagSynthesizedName       DiagnosticKind = "synthesized_operation_name"
	DiagIgnoredMediaType      DiagnosticKind = "ignored_media_type"
	DiagIgnoredParameter      DiagnosticKind = "ignored_parameter"
	DiagUnsupportedAuthScheme DiagnosticKind = "unsupported_auth_scheme"
	DiagMissingAuthDecoration DiagnosticKind = "missing_auth_decoration"
	DiagPathTemplateMismatch  DiagnosticKind = "path_template_mismatch"
)

// Diagnostic is one recoverable condition, attached to the Result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
}

// Result is the complete generated model for one document.
type Result struct {
	BuildID string
	Title   string
	Version string
	BaseURL string

	Tools       []Tool
	Types       []NamedType
	Diagnostics []Diagnostic
}

// Options tunes a generation run.
type Options struct {
	// CredentialSource overrides the environment variable name bound as the
	// credential source of apiKey schemes. Defaults to DefaultCredentialSource.
	CredentialSource string
}

// Build runs the full pipeline over a loaded document with default options.
func Build(doc *spec.Document) (*Result, error) {
	return BuildWithOptions(doc, Options{})
}

// BuildWithOptions runs the full pipeline: resolve references, derive types,
// extract operations, bind auth schemes, and assemble the tool model. All
// state is scoped to this call; repeated calls over the same document are
// independent and produce structurally identical results apart from BuildID.
func BuildWithOptions(doc *spec.Document, opts Options) (*Result, error) {
	if opts.CredentialSource == "" {
		opts.CredentialSource = DefaultCredentialSource
	}

	res := resolver.New(doc)
	der := schema.NewDeriver()

	ops, diags, err := ExtractOperations(doc, res, der)
	if err != nil {
		return nil, err
	}

	schemes, authDiags := BindSecuritySchemes(doc, opts.CredentialSource)
	diags = append(diags, authDiags...)

	tools, toolDiags, err := BuildTools(doc, ops, schemes)
	if err != nil {
		return nil, err
	}
	diags = append(diags, toolDiags...)

	types, err := namedTypes(doc, res, der)
	if err != nil {
		return nil, err
	}

	return &Result{
		BuildID:     uuid.NewString(),
		Title:       doc.Title,
		Version:     doc.Version,
		BaseURL:     doc.BaseURL,
		Tools:       tools,
		Types:       types,
		Diagnostics: diags,
	}, nil
}

// namedTypes resolves and derives every top-level component schema, in name
// order. Cycle references always target a component schema, so this set also
// covers every NamedReference the tools contain.
func namedTypes(doc *spec.Document, res *resolver.Resolver, der *schema.Deriver) ([]NamedType, error) {
	names := make([]string, 0, len(doc.Schemas))
	for name := range doc.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var types []NamedType
	for _, name := range names {
		ptr := resolver.PointerFor(name)
		rs, err := res.Resolve(ptr)
		if err != nil {
			return nil, err
		}
		td, err := der.Derive(rs)
		if err != nil {
			return nil, err
		}
		types = append(types, NamedType{Name: name, Pointer: ptr, Type: td})
	}
	return types, nil
}
