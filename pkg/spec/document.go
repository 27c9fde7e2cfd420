package spec

// Document holds the extracted top-level sections of an OpenAPI 3.x
// description. The path, schema and security-scheme fragments are kept as the
// raw parsed tree; everything downstream of the resolver works on typed
// values only.
type Document struct {
	OpenAPI     string
	Title       string
	Version     string
	Description string

	// BaseURL is servers[0].url; required for HTTP bindings.
	BaseURL string

	// Paths maps a path template to its raw path item (methods plus
	// path-level parameters).
	Paths map[string]map[string]any

	// Schemas holds components.schemas, keyed by schema name.
	Schemas map[string]map[string]any

	// SecuritySchemes holds components.securitySchemes, keyed by scheme name.
	SecuritySchemes map[string]map[string]any

	// Security is the document-level security requirement list.
	Security []SecurityRequirement
}

// SecurityRequirement maps a security-scheme name to its required scopes.
// An operation satisfies a requirement by satisfying all named schemes.
type SecurityRequirement map[string][]string
