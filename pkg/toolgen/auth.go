package toolgen

import (
	"sort"
	"strconv"

	"github.com/spf13/cast"

	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

// BindSecuritySchemes converts the document's declared security schemes into
// request-decoration policies. Only apiKey schemes in header or query are
// supported; every other declaration yields a diagnostic and no binding.
// credentialSource names the environment variable the key is read from at
// call time; the model never carries the credential itself.
func BindSecuritySchemes(doc *spec.Document, credentialSource string) (map[string]*SecurityScheme, []Diagnostic) {
	names := make([]string, 0, len(doc.SecuritySchemes))
	for name := range doc.SecuritySchemes {
		names = append(names, name)
	}
	sort.Strings(names)

	schemes := make(map[string]*SecurityScheme)
	var diags []Diagnostic
	for _, name := range names {
		raw := doc.SecuritySchemes[name]
		kind := cast.ToString(raw["type"])
		if kind != "apiKey" {
			diags = append(diags, Diagnostic{
				Kind:    DiagUnsupportedAuthScheme,
				Subject: name,
				Message: "security scheme type " + strconv.Quote(kind) + " is not supported, only apiKey",
			})
			continue
		}
		in := cast.ToString(raw["in"])
		if in != "header" && in != "query" {
			diags = append(diags, Diagnostic{
				Kind:    DiagUnsupportedAuthScheme,
				Subject: name,
				Message: "apiKey location " + strconv.Quote(in) + " is not supported, only header and query",
			})
			continue
		}
		schemes[name] = &SecurityScheme{
			Name:             name,
			Kind:             kind,
			In:               in,
			FieldName:        cast.ToString(raw["name"]),
			CredentialSource: credentialSource,
		}
	}
	return schemes, diags
}

// effectiveScheme selects the auth policy for one operation. The operation's
// own security list, when declared, overrides the document-level one (an
// explicit empty list clears it). Within a requirement, scheme names are
// tried in sorted order and the first supported one wins. The second return
// is true when the operation requires auth but no declared scheme is
// supported, in which case the tool goes out unauthenticated.
func effectiveScheme(op Operation, docSecurity []spec.SecurityRequirement, schemes map[string]*SecurityScheme) (*SecurityScheme, bool) {
	reqs := docSecurity
	if op.SecurityDeclared {
		reqs = op.Security
	}
	if len(reqs) == 0 {
		return nil, false
	}

	for _, req := range reqs {
		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if scheme, ok := schemes[name]; ok {
				return scheme, false
			}
		}
	}
	return nil, true
}
