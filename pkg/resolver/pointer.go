package resolver

import (
	"strings"

	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

const schemaPrefix = "#/components/schemas/"

// Pointer is a normalized reference into the document's schema components,
// e.g. "#/components/schemas/User". It is the memoization key of the
// resolver: every distinct Pointer resolves to exactly one ResolvedSchema
// instance per run.
type Pointer string

// NormalizeRef converts a raw $ref string into a Pointer. Only internal
// references into components.schemas are supported; anything else is a
// dangling reference.
func NormalizeRef(ref string) (Pointer, error) {
	name := strings.TrimPrefix(ref, schemaPrefix)
	if name == "" || name == ref {
		return "", spec.NewError(spec.ErrDanglingReference, "unsupported reference target", ref)
	}
	return Pointer(schemaPrefix + name), nil
}

// PointerFor returns the Pointer for a named component schema.
func PointerFor(name string) Pointer {
	return Pointer(schemaPrefix + name)
}

// Name returns the component schema name the pointer addresses.
func (p Pointer) Name() string {
	return strings.TrimPrefix(string(p), schemaPrefix)
}
