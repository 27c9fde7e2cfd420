package resolver

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

// ResolvedSchema is a schema node with every $ref replaced by either the
// memoized ResolvedSchema it points to (shared, not copied) or, when the
// reference closes a cycle, a placeholder node whose Ref field names the
// target pointer and whose other fields are zero.
type ResolvedSchema struct {
	// Pointer names this node when it is a component schema; empty for
	// inline fragments.
	Pointer Pointer

	// Ref marks a cycle placeholder. When set, no other field is populated.
	Ref Pointer

	Type        string
	Format      string
	Description string

	Enum []any

	Properties []Property
	Required   []string

	Items *ResolvedSchema

	AllOf []*ResolvedSchema
	OneOf []*ResolvedSchema
	AnyOf []*ResolvedSchema

	// Discriminator is the declared discriminator propertyName, if any.
	Discriminator string

	Minimum   *float64
	Maximum   *float64
	MinLength *int64
	MaxLength *int64
	Pattern   string
	MinItems  *int64
	MaxItems  *int64
}

// Property is one named object property. Properties are kept in
// lexicographic name order so derivation output is deterministic.
type Property struct {
	Name   string
	Schema *ResolvedSchema
}

// IsPlaceholder reports whether the node is a cycle placeholder.
func (s *ResolvedSchema) IsPlaceholder() bool {
	return s.Ref != ""
}

// Resolver dereferences schema pointers within a single document. State is
// scoped to one resolution run; separate runs are fully independent.
type Resolver struct {
	schemas   map[string]map[string]any
	memo      map[Pointer]*ResolvedSchema
	resolving map[Pointer]bool
}

// New creates a resolver over the document's component schemas.
func New(doc *spec.Document) *Resolver {
	return &Resolver{
		schemas:   doc.Schemas,
		memo:      make(map[Pointer]*ResolvedSchema),
		resolving: make(map[Pointer]bool),
	}
}

// Resolve returns the ResolvedSchema for a pointer. Repeated calls for the
// same pointer return the identical instance. A pointer that is currently
// being resolved higher up the stack yields a cycle placeholder instead of
// recursing.
func (r *Resolver) Resolve(ptr Pointer) (*ResolvedSchema, error) {
	if rs, ok := r.memo[ptr]; ok {
		return rs, nil
	}
	if r.resolving[ptr] {
		return &ResolvedSchema{Ref: ptr}, nil
	}
	raw, ok := r.schemas[ptr.Name()]
	if !ok {
		return nil, spec.NewError(spec.ErrDanglingReference, "no such schema in components.schemas", string(ptr))
	}

	r.resolving[ptr] = true
	rs, err := r.ResolveFragment(raw)
	delete(r.resolving, ptr)
	if err != nil {
		return nil, err
	}

	// An alias schema (a bare $ref to another component) shares the target's
	// node; keep the target's own pointer in that case.
	if rs.Pointer == "" {
		rs.Pointer = ptr
	}
	r.memo[ptr] = rs
	return rs, nil
}

// ResolveFragment resolves an inline schema fragment (a parameter schema, a
// request-body schema) that is not itself addressable by a pointer. Nested
// $refs are resolved through the shared memo table.
func (r *Resolver) ResolveFragment(raw map[string]any) (*ResolvedSchema, error) {
	if ref := cast.ToString(raw["$ref"]); ref != "" {
		ptr, err := NormalizeRef(ref)
		if err != nil {
			return nil, err
		}
		return r.Resolve(ptr)
	}

	rs := &ResolvedSchema{
		Type:        cast.ToString(raw["type"]),
		Format:      cast.ToString(raw["format"]),
		Description: cast.ToString(raw["description"]),
		Pattern:     cast.ToString(raw["pattern"]),
		Required:    cast.ToStringSlice(raw["required"]),
	}

	if enum, err := cast.ToSliceE(raw["enum"]); err == nil {
		rs.Enum = enum
	}

	if props, err := cast.ToStringMapE(raw["properties"]); err == nil {
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fragment, err := cast.ToStringMapE(props[name])
			if err != nil {
				continue
			}
			nested, err := r.ResolveFragment(fragment)
			if err != nil {
				return nil, err
			}
			rs.Properties = append(rs.Properties, Property{Name: name, Schema: nested})
		}
	}

	if items, err := cast.ToStringMapE(raw["items"]); err == nil && len(items) > 0 {
		nested, err := r.ResolveFragment(items)
		if err != nil {
			return nil, err
		}
		rs.Items = nested
	}

	var err error
	if rs.AllOf, err = r.resolveBranches(raw["allOf"]); err != nil {
		return nil, err
	}
	if rs.OneOf, err = r.resolveBranches(raw["oneOf"]); err != nil {
		return nil, err
	}
	if rs.AnyOf, err = r.resolveBranches(raw["anyOf"]); err != nil {
		return nil, err
	}

	if disc, err := cast.ToStringMapE(raw["discriminator"]); err == nil {
		rs.Discriminator = cast.ToString(disc["propertyName"])
	}

	rs.Minimum = toFloatPtr(raw["minimum"])
	rs.Maximum = toFloatPtr(raw["maximum"])
	rs.MinLength = toIntPtr(raw["minLength"])
	rs.MaxLength = toIntPtr(raw["maxLength"])
	rs.MinItems = toIntPtr(raw["minItems"])
	rs.MaxItems = toIntPtr(raw["maxItems"])

	return rs, nil
}

// resolveBranches resolves an allOf/oneOf/anyOf branch list.
func (r *Resolver) resolveBranches(raw any) ([]*ResolvedSchema, error) {
	entries, err := cast.ToSliceE(raw)
	if err != nil || len(entries) == 0 {
		return nil, nil
	}
	branches := make([]*ResolvedSchema, 0, len(entries))
	for _, entry := range entries {
		fragment, err := cast.ToStringMapE(entry)
		if err != nil {
			continue
		}
		branch, err := r.ResolveFragment(fragment)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, nil
}

func toFloatPtr(raw any) *float64 {
	if raw == nil {
		return nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return &v
}

func toIntPtr(raw any) *int64 {
	if raw == nil {
		return nil
	}
	v, err := cast.ToInt64E(raw)
	if err != nil {
		return nil
	}
	return &v
}
