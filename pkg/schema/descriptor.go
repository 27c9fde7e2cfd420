package schema

import (
	"github.com/apibridge/openapi-toolgen/pkg/resolver"
)

// Kind tags the closed set of TypeDescriptor variants.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
	KindEnum      Kind = "enum"
	KindUnion     Kind = "union"
	KindReference Kind = "reference"
)

// Constraints carries the validation constraints a schema declares alongside
// its shape. Absent numeric bounds stay nil so zero values remain expressible.
type Constraints struct {
	Minimum   *float64
	Maximum   *float64
	MinLength *int64
	MaxLength *int64
	Pattern   string
	MinItems  *int64
	MaxItems  *int64
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.Minimum == nil && c.Maximum == nil &&
		c.MinLength == nil && c.MaxLength == nil &&
		c.MinItems == nil && c.MaxItems == nil &&
		c.Pattern == ""
}

// TypeDescriptor is the canonical, language-neutral representation of a
// schema's shape. Exactly one variant's fields are populated, selected by
// Kind. Descriptors are immutable after derivation and shared: two schemas
// referencing the same component receive the identical instance.
type TypeDescriptor struct {
	Kind Kind

	// Name is the component schema name when the descriptor was derived
	// from a named schema; empty for inline shapes.
	Name        string
	Description string

	// KindPrimitive
	Primitive string
	Format    string

	// KindArray
	Elem *TypeDescriptor

	// KindObject
	Fields []FieldDescriptor

	// KindEnum
	EnumBase   string
	EnumValues []any

	// KindUnion
	Variants      []*TypeDescriptor
	Discriminator string
	// UnionKind records the source combinator, "oneOf" or "anyOf".
	UnionKind string

	// KindReference
	Ref resolver.Pointer

	Constraints Constraints
}

// FieldDescriptor is one named field of an object shape.
type FieldDescriptor struct {
	Name        string
	Type        *TypeDescriptor
	Required    bool
	Description string
	Constraints Constraints
}

// FieldByName returns the field with the given name, or nil.
func (t *TypeDescriptor) FieldByName(name string) *FieldDescriptor {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// baseKind is the compatibility key used by the allOf override rule: a later
// branch may redefine a field only when both definitions share a base kind.
func baseKind(t *TypeDescriptor) string {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive
	case KindEnum:
		return t.EnumBase
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	case KindReference:
		return "reference:" + string(t.Ref)
	}
	return string(t.Kind)
}
