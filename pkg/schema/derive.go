package schema

import (
	"github.com/apibridge/openapi-toolgen/pkg/resolver"
)

// Deriver maps resolved schema nodes to canonical type descriptors.
// Derivation is memoized by node instance, so a component schema shared
// between call sites yields one shared descriptor. State is scoped to a
// single run.
type Deriver struct {
	memo map[*resolver.ResolvedSchema]*TypeDescriptor
}

// NewDeriver creates a deriver for one generation run.
func NewDeriver() *Deriver {
	return &Deriver{memo: make(map[*resolver.ResolvedSchema]*TypeDescriptor)}
}

// Derive returns the TypeDescriptor for a resolved schema node. Deriving the
// same node twice returns the identical descriptor instance.
func (d *Deriver) Derive(rs *resolver.ResolvedSchema) (*TypeDescriptor, error) {
	if rs == nil {
		return nil, nil
	}
	if td, ok := d.memo[rs]; ok {
		return td, nil
	}
	td, err := d.derive(rs)
	if err != nil {
		return nil, err
	}
	d.memo[rs] = td
	return td, nil
}

func (d *Deriver) derive(rs *resolver.ResolvedSchema) (*TypeDescriptor, error) {
	if rs.IsPlaceholder() {
		return &TypeDescriptor{Kind: KindReference, Ref: rs.Ref}, nil
	}

	td, err := d.deriveShape(rs)
	if err != nil {
		return nil, err
	}
	if rs.Pointer != "" {
		td.Name = rs.Pointer.Name()
	}
	if td.Description == "" {
		td.Description = rs.Description
	}
	return td, nil
}

// deriveShape dispatches on the declared type, or infers the variant from
// the presence of composition/enum keywords when type is absent.
func (d *Deriver) deriveShape(rs *resolver.ResolvedSchema) (*TypeDescriptor, error) {
	switch {
	case len(rs.AllOf) > 0:
		return d.flattenAllOf(rs)
	case len(rs.OneOf) > 0:
		return d.deriveUnion(rs, rs.OneOf, "oneOf")
	case len(rs.AnyOf) > 0:
		return d.deriveUnion(rs, rs.AnyOf, "anyOf")
	case len(rs.Enum) > 0:
		return deriveEnum(rs), nil
	}

	switch rs.Type {
	case "string", "integer", "number", "boolean":
		return &TypeDescriptor{
			Kind:        KindPrimitive,
			Primitive:   rs.Type,
			Format:      rs.Format,
			Constraints: constraintsOf(rs),
		}, nil
	case "array":
		elem, err := d.Derive(rs.Items)
		if err != nil {
			return nil, err
		}
		return &TypeDescriptor{
			Kind:        KindArray,
			Elem:        elem,
			Constraints: constraintsOf(rs),
		}, nil
	default:
		// "object", and untyped schemas with or without properties. A
		// free-form schema becomes an object shape with no fields.
		return d.deriveObject(rs)
	}
}

func (d *Deriver) deriveObject(rs *resolver.ResolvedSchema) (*TypeDescriptor, error) {
	requiredSet := make(map[string]bool, len(rs.Required))
	for _, name := range rs.Required {
		requiredSet[name] = true
	}

	td := &TypeDescriptor{Kind: KindObject}
	for _, prop := range rs.Properties {
		fieldType, err := d.Derive(prop.Schema)
		if err != nil {
			return nil, err
		}
		td.Fields = append(td.Fields, FieldDescriptor{
			Name:        prop.Name,
			Type:        fieldType,
			Required:    requiredSet[prop.Name],
			Description: prop.Schema.Description,
			Constraints: fieldType.Constraints,
		})
	}
	return td, nil
}

func (d *Deriver) deriveUnion(rs *resolver.ResolvedSchema, branches []*resolver.ResolvedSchema, unionKind string) (*TypeDescriptor, error) {
	td := &TypeDescriptor{
		Kind:          KindUnion,
		UnionKind:     unionKind,
		Discriminator: rs.Discriminator,
	}
	for _, branch := range branches {
		variant, err := d.Derive(branch)
		if err != nil {
			return nil, err
		}
		td.Variants = append(td.Variants, variant)
	}
	return td, nil
}

// deriveEnum builds a closed union of literal values. The base kind comes
// from the declared type, falling back to the type of the first literal.
func deriveEnum(rs *resolver.ResolvedSchema) *TypeDescriptor {
	base := rs.Type
	if base == "" && len(rs.Enum) > 0 {
		switch rs.Enum[0].(type) {
		case string:
			base = "string"
		case bool:
			base = "boolean"
		case int, int64, uint64:
			base = "integer"
		case float32, float64:
			base = "number"
		}
	}
	return &TypeDescriptor{
		Kind:       KindEnum,
		EnumBase:   base,
		EnumValues: rs.Enum,
	}
}

func constraintsOf(rs *resolver.ResolvedSchema) Constraints {
	return Constraints{
		Minimum:   rs.Minimum,
		Maximum:   rs.Maximum,
		MinLength: rs.MinLength,
		MaxLength: rs.MaxLength,
		Pattern:   rs.Pattern,
		MinItems:  rs.MinItems,
		MaxItems:  rs.MaxItems,
	}
}
