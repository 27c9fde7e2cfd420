package schema

import (
	"github.com/apibridge/openapi-toolgen/pkg/resolver"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

// flattenAllOf merges every allOf branch into a single object shape. Each
// branch must derive to an object; a later branch may redefine a field of an
// earlier branch only when both definitions share a base kind, otherwise the
// merge fails with IncompatibleComposition. A field is required when any
// branch requires it. Sibling properties declared next to the allOf are
// merged last, as the final branch.
func (d *Deriver) flattenAllOf(rs *resolver.ResolvedSchema) (*TypeDescriptor, error) {
	merged := &TypeDescriptor{Kind: KindObject}

	branches := rs.AllOf
	if len(rs.Properties) > 0 {
		sibling := &resolver.ResolvedSchema{
			Type:       "object",
			Properties: rs.Properties,
			Required:   rs.Required,
		}
		branches = append(append([]*resolver.ResolvedSchema{}, rs.AllOf...), sibling)
	}

	for _, branch := range branches {
		btd, err := d.Derive(branch)
		if err != nil {
			return nil, err
		}
		if err := mergeInto(merged, btd, subjectOf(rs, branch)); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// mergeInto folds one branch's object shape into the accumulated shape.
func mergeInto(merged, branch *TypeDescriptor, subject string) error {
	if branch.Kind == KindReference {
		return spec.NewError(spec.ErrIncompatibleComposition,
			"cannot merge a cyclic reference into an allOf composition", subject)
	}
	if branch.Kind != KindObject {
		return spec.NewError(spec.ErrIncompatibleComposition,
			"allOf branch is not an object shape", subject)
	}

	for _, field := range branch.Fields {
		existing := merged.FieldByName(field.Name)
		if existing == nil {
			merged.Fields = append(merged.Fields, field)
			continue
		}
		if baseKind(existing.Type) != baseKind(field.Type) {
			return spec.NewError(spec.ErrIncompatibleComposition,
				"field "+field.Name+" redefined with a conflicting kind", subject)
		}
		required := existing.Required || field.Required
		*existing = field
		existing.Required = required
	}
	return nil
}

// subjectOf names the offending location for composition errors: the branch's
// own pointer when it is a component, otherwise the enclosing schema's.
func subjectOf(rs, branch *resolver.ResolvedSchema) string {
	if branch.Pointer != "" {
		return string(branch.Pointer)
	}
	if branch.Ref != "" {
		return string(branch.Ref)
	}
	return string(rs.Pointer)
}
