package schema

// AsJSONSchema renders a descriptor as a JSON Schema fragment
// (map[string]any), the serialization handed to emitters and used for
// argument validation. NamedReference descriptors render as a $ref into
// "#/definitions/<name>"; callers embedding fragments with references are
// responsible for supplying the definitions block (see toolgen.ValidateArgs).
func AsJSONSchema(td *TypeDescriptor) map[string]any {
	if td == nil {
		return map[string]any{}
	}

	out := map[string]any{}
	if td.Description != "" {
		out["description"] = td.Description
	}

	switch td.Kind {
	case KindPrimitive:
		out["type"] = td.Primitive
		if td.Format != "" {
			out["format"] = td.Format
		}
	case KindEnum:
		if td.EnumBase != "" {
			out["type"] = td.EnumBase
		}
		out["enum"] = td.EnumValues
	case KindArray:
		out["type"] = "array"
		if td.Elem != nil {
			out["items"] = AsJSONSchema(td.Elem)
		}
	case KindObject:
		out["type"] = "object"
		if len(td.Fields) > 0 {
			properties := make(map[string]any, len(td.Fields))
			var required []string
			for _, field := range td.Fields {
				fieldSchema := AsJSONSchema(field.Type)
				if field.Description != "" {
					fieldSchema["description"] = field.Description
				}
				properties[field.Name] = fieldSchema
				if field.Required {
					required = append(required, field.Name)
				}
			}
			out["properties"] = properties
			if len(required) > 0 {
				out["required"] = required
			}
		}
	case KindUnion:
		variants := make([]any, 0, len(td.Variants))
		for _, variant := range td.Variants {
			variants = append(variants, AsJSONSchema(variant))
		}
		combinator := td.UnionKind
		if combinator == "" {
			combinator = "oneOf"
		}
		out[combinator] = variants
	case KindReference:
		// $ref must stand alone in draft-4 schemas.
		return map[string]any{"$ref": "#/definitions/" + td.Ref.Name()}
	}

	applyConstraints(out, td.Constraints)
	return out
}

func applyConstraints(out map[string]any, c Constraints) {
	if c.Minimum != nil {
		out["minimum"] = *c.Minimum
	}
	if c.Maximum != nil {
		out["maximum"] = *c.Maximum
	}
	if c.MinLength != nil {
		out["minLength"] = *c.MinLength
	}
	if c.MaxLength != nil {
		out["maxLength"] = *c.MaxLength
	}
	if c.Pattern != "" {
		out["pattern"] = c.Pattern
	}
	if c.MinItems != nil {
		out["minItems"] = *c.MinItems
	}
	if c.MaxItems != nil {
		out["maxItems"] = *c.MaxItems
	}
}
