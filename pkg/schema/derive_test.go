package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apibridge/openapi-toolgen/pkg/resolver"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

func setup(t *testing.T, schemas string) (*resolver.Resolver, *Deriver) {
	t.Helper()
	doc, err := spec.Load([]byte(`
openapi: 3.0.0
info:
  title: T
  version: "1"
servers:
  - url: https://example.com
paths: {}
components:
  schemas:
` + schemas))
	require.NoError(t, err)
	return resolver.New(doc), NewDeriver()
}

func deriveNamed(t *testing.T, r *resolver.Resolver, d *Deriver, name string) *TypeDescriptor {
	t.Helper()
	rs, err := r.Resolve(resolver.PointerFor(name))
	require.NoError(t, err)
	td, err := d.Derive(rs)
	require.NoError(t, err)
	return td
}

func TestDerivePrimitive(t *testing.T) {
	r, d := setup(t, `
    Email:
      type: string
      format: email
      maxLength: 120
`)
	td := deriveNamed(t, r, d, "Email")

	require.Equal(t, KindPrimitive, td.Kind)
	require.Equal(t, "string", td.Primitive)
	require.Equal(t, "email", td.Format)
	require.Equal(t, "Email", td.Name)
	require.NotNil(t, td.Constraints.MaxLength)
	require.EqualValues(t, 120, *td.Constraints.MaxLength)
}

func TestDeriveEnum(t *testing.T) {
	r, d := setup(t, `
    Status:
      type: string
      enum: [pending, active, closed]
    Inferred:
      enum: [1, 2, 3]
`)

	status := deriveNamed(t, r, d, "Status")
	require.Equal(t, KindEnum, status.Kind)
	require.Equal(t, "string", status.EnumBase)
	require.Equal(t, []any{"pending", "active", "closed"}, status.EnumValues)

	inferred := deriveNamed(t, r, d, "Inferred")
	require.Equal(t, KindEnum, inferred.Kind)
	require.Equal(t, "integer", inferred.EnumBase)
}

func TestDeriveObjectRequired(t *testing.T) {
	r, d := setup(t, `
    User:
      type: object
      required: [name]
      properties:
        name:
          type: string
        age:
          type: integer
`)
	td := deriveNamed(t, r, d, "User")

	require.Equal(t, KindObject, td.Kind)
	require.Len(t, td.Fields, 2)

	name := td.FieldByName("name")
	require.NotNil(t, name)
	require.True(t, name.Required)

	age := td.FieldByName("age")
	require.NotNil(t, age)
	require.False(t, age.Required)
}

func TestDeriveArray(t *testing.T) {
	r, d := setup(t, `
    Tags:
      type: array
      minItems: 1
      items:
        type: string
`)
	td := deriveNamed(t, r, d, "Tags")

	require.Equal(t, KindArray, td.Kind)
	require.Equal(t, KindPrimitive, td.Elem.Kind)
	require.NotNil(t, td.Constraints.MinItems)
	require.EqualValues(t, 1, *td.Constraints.MinItems)
}

func TestDeriveFreeFormObject(t *testing.T) {
	r, d := setup(t, `
    Anything: {}
`)
	td := deriveNamed(t, r, d, "Anything")
	require.Equal(t, KindObject, td.Kind)
	require.Empty(t, td.Fields)
}

func TestDeriveSharedDescriptorIdentity(t *testing.T) {
	r, d := setup(t, `
    Address:
      type: object
      properties:
        street:
          type: string
    Order:
      type: object
      properties:
        billing:
          $ref: "#/components/schemas/Address"
        shipping:
          $ref: "#/components/schemas/Address"
`)
	order := deriveNamed(t, r, d, "Order")
	address := deriveNamed(t, r, d, "Address")

	// Both fields and the standalone derivation share one descriptor.
	require.Same(t, address, order.FieldByName("billing").Type)
	require.Same(t, address, order.FieldByName("shipping").Type)
}

func TestDeriveCycleBecomesReference(t *testing.T) {
	r, d := setup(t, `
    Category:
      type: object
      properties:
        name:
          type: string
        parent:
          $ref: "#/components/schemas/Category"
`)
	td := deriveNamed(t, r, d, "Category")

	parent := td.FieldByName("parent")
	require.NotNil(t, parent)
	require.Equal(t, KindReference, parent.Type.Kind)
	require.Equal(t, "Category", parent.Type.Ref.Name())
}

func TestDeriveUnion(t *testing.T) {
	r, d := setup(t, `
    Pet:
      oneOf:
        - $ref: "#/components/schemas/Cat"
        - $ref: "#/components/schemas/Dog"
      discriminator:
        propertyName: petType
    Cat:
      type: object
      properties:
        petType:
          type: string
    Dog:
      type: object
      properties:
        petType:
          type: string
    Loose:
      anyOf:
        - type: string
        - type: integer
`)

	pet := deriveNamed(t, r, d, "Pet")
	require.Equal(t, KindUnion, pet.Kind)
	require.Equal(t, "oneOf", pet.UnionKind)
	require.Equal(t, "petType", pet.Discriminator)
	require.Len(t, pet.Variants, 2)

	loose := deriveNamed(t, r, d, "Loose")
	require.Equal(t, KindUnion, loose.Kind)
	require.Equal(t, "anyOf", loose.UnionKind)
	require.Empty(t, loose.Discriminator)
}

func TestFlattenAllOf(t *testing.T) {
	r, d := setup(t, `
    Base:
      type: object
      required: [id]
      properties:
        id:
          type: string
        kind:
          type: string
    Extended:
      allOf:
        - $ref: "#/components/schemas/Base"
        - type: object
          required: [kind]
          properties:
            kind:
              type: string
              format: label
            extra:
              type: integer
`)
	td := deriveNamed(t, r, d, "Extended")

	require.Equal(t, KindObject, td.Kind)
	require.Len(t, td.Fields, 3)

	// Later branch wins the definition, requiredness is the union.
	kind := td.FieldByName("kind")
	require.NotNil(t, kind)
	require.Equal(t, "label", kind.Type.Format)
	require.True(t, kind.Required)

	require.True(t, td.FieldByName("id").Required)
	require.False(t, td.FieldByName("extra").Required)
}

func TestFlattenAllOfSiblingProperties(t *testing.T) {
	r, d := setup(t, `
    Base:
      type: object
      properties:
        id:
          type: string
    WithSibling:
      allOf:
        - $ref: "#/components/schemas/Base"
      properties:
        note:
          type: string
`)
	td := deriveNamed(t, r, d, "WithSibling")

	require.Len(t, td.Fields, 2)
	require.NotNil(t, td.FieldByName("id"))
	require.NotNil(t, td.FieldByName("note"))
}

func TestFlattenAllOfAssociative(t *testing.T) {
	r, d := setup(t, `
    A:
      type: object
      required: [id]
      properties:
        id:
          type: string
        kind:
          type: string
    B:
      type: object
      properties:
        kind:
          type: string
          format: label
        extra:
          type: integer
    C:
      type: object
      required: [extra]
      properties:
        extra:
          type: integer
        note:
          type: string
    Flat:
      allOf:
        - $ref: "#/components/schemas/A"
        - $ref: "#/components/schemas/B"
        - $ref: "#/components/schemas/C"
    Nested:
      allOf:
        - allOf:
            - $ref: "#/components/schemas/A"
            - $ref: "#/components/schemas/B"
        - $ref: "#/components/schemas/C"
`)
	flat := deriveNamed(t, r, d, "Flat")
	nested := deriveNamed(t, r, d, "Nested")

	// Merging [A, B] then C equals merging [A, B, C].
	require.Equal(t, AsJSONSchema(flat), AsJSONSchema(nested))

	for _, td := range []*TypeDescriptor{flat, nested} {
		require.Equal(t, KindObject, td.Kind)
		// Later branch wins the definition, requiredness is the union.
		require.Equal(t, "label", td.FieldByName("kind").Type.Format)
		require.True(t, td.FieldByName("id").Required)
		require.True(t, td.FieldByName("extra").Required)
		require.False(t, td.FieldByName("note").Required)
	}
}

func TestFlattenAllOfConflicts(t *testing.T) {
	tests := []struct {
		name    string
		schemas string
		target  string
	}{
		{
			name: "field kind conflict",
			schemas: `
    Bad:
      allOf:
        - type: object
          properties:
            value:
              type: string
        - type: object
          properties:
            value:
              type: integer
`,
			target: "Bad",
		},
		{
			name: "non-object branch",
			schemas: `
    Bad:
      allOf:
        - type: string
`,
			target: "Bad",
		},
		{
			name: "cyclic branch",
			schemas: `
    Bad:
      allOf:
        - $ref: "#/components/schemas/Bad"
`,
			target: "Bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := setup(t, tt.schemas)
			rs, err := r.Resolve(resolver.PointerFor(tt.target))
			require.NoError(t, err)
			_, err = d.Derive(rs)
			require.Error(t, err)
			require.True(t, spec.IsKind(err, spec.ErrIncompatibleComposition), "got %v", err)
		})
	}
}

func TestAsJSONSchema(t *testing.T) {
	r, d := setup(t, `
    User:
      type: object
      required: [name]
      properties:
        name:
          type: string
          minLength: 1
        friends:
          type: array
          items:
            $ref: "#/components/schemas/User"
`)
	td := deriveNamed(t, r, d, "User")
	js := AsJSONSchema(td)

	require.Equal(t, "object", js["type"])
	require.Equal(t, []string{"name"}, js["required"])

	props, ok := js["properties"].(map[string]any)
	require.True(t, ok)

	name, ok := props["name"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "string", name["type"])
	require.EqualValues(t, 1, name["minLength"])

	friends, ok := props["friends"].(map[string]any)
	require.True(t, ok)
	items, ok := friends["items"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "#/definitions/User", items["$ref"])
}
