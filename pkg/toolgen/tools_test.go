package toolgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apibridge/openapi-toolgen/pkg/schema"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
)

func build(t *testing.T, body string) *Result {
	t.Helper()
	doc := loadDoc(t, body)
	result, err := Build(doc)
	require.NoError(t, err)
	return result
}

func TestBuildInlinesBodyOnlyObject(t *testing.T) {
	result := build(t, header+`
paths:
  /users:
    post:
      operationId: createUser
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/CreateUserRequest"
      responses: {"201": {description: Created}}
components:
  schemas:
    CreateUserRequest:
      type: object
      required: [name, email]
      properties:
        name:
          type: string
        email:
          type: string
`)
	tool := result.Tool("createUser")
	require.NotNil(t, tool)

	// The body object's fields surface directly as tool arguments.
	input := tool.InputSchema
	require.Equal(t, schema.KindObject, input.Kind)
	require.NotNil(t, input.FieldByName("name"))
	require.NotNil(t, input.FieldByName("email"))
	require.Nil(t, input.FieldByName(requestBodyKey))
	require.True(t, input.FieldByName("name").Required)
}

func TestBuildNestsBodyNextToParameters(t *testing.T) {
	result := build(t, header+`
paths:
  /users/{id}:
    put:
      operationId: updateUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              properties:
                name:
                  type: string
      responses: {"204": {description: No Content}}
`)
	tool := result.Tool("updateUser")
	require.NotNil(t, tool)

	input := tool.InputSchema
	require.NotNil(t, input.FieldByName("id"))
	require.Nil(t, input.FieldByName("name"))

	body := input.FieldByName(requestBodyKey)
	require.NotNil(t, body)
	require.True(t, body.Required)
	require.Equal(t, schema.KindObject, body.Type.Kind)
}

func TestBuildNestsNonObjectBody(t *testing.T) {
	result := build(t, header+`
paths:
  /batch:
    post:
      operationId: createBatch
      requestBody:
        content:
          application/json:
            schema:
              type: array
              items:
                type: string
      responses: {"204": {description: No Content}}
`)
	tool := result.Tool("createBatch")
	require.NotNil(t, tool)

	body := tool.InputSchema.FieldByName(requestBodyKey)
	require.NotNil(t, body)
	require.Equal(t, schema.KindArray, body.Type.Kind)
}

func TestBuildDuplicateParameterNameCollapses(t *testing.T) {
	result := build(t, header+`
paths:
  /items/{id}:
    get:
      operationId: getItem
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
        - name: id
          in: query
          schema:
            type: integer
      responses: {"204": {description: No Content}}
`)
	tool := result.Tool("getItem")
	require.NotNil(t, tool)

	// One field survives, the path declaration, and the collision is surfaced.
	fields := 0
	for _, f := range tool.InputSchema.Fields {
		if f.Name == "id" {
			fields++
		}
	}
	require.Equal(t, 1, fields)
	require.Equal(t, "string", tool.InputSchema.FieldByName("id").Type.Primitive)

	collisions := diagnosticsOfKind(result.Diagnostics, DiagIgnoredParameter)
	require.Len(t, collisions, 1)
	require.Contains(t, collisions[0].Message, "id")
}

func TestBuildRequestBodyNameCollision(t *testing.T) {
	doc := loadDoc(t, header+`
paths:
  /odd:
    post:
      operationId: postOdd
      parameters:
        - name: requestBody
          in: query
          schema:
            type: string
      requestBody:
        content:
          application/json:
            schema:
              type: object
      responses: {"204": {description: No Content}}
`)
	_, err := Build(doc)
	require.Error(t, err)
	require.True(t, spec.IsKind(err, spec.ErrNameCollision), "got %v", err)
}

func TestBuildBinding(t *testing.T) {
	result := build(t, header+`
paths:
  /users/{id}:
    get:
      operationId: getUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
        - name: expand
          in: query
          schema:
            type: string
        - name: X-Trace
          in: header
          schema:
            type: string
      responses: {"204": {description: No Content}}
`)
	tool := result.Tool("getUser")
	require.NotNil(t, tool)

	require.Equal(t, "GET", tool.Binding.Method)
	require.Equal(t, "/users/{id}", tool.Binding.Path)
	require.Equal(t, "https://example.com", tool.Binding.BaseURL)
	require.Equal(t, []string{"id"}, tool.Binding.PathParams)
	require.Equal(t, []string{"expand"}, tool.Binding.QueryParams)
	require.Equal(t, []string{"X-Trace"}, tool.Binding.HeaderParams)
	require.Empty(t, diagnosticsOfKind(result.Diagnostics, DiagPathTemplateMismatch))
}

func TestBuildPathTemplateMismatch(t *testing.T) {
	result := build(t, header+`
paths:
  /users/{id}:
    get:
      operationId: getUser
      responses: {"204": {description: No Content}}
`)
	mismatches := diagnosticsOfKind(result.Diagnostics, DiagPathTemplateMismatch)
	require.Len(t, mismatches, 1)
	require.Contains(t, mismatches[0].Message, "{id}")
}

func TestBuildAuthBinding(t *testing.T) {
	result := build(t, header+`
security:
  - ApiKeyAuth: []
paths:
  /items:
    get:
      operationId: listItems
      responses: {"204": {description: No Content}}
  /public:
    get:
      operationId: getPublic
      security: []
      responses: {"204": {description: No Content}}
components:
  securitySchemes:
    ApiKeyAuth:
      type: apiKey
      in: header
      name: X-API-Key
`)
	locked := result.Tool("listItems")
	require.NotNil(t, locked.Auth)
	require.Equal(t, "apiKey", locked.Auth.Kind)
	require.Equal(t, "header", locked.Auth.In)
	require.Equal(t, "X-API-Key", locked.Auth.FieldName)
	require.Equal(t, DefaultCredentialSource, locked.Auth.CredentialSource)

	open := result.Tool("getPublic")
	require.Nil(t, open.Auth)
	require.Empty(t, diagnosticsOfKind(result.Diagnostics, DiagMissingAuthDecoration))
}

func TestBuildCredentialSourceOverride(t *testing.T) {
	doc := loadDoc(t, header+`
security:
  - ApiKeyAuth: []
paths:
  /items:
    get:
      operationId: listItems
      responses: {"204": {description: No Content}}
components:
  securitySchemes:
    ApiKeyAuth:
      type: apiKey
      in: query
      name: api_key
`)
	result, err := BuildWithOptions(doc, Options{CredentialSource: "ACME_KEY"})
	require.NoError(t, err)

	tool := result.Tool("listItems")
	require.NotNil(t, tool.Auth)
	require.Equal(t, "query", tool.Auth.In)
	require.Equal(t, "ACME_KEY", tool.Auth.CredentialSource)
}

func TestBuildUnsupportedSchemeFlagsTool(t *testing.T) {
	result := build(t, header+`
security:
  - BearerAuth: []
paths:
  /items:
    get:
      operationId: listItems
      responses: {"204": {description: No Content}}
components:
  securitySchemes:
    BearerAuth:
      type: http
      scheme: bearer
`)
	tool := result.Tool("listItems")
	require.Nil(t, tool.Auth)

	require.Len(t, diagnosticsOfKind(result.Diagnostics, DiagUnsupportedAuthScheme), 1)
	require.Len(t, diagnosticsOfKind(result.Diagnostics, DiagMissingAuthDecoration), 1)
}

func TestBuildCookieApiKeyUnsupported(t *testing.T) {
	result := build(t, header+`
paths:
  /items:
    get:
      operationId: listItems
      responses: {"204": {description: No Content}}
components:
  securitySchemes:
    CookieAuth:
      type: apiKey
      in: cookie
      name: session
`)
	require.Len(t, diagnosticsOfKind(result.Diagnostics, DiagUnsupportedAuthScheme), 1)
}

func TestBuildNamedTypesCoverCycles(t *testing.T) {
	result := build(t, header+`
paths:
  /categories:
    get:
      operationId: listCategories
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Category"
components:
  schemas:
    Category:
      type: object
      properties:
        name:
          type: string
        parent:
          $ref: "#/components/schemas/Category"
`)
	require.Len(t, result.Types, 1)
	require.Equal(t, "Category", result.Types[0].Name)

	parent := result.Types[0].Type.FieldByName("parent")
	require.NotNil(t, parent)
	require.Equal(t, schema.KindReference, parent.Type.Kind)
}

func TestBuildSharedDescriptorAcrossOperations(t *testing.T) {
	result := build(t, header+`
paths:
  /users:
    post:
      operationId: createUser
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/User"
      responses: {"201": {description: Created}}
  /admins:
    post:
      operationId: createAdmin
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/User"
      responses: {"201": {description: Created}}
components:
  schemas:
    User:
      type: object
      properties:
        name:
          type: string
`)
	user := result.Tool("createUser").InputSchema.FieldByName("name")
	admin := result.Tool("createAdmin").InputSchema.FieldByName("name")
	require.Same(t, user.Type, admin.Type)
}

func TestValidateArgs(t *testing.T) {
	result := build(t, header+`
paths:
  /users:
    post:
      operationId: createUser
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/CreateUserRequest"
      responses: {"201": {description: Created}}
components:
  schemas:
    CreateUserRequest:
      type: object
      required: [name]
      properties:
        name:
          type: string
          minLength: 1
        age:
          type: integer
`)

	require.NoError(t, result.ValidateArgs("createUser", map[string]any{
		"name": "Ada",
		"age":  36,
	}))

	err := result.ValidateArgs("createUser", map[string]any{"age": "not a number"})
	require.Error(t, err)

	err = result.ValidateArgs("noSuchTool", map[string]any{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no such tool")
}

func TestManifestShape(t *testing.T) {
	result := build(t, header+`
paths:
  /items:
    get:
      operationId: listItems
      tags: [items]
      responses: {"204": {description: No Content}}
components:
  schemas:
    Item:
      type: object
`)
	manifest := result.Manifest()

	require.Equal(t, result.BuildID, manifest["build_id"])
	require.Equal(t, "https://example.com", manifest["base_url"])

	tools, ok := manifest["tools"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	require.Equal(t, "listItems", tools[0]["name"])

	definitions, ok := manifest["definitions"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, definitions, "Item")
}
