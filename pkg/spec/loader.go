package spec

import (
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Load parses raw OpenAPI document bytes (YAML or JSON; JSON is a subset of
// YAML) and extracts the sections the generation pipeline consumes.
//
// Load fails with ErrMalformedDocument when the bytes are not a structured
// document, ErrUnsupportedVersion when the declared openapi version major is
// not 3, and ErrMissingServer when servers[0].url is absent.
func Load(data []byte) (*Document, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, Wrap(err, ErrMalformedDocument, "failed to parse document")
	}
	if root == nil {
		return nil, NewError(ErrMalformedDocument, "document is empty", "")
	}

	version := cast.ToString(root["openapi"])
	if version == "" {
		return nil, NewError(ErrMalformedDocument, "missing openapi version field", "")
	}
	if major, _, _ := strings.Cut(version, "."); major != "3" {
		return nil, NewError(ErrUnsupportedVersion, "only OpenAPI 3.x is supported, got "+version, "openapi")
	}

	doc := &Document{OpenAPI: version}

	info := cast.ToStringMap(root["info"])
	doc.Title = cast.ToString(info["title"])
	doc.Version = cast.ToString(info["version"])
	doc.Description = cast.ToString(info["description"])

	doc.BaseURL = firstServerURL(root["servers"])
	if doc.BaseURL == "" {
		return nil, NewError(ErrMissingServer, "servers[0].url is required for HTTP bindings", "servers")
	}

	doc.Paths = extractSection(root["paths"])

	components := cast.ToStringMap(root["components"])
	doc.Schemas = extractSection(components["schemas"])
	doc.SecuritySchemes = extractSection(components["securitySchemes"])

	doc.Security = ParseSecurity(root["security"])

	return doc, nil
}

// firstServerURL returns servers[0].url, or "" when absent.
func firstServerURL(raw any) string {
	servers, err := cast.ToSliceE(raw)
	if err != nil || len(servers) == 0 {
		return ""
	}
	first := cast.ToStringMap(servers[0])
	return cast.ToString(first["url"])
}

// extractSection converts a raw top-level mapping into a name -> fragment map,
// skipping entries that are not mappings themselves.
func extractSection(raw any) map[string]map[string]any {
	section := cast.ToStringMap(raw)
	out := make(map[string]map[string]any, len(section))
	for name, fragment := range section {
		if m, err := cast.ToStringMapE(fragment); err == nil {
			out[name] = m
		}
	}
	return out
}

// ParseSecurity converts a raw security requirement list into typed form.
// Entries that are not mappings are dropped.
func ParseSecurity(raw any) []SecurityRequirement {
	entries, err := cast.ToSliceE(raw)
	if err != nil {
		return nil
	}
	var reqs []SecurityRequirement
	for _, entry := range entries {
		m, err := cast.ToStringMapE(entry)
		if err != nil {
			continue
		}
		req := make(SecurityRequirement, len(m))
		for name, scopes := range m {
			req[name] = cast.ToStringSlice(scopes)
		}
		reqs = append(reqs, req)
	}
	return reqs
}
