package models

import (
	"time"
)

// APISpec represents the api_specs table structure. The raw document bytes
// are stored verbatim; credentials are never part of a stored record.
type APISpec struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Title       *string    `json:"title,omitempty" db:"title"`
	Version     *string    `json:"version,omitempty" db:"version"`
	SpecContent string     `json:"spec_content" db:"spec_content"`
	FileFormat  *string    `json:"file_format,omitempty" db:"file_format"`
	FileSize    *int       `json:"file_size,omitempty" db:"file_size"`
	IsActive    *bool      `json:"is_active,omitempty" db:"is_active"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TableName returns the table name for the APISpec model
func (APISpec) TableName() string {
	return "api_specs"
}

// NewAPISpec creates a new APISpec instance with default values
func NewAPISpec(name, specContent string) *APISpec {
	now := time.Now()
	active := true
	format := "yaml"

	return &APISpec{
		Name:        name,
		SpecContent: specContent,
		FileFormat:  &format,
		IsActive:    &active,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
}

// ToolManifest represents the tool_manifests table structure: one generated
// manifest per build, linked to the spec it was generated from.
type ToolManifest struct {
	ID        int        `json:"id" db:"id"`
	SpecID    int        `json:"spec_id" db:"spec_id"`
	BuildID   string     `json:"build_id" db:"build_id"`
	Content   string     `json:"content" db:"content"`
	ToolCount int        `json:"tool_count" db:"tool_count"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// TableName returns the table name for the ToolManifest model
func (ToolManifest) TableName() string {
	return "tool_manifests"
}
