package services

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/apibridge/openapi-toolgen/pkg/database"
	"github.com/apibridge/openapi-toolgen/pkg/models"
	"github.com/apibridge/openapi-toolgen/pkg/repository"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
	"github.com/apibridge/openapi-toolgen/pkg/toolgen"
)

// SpecStoreService handles storing API specs and their generated manifests
type SpecStoreService struct {
	specRepo     *repository.APISpecRepository
	manifestRepo *repository.ToolManifestRepository
	db           *sql.DB
}

// NewSpecStoreService creates a new spec store service
func NewSpecStoreService(db *sql.DB) *SpecStoreService {
	return &SpecStoreService{
		specRepo:     repository.NewAPISpecRepository(db),
		manifestRepo: repository.NewToolManifestRepository(db),
		db:           db,
	}
}

// ImportSpecFromFile imports a spec from a file into the database. Title and
// version are extracted from the parsed document metadata.
func (s *SpecStoreService) ImportSpecFromFile(filePath, name string) error {
	// Check if database is connected
	if database.DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	// Read file content
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read spec file: %v", err)
	}

	// Determine file format
	format := "yaml"
	if strings.HasSuffix(strings.ToLower(filePath), ".json") {
		format = "json"
	}

	// Parse the spec to extract title and version
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(content)
	if err != nil {
		return fmt.Errorf("failed to parse OpenAPI spec: %v", err)
	}

	var title, version *string
	if doc.Info != nil {
		if doc.Info.Title != "" {
			title = &doc.Info.Title
		}
		if doc.Info.Version != "" {
			version = &doc.Info.Version
		}
	}

	// Create new spec model
	record := models.NewAPISpec(name, string(content))
	record.Title = title
	record.Version = version
	record.FileFormat = &format
	fileSize := len(content)
	record.FileSize = &fileSize

	// Save to database
	_, err = s.specRepo.Create(record)
	if err != nil {
		return fmt.Errorf("failed to save spec to database: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Successfully imported spec '%s' to database\n", name)
	return nil
}

// GenerateForSpec loads a stored spec by name, runs the generation pipeline
// over it and returns the result alongside the stored record.
func (s *SpecStoreService) GenerateForSpec(name string, opts toolgen.Options) (*models.APISpec, *toolgen.Result, error) {
	record, err := s.specRepo.GetByName(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load spec by name: %v", err)
	}

	if record.IsActive != nil && !*record.IsActive {
		return nil, nil, fmt.Errorf("spec '%s' is not active", name)
	}

	doc, err := spec.Load([]byte(record.SpecContent))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse spec content: %v", err)
	}

	result, err := toolgen.BuildWithOptions(doc, opts)
	if err != nil {
		return nil, nil, err
	}
	return record, result, nil
}

// SaveManifest persists a generation result for a stored spec
func (s *SpecStoreService) SaveManifest(specID int, result *toolgen.Result) (*models.ToolManifest, error) {
	content, err := result.MarshalManifest()
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %v", err)
	}

	manifest := &models.ToolManifest{
		SpecID:    specID,
		BuildID:   result.BuildID,
		Content:   string(content),
		ToolCount: len(result.Tools),
	}
	return s.manifestRepo.Create(manifest)
}

// GetAllSpecs returns all specs from the database
func (s *SpecStoreService) GetAllSpecs() ([]*models.APISpec, error) {
	return s.specRepo.GetAll()
}

// LatestManifest returns the newest manifest stored for a spec
func (s *SpecStoreService) LatestManifest(specID int) (*models.ToolManifest, error) {
	return s.manifestRepo.GetLatestForSpec(specID)
}

// ActivateSpec activates a spec by ID
func (s *SpecStoreService) ActivateSpec(id int) error {
	return s.specRepo.SetActive(id, true)
}

// DeactivateSpec deactivates a spec by ID
func (s *SpecStoreService) DeactivateSpec(id int) error {
	return s.specRepo.SetActive(id, false)
}

// DeleteSpec deletes a spec by ID
func (s *SpecStoreService) DeleteSpec(id int) error {
	return s.specRepo.Delete(id)
}
