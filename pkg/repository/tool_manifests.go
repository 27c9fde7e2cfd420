package repository

import (
	"database/sql"
	"fmt"

	"github.com/apibridge/openapi-toolgen/pkg/models"
)

// ToolManifestRepository handles database operations for generated manifests
type ToolManifestRepository struct {
	db *sql.DB
}

// NewToolManifestRepository creates a new repository instance
func NewToolManifestRepository(db *sql.DB) *ToolManifestRepository {
	return &ToolManifestRepository{db: db}
}

// Create inserts a new manifest record
func (r *ToolManifestRepository) Create(manifest *models.ToolManifest) (*models.ToolManifest, error) {
	query := `
		INSERT INTO tool_manifests (spec_id, build_id, content, tool_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		manifest.SpecID,
		manifest.BuildID,
		manifest.Content,
		manifest.ToolCount,
	).Scan(&manifest.ID, &manifest.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create tool manifest: %v", err)
	}

	return manifest, nil
}

// GetByBuildID retrieves a manifest by its build ID
func (r *ToolManifestRepository) GetByBuildID(buildID string) (*models.ToolManifest, error) {
	query := `
		SELECT id, spec_id, build_id, content, tool_count, created_at
		FROM tool_manifests
		WHERE build_id = $1
	`

	manifest := &models.ToolManifest{}
	err := r.db.QueryRow(query, buildID).Scan(
		&manifest.ID,
		&manifest.SpecID,
		&manifest.BuildID,
		&manifest.Content,
		&manifest.ToolCount,
		&manifest.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tool manifest with build id %s not found", buildID)
		}
		return nil, fmt.Errorf("failed to get tool manifest: %v", err)
	}

	return manifest, nil
}

// GetLatestForSpec retrieves the most recent manifest generated for a spec
func (r *ToolManifestRepository) GetLatestForSpec(specID int) (*models.ToolManifest, error) {
	query := `
		SELECT id, spec_id, build_id, content, tool_count, created_at
		FROM tool_manifests
		WHERE spec_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	manifest := &models.ToolManifest{}
	err := r.db.QueryRow(query, specID).Scan(
		&manifest.ID,
		&manifest.SpecID,
		&manifest.BuildID,
		&manifest.Content,
		&manifest.ToolCount,
		&manifest.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no tool manifest found for spec %d", specID)
		}
		return nil, fmt.Errorf("failed to get tool manifest: %v", err)
	}

	return manifest, nil
}

// ListForSpec retrieves all manifests generated for a spec, newest first
func (r *ToolManifestRepository) ListForSpec(specID int) ([]*models.ToolManifest, error) {
	query := `
		SELECT id, spec_id, build_id, content, tool_count, created_at
		FROM tool_manifests
		WHERE spec_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, specID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tool manifests: %v", err)
	}
	defer rows.Close()

	var manifests []*models.ToolManifest
	for rows.Next() {
		manifest := &models.ToolManifest{}
		err := rows.Scan(
			&manifest.ID,
			&manifest.SpecID,
			&manifest.BuildID,
			&manifest.Content,
			&manifest.ToolCount,
			&manifest.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tool manifest: %v", err)
		}
		manifests = append(manifests, manifest)
	}

	return manifests, nil
}
