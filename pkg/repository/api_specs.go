package repository

import (
	"database/sql"
	"fmt"

	"github.com/apibridge/openapi-toolgen/pkg/models"
)

// APISpecRepository handles database operations for stored API specs
type APISpecRepository struct {
	db *sql.DB
}

// NewAPISpecRepository creates a new repository instance
func NewAPISpecRepository(db *sql.DB) *APISpecRepository {
	return &APISpecRepository{db: db}
}

// Create inserts a new API spec into the database
func (r *APISpecRepository) Create(spec *models.APISpec) (*models.APISpec, error) {
	query := `
		INSERT INTO api_specs (name, title, version, spec_content, file_format, file_size, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		spec.Name,
		spec.Title,
		spec.Version,
		spec.SpecContent,
		spec.FileFormat,
		spec.FileSize,
		spec.IsActive,
	).Scan(&spec.ID, &spec.CreatedAt, &spec.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create api spec: %v", err)
	}

	return spec, nil
}

// GetByID retrieves an API spec by its ID
func (r *APISpecRepository) GetByID(id int) (*models.APISpec, error) {
	query := `
		SELECT id, name, title, version, spec_content, file_format, file_size, is_active, created_at, updated_at
		FROM api_specs
		WHERE id = $1
	`

	spec := &models.APISpec{}
	err := r.db.QueryRow(query, id).Scan(
		&spec.ID,
		&spec.Name,
		&spec.Title,
		&spec.Version,
		&spec.SpecContent,
		&spec.FileFormat,
		&spec.FileSize,
		&spec.IsActive,
		&spec.CreatedAt,
		&spec.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("api spec with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get api spec: %v", err)
	}

	return spec, nil
}

// GetByName retrieves an API spec by its name
func (r *APISpecRepository) GetByName(name string) (*models.APISpec, error) {
	query := `
		SELECT id, name, title, version, spec_content, file_format, file_size, is_active, created_at, updated_at
		FROM api_specs
		WHERE name = $1
	`

	spec := &models.APISpec{}
	err := r.db.QueryRow(query, name).Scan(
		&spec.ID,
		&spec.Name,
		&spec.Title,
		&spec.Version,
		&spec.SpecContent,
		&spec.FileFormat,
		&spec.FileSize,
		&spec.IsActive,
		&spec.CreatedAt,
		&spec.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("api spec with name %s not found", name)
		}
		return nil, fmt.Errorf("failed to get api spec: %v", err)
	}

	return spec, nil
}

// GetAll retrieves all API specs
func (r *APISpecRepository) GetAll() ([]*models.APISpec, error) {
	query := `
		SELECT id, name, title, version, spec_content, file_format, file_size, is_active, created_at, updated_at
		FROM api_specs
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all api specs: %v", err)
	}
	defer rows.Close()

	var specs []*models.APISpec
	for rows.Next() {
		spec := &models.APISpec{}
		err := rows.Scan(
			&spec.ID,
			&spec.Name,
			&spec.Title,
			&spec.Version,
			&spec.SpecContent,
			&spec.FileFormat,
			&spec.FileSize,
			&spec.IsActive,
			&spec.CreatedAt,
			&spec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api spec: %v", err)
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// Delete removes an API spec from the database
func (r *APISpecRepository) Delete(id int) error {
	query := `DELETE FROM api_specs WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete api spec: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("api spec with id %d not found", id)
	}

	return nil
}

// SetActive sets the is_active status of an API spec
func (r *APISpecRepository) SetActive(id int, active bool) error {
	query := `UPDATE api_specs SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set active status: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("api spec with id %d not found", id)
	}

	return nil
}
