package database

import (
	"database/sql"
	"fmt"
	"log"
)

// CreateAPISpecsTable creates the api_specs table with all constraints and indexes
func CreateAPISpecsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS api_specs (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL,
		title VARCHAR(500),
		version VARCHAR(100),
		spec_content TEXT NOT NULL,
		file_format VARCHAR(10) DEFAULT 'yaml',
		file_size INTEGER,
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMP(6) DEFAULT NOW(),
		updated_at TIMESTAMP(6) DEFAULT NOW()
	);

	-- Create indexes
	CREATE INDEX IF NOT EXISTS idx_api_specs_is_active ON api_specs(is_active);
	CREATE INDEX IF NOT EXISTS idx_api_specs_name ON api_specs(name);

	-- Create updated_at trigger
	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DROP TRIGGER IF EXISTS update_api_specs_updated_at ON api_specs;
	CREATE TRIGGER update_api_specs_updated_at
		BEFORE UPDATE ON api_specs
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create api_specs table: %v", err)
	}

	log.Println("Successfully created api_specs table with indexes and triggers")
	return nil
}

// CreateToolManifestsTable creates the tool_manifests table
func CreateToolManifestsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS tool_manifests (
		id SERIAL PRIMARY KEY,
		spec_id INTEGER NOT NULL REFERENCES api_specs(id) ON DELETE CASCADE,
		build_id UUID UNIQUE NOT NULL,
		content TEXT NOT NULL,
		tool_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP(6) DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tool_manifests_spec_id ON tool_manifests(spec_id);
	CREATE INDEX IF NOT EXISTS idx_tool_manifests_build_id ON tool_manifests(build_id);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create tool_manifests table: %v", err)
	}

	log.Println("Successfully created tool_manifests table with indexes")
	return nil
}

// DropTables drops all tables (useful for testing)
func DropTables(db *sql.DB) error {
	query := `
	DROP TABLE IF EXISTS tool_manifests CASCADE;
	DROP TRIGGER IF EXISTS update_api_specs_updated_at ON api_specs;
	DROP FUNCTION IF EXISTS update_updated_at_column();
	DROP TABLE IF EXISTS api_specs CASCADE;
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %v", err)
	}

	log.Println("Successfully dropped tables")
	return nil
}

// RunMigrations runs all database migrations
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	if err := CreateAPISpecsTable(db); err != nil {
		return fmt.Errorf("migration failed: %v", err)
	}
	if err := CreateToolManifestsTable(db); err != nil {
		return fmt.Errorf("migration failed: %v", err)
	}

	log.Println("All migrations completed successfully")
	return nil
}
