package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apibridge/openapi-toolgen/pkg/config"
	"github.com/apibridge/openapi-toolgen/pkg/database"
	"github.com/apibridge/openapi-toolgen/pkg/services"
	"github.com/apibridge/openapi-toolgen/pkg/toolgen"
)

func ImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <spec-file> [name]",
		Short: "Import an OpenAPI document into the spec database and store its manifest",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runImport,
	}

	config.BindCommonFlags(cmd)

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	specPath := args[0]
	name := strings.TrimSuffix(filepath.Base(specPath), filepath.Ext(specPath))
	if len(args) > 1 {
		name = args[1]
	}

	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		return err
	}
	defer database.Close()

	store := services.NewSpecStoreService(database.DB)
	if err := store.ImportSpecFromFile(specPath, name); err != nil {
		return err
	}

	record, result, err := store.GenerateForSpec(name, toolgen.Options{
		CredentialSource: cfg.CredentialSource,
	})
	if err != nil {
		return fmt.Errorf("spec imported, but generation failed: %w", err)
	}

	manifest, err := store.SaveManifest(record.ID, result)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored manifest %s with %d tools for spec '%s'\n",
		manifest.BuildID, manifest.ToolCount, name)
	return nil
}
