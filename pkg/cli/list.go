package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apibridge/openapi-toolgen/pkg/config"
	"github.com/apibridge/openapi-toolgen/pkg/database"
	"github.com/apibridge/openapi-toolgen/pkg/services"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored specs and their latest manifests",
		RunE:  runList,
	}

	config.BindCommonFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		return err
	}
	defer database.Close()

	store := services.NewSpecStoreService(database.DB)
	specs, err := store.GetAllSpecs()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(specs) == 0 {
		fmt.Fprintln(out, "no specs stored")
		return nil
	}

	for _, record := range specs {
		title := ""
		if record.Title != nil {
			title = *record.Title
		}
		active := ""
		if record.IsActive != nil && !*record.IsActive {
			active = " (inactive)"
		}
		fmt.Fprintf(out, "%3d  %-30s %s%s\n", record.ID, record.Name, title, active)

		manifest, err := store.LatestManifest(record.ID)
		if err != nil {
			fmt.Fprintf(out, "     no manifest\n")
			continue
		}
		fmt.Fprintf(out, "     build %s, %d tools\n", manifest.BuildID, manifest.ToolCount)
	}
	return nil
}
