package cli

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "toolgen",
		Short:   "toolgen - turn OpenAPI documents into callable tool manifests",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(GenerateCommand())
	root.AddCommand(InspectCommand())
	root.AddCommand(ImportCommand())
	root.AddCommand(ListCommand())

	return root
}
