package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apibridge/openapi-toolgen/pkg/config"
	"github.com/apibridge/openapi-toolgen/pkg/spec"
	"github.com/apibridge/openapi-toolgen/pkg/toolgen"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a tool manifest from an OpenAPI document",
		RunE:  runGenerate,
	}

	config.BindCommonFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	result, err := generate(cmd, cfg)
	if err != nil {
		return err
	}

	manifest, err := result.MarshalManifest()
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(manifest))
	} else {
		if err := os.WriteFile(cfg.Output, append(manifest, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote manifest to %s\n", cfg.Output)
	}

	toolgen.WriteSummary(os.Stderr, result)
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "[WARN] %s: %s: %s\n", diag.Kind, diag.Subject, diag.Message)
	}
	return nil
}

// generate runs the shared load+build pipeline used by generate and inspect.
func generate(cmd *cobra.Command, cfg *config.Config) (*toolgen.Result, error) {
	data, err := os.ReadFile(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}

	if cfg.Strict {
		if err := spec.Preflight(cmd.Context(), data); err != nil {
			return nil, fmt.Errorf("strict validation failed: %w", err)
		}
	}

	doc, err := spec.Load(data)
	if err != nil {
		return nil, err
	}

	return toolgen.BuildWithOptions(doc, toolgen.Options{
		CredentialSource: cfg.CredentialSource,
	})
}
