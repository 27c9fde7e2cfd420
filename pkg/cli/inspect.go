package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/apibridge/openapi-toolgen/pkg/config"
	"github.com/apibridge/openapi-toolgen/pkg/schema"
	"github.com/apibridge/openapi-toolgen/pkg/toolgen"
)

func InspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Explore a generated tool model interactively",
		RunE:  runInspect,
	}

	config.BindCommonFlags(cmd)

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
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

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "toolgen> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting prompt: %w", err)
	}
	defer rl.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s: %d tools, %d types. Type 'help' for commands.\n",
		result.Title, result.Version, len(result.Tools), len(result.Types))

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		command, arg := fields[0], strings.Join(fields[1:], " ")

		switch command {
		case "exit", "quit":
			return nil
		case "help":
			printInspectHelp(out)
		case "tools":
			for _, tool := range result.Tools {
				fmt.Fprintf(out, "%-40s %s %s\n", tool.Name, tool.Binding.Method, tool.Binding.Path)
			}
		case "types":
			for _, nt := range result.Types {
				fmt.Fprintf(out, "%-40s %s\n", nt.Name, nt.Type.Kind)
			}
		case "diags":
			if len(result.Diagnostics) == 0 {
				fmt.Fprintln(out, "no diagnostics")
				continue
			}
			for _, diag := range result.Diagnostics {
				fmt.Fprintf(out, "%s: %s: %s\n", diag.Kind, diag.Subject, diag.Message)
			}
		case "show":
			showTool(out, result, arg)
		case "schema":
			showSchema(out, result, arg)
		default:
			fmt.Fprintf(out, "unknown command %q, type 'help'\n", command)
		}
	}
}

func printInspectHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  tools            list generated tools
  types            list named types
  diags            list diagnostics
  show <tool>      show a tool's binding, auth and input schema
  schema <type>    show a named type as JSON Schema
  exit             leave the prompt
`)
}

func showTool(out io.Writer, result *toolgen.Result, name string) {
	tool := result.Tool(name)
	if tool == nil {
		fmt.Fprintf(out, "no such tool: %s\n", name)
		return
	}

	fmt.Fprintf(out, "%s\n  %s %s (base %s)\n", tool.Name, tool.Binding.Method, tool.Binding.Path, tool.Binding.BaseURL)
	if tool.Description != "" {
		fmt.Fprintf(out, "  %s\n", tool.Description)
	}
	if tool.Auth != nil {
		fmt.Fprintf(out, "  auth: apiKey %s %q from $%s\n", tool.Auth.In, tool.Auth.FieldName, tool.Auth.CredentialSource)
	} else {
		fmt.Fprintln(out, "  auth: none")
	}
	printJSON(out, schema.AsJSONSchema(tool.InputSchema))
}

func showSchema(out io.Writer, result *toolgen.Result, name string) {
	for _, nt := range result.Types {
		if nt.Name == name {
			printJSON(out, schema.AsJSONSchema(nt.Type))
			return
		}
	}
	fmt.Fprintf(out, "no such type: %s\n", name)
}

func printJSON(out io.Writer, v any) {
	encoded, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(out, "render error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "  %s\n", encoded)
}
