package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultConfigFile is picked up from the working directory when no --config
// flag is given.
const DefaultConfigFile = "toolgen.yaml"

type Config struct {
	Spec             string `koanf:"spec"`
	Output           string `koanf:"output"`
	CredentialSource string `koanf:"credential-source"`
	Strict           bool   `koanf:"strict"`
	DatabaseURL      string `koanf:"database-url"`
}

// BindCommonFlags binds the shared flags to a command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: toolgen.yaml)")
	flags.StringP("spec", "s", "", "OpenAPI document path")
	flags.StringP("output", "o", "", "Manifest output path (default: stdout)")
	flags.String("credential-source", "", "Environment variable holding the API key (default: API_KEY)")
	flags.Bool("strict", false, "Run full document validation before generating")
	flags.String("database-url", "", "Postgres URL for spec and manifest storage (or DATABASE_URL)")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil && v {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("output"); v != "" {
		m["output"] = v
	}
	if v := getString("credential-source"); v != "" {
		m["credential-source"] = v
	}
	if v := getString("database-url"); v != "" {
		m["database-url"] = v
	}
	if flagChanged("strict") {
		m["strict"] = getBool("strict")
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	return nil
}
