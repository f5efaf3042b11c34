package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage invokegen configuration",
	Long: `am — Manage invokegen configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.invokegen/am.toml)
3. Project config (invokegen.toml, searched up from the working directory)
4. Environment variables (INVOKEGEN_* prefix, e.g. INVOKEGEN_GENERATE_CASING)
5. Command line flags of generate, check and describe

Examples:
  invokegen am show                    # Show current configuration
  invokegen am show --format yaml      # Show configuration as YAML
  invokegen am show --file ci.toml     # Show one file over the defaults
  invokegen am get generate.casing     # Get a specific value
  invokegen am validate                # Validate current configuration
  invokegen am validate --file ci.toml # Validate one file
  invokegen am where                   # List the files consulted
  invokegen am init                    # Write invokegen.toml with defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., generate.output, watch.debounce_ms)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Long: `Write the default configuration as TOML, to ./invokegen.toml unless a path
is given. An existing file is kept as .back1 (older backups rotate to .back3).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var (
	configFormat string
	configFile   string
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().StringVar(&configFile, "file", "", "Read this file over the defaults instead of the cascade")
	amValidateCmd.Flags().StringVar(&configFile, "file", "", "Validate this file instead of the cascade")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

// loadAmConfig reads --file when given, the cascade otherwise
func loadAmConfig() (*am.Config, error) {
	if configFile != "" {
		return am.LoadFromFile(configFile)
	}
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadAmConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# invokegen configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# invokegen configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !am.GetViper().IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadAmConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [USER]     ~/.invokegen/"+am.UserConfigName)
	fmt.Fprintln(out, "  3. [PROJECT]  ./"+am.ProjectConfigName+" (searches up directories)")
	fmt.Fprintln(out, "  4. [ENV]      INVOKEGEN_* environment variables")
	fmt.Fprintln(out)

	for _, path := range am.ConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			pterm.Success.Printfln("%s", path)
		} else {
			pterm.Info.Printfln("%s (missing)", path)
		}
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ProjectConfigName
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "invalid path %s", path)
	}
	if err := am.WriteDefault(abs); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", abs)
	return nil
}
