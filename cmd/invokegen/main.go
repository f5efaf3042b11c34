package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/cmd/invokegen/commands"
	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "invokegen",
	Short: "Generate multiplex invoke variants for groups of Go functions",
	Long: `invokegen - multiplexed invocation for groups of same-shaped functions.

Mark a type with an //invokegen:group directive and invokegen generates, next
to it, functions that call every member (or a chosen subset) with shared
arguments and hand each result to a callback:

  invoke_all, invoke_subset, invoke_all_enumerated, invoke_all_enum,
  invoke_enumerated, invoke_enum, METHOD_COUNT, METHOD_LIST
  and a tag type naming the members.

Available commands:
  generate - Write generated files (--watch to keep them current)
  check    - Verify generated files are up to date
  describe - Print the engine output as YAML
  am       - Manage configuration ("I am")
  version  - Show build information

Examples:
  invokegen generate ./...
  invokegen check
  invokegen describe ./shapes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")

		// theme and json default from config; a broken config is reported by the command itself
		if cfg, err := am.Load(); err == nil {
			if cfg.Log.Theme != "" {
				logger.SetTheme(cfg.Log.Theme)
			}
			if !cmd.Flags().Changed("json-log") {
				jsonLog = cfg.Log.JSON
			}
		}

		if err := logger.InitializeWithVerbosity(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		if jsonLog {
			pterm.DisableStyling()
		}
		logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity), "json", jsonLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Emit logs as JSON on stderr")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.DescribeCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		if os.Getenv("INVOKEGEN_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		os.Exit(1)
	}
}
