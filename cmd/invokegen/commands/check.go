package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/invokegen/pipeline"
)

// CheckCmd checks that generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check [patterns...]",
	Short: "Check if generated files are up to date",
	Long: `Generate in memory and compare with the files on disk. Nothing is written.

A file is stale when its content differs, when it is missing, or when its
package no longer declares any group.

Exit codes:
  0 - Generated files are up to date
  1 - Files are stale (listed) or generation failed

Examples:
  invokegen check              # Check all packages
  invokegen check ./shapes     # One package`,
	RunE: runCheck,
}

func init() {
	bindGenerateFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := configFor(cmd)
	if err != nil {
		return err
	}
	pkgs, err := loadPackages(cmd.Context(), cmd, cfg, args)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), pipeline.OptionsFromConfig(cfg, pipeline.ModeCheck, nil), pkgs)
	if res != nil && len(res.Stale()) > 0 {
		pterm.Error.Println("Generated files are out of date:")
		for _, path := range res.Stale() {
			pterm.Printfln("  - %s", relPath(path))
		}
	}
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%d generated files are up to date", res.Count(pipeline.StatusUnchanged))
	return nil
}
