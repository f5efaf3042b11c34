package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/invokegen/pipeline"
)

// DescribeCmd prints the engine output of every group as YAML
var DescribeCmd = &cobra.Command{
	Use:   "describe [patterns...]",
	Short: "Print the output description of each group as YAML",
	Long: `Run the engine and print what it decided for every group, one YAML
document per package: function names and kinds, callback and selector
shapes, dispatch bodies, metadata and the tag type.

Examples:
  invokegen describe ./shapes
  invokegen describe ./... > groups.yaml`,
	RunE: runDescribe,
}

func init() {
	bindGenerateFlags(DescribeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := configFor(cmd)
	if err != nil {
		return err
	}
	pkgs, err := loadPackages(cmd.Context(), cmd, cfg, args)
	if err != nil {
		return err
	}
	_, err = pipeline.Run(cmd.Context(), pipeline.OptionsFromConfig(cfg, pipeline.ModeDescribe, cmd.OutOrStdout()), pkgs)
	return err
}
