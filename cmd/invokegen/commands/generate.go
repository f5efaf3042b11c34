package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/invoke/frontend"
	"github.com/teranos/invokegen/logger"
	"github.com/teranos/invokegen/pipeline"
)

// GenerateCmd writes the generated file of every package with groups
var GenerateCmd = &cobra.Command{
	Use:   "generate [patterns...]",
	Short: "Generate invoke variants for //invokegen:group types",
	Long: `Load the packages matching patterns (default ./...), generate the invoke
variants of every //invokegen:group declaration and write one file per package.

Packages whose groups were all removed lose their generated file. A file of the
same name that was not generated by invokegen is never overwritten.

Examples:
  invokegen generate                       # All packages below the current directory
  invokegen generate ./shapes              # One package
  invokegen generate --dry-run ./shapes    # Print instead of writing
  invokegen generate --casing verbatim     # Keep engine names (invoke_all, METHOD_COUNT)
  invokegen generate --watch               # Regenerate when sources change`,
	RunE: runGenerate,
}

func init() {
	bindGenerateFlags(GenerateCmd)
	GenerateCmd.Flags().Bool("dry-run", false, "Print generated files to stdout instead of writing them")
	GenerateCmd.Flags().BoolP("watch", "w", false, "Keep running and regenerate on source changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := configFor(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	watch, _ := cmd.Flags().GetBool("watch")

	mode := pipeline.ModeWrite
	if dryRun {
		mode = pipeline.ModeDryRun
	}
	opts := pipeline.OptionsFromConfig(cfg, mode, cmd.OutOrStdout())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pkgs, err := loadPackages(ctx, cmd, cfg, args)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(ctx, opts, pkgs)
	if !watch {
		if err != nil {
			return err
		}
		if !dryRun {
			printSummary(cmd, res)
		}
		return nil
	}

	if err != nil {
		pterm.Error.Println(err.Error())
	} else if !dryRun {
		printSummary(cmd, res)
	}
	return watchSources(ctx, cmd, cfg, opts, args, pkgs)
}

// watchSources regenerates on change until interrupted
func watchSources(ctx context.Context, cmd *cobra.Command, cfg *am.Config, opts pipeline.Options, patterns []string, pkgs []*frontend.Package) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	verbosity, _ := cmd.Flags().GetCount("verbose")
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond

	var sw *pipeline.SourceWatcher
	regenerate := func(ctx context.Context, changed []string) error {
		if logger.ShouldOutput(verbosity, logger.OutputWatch) {
			for _, path := range changed {
				pterm.Info.Printfln("changed %s", relPath(path))
			}
		}

		pkgs, err := loadPackages(ctx, cmd, cfg, patterns)
		if err != nil {
			return err
		}
		// new packages may have appeared
		if err := sw.Watch(packageDirs(pkgs)...); err != nil {
			return err
		}
		res, err := pipeline.Run(ctx, opts, pkgs)
		if err != nil {
			return err
		}
		if opts.Mode == pipeline.ModeWrite {
			printSummary(cmd, res)
		}
		return nil
	}

	sw, err := pipeline.NewSourceWatcher(packageDirs(pkgs), cfg.Generate.Output, debounce, regenerate)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Watching %d package directories (Ctrl+C to stop)", len(sw.Dirs()))
	return sw.Run(ctx)
}
