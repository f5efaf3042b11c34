package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/invoke/frontend"
	"github.com/teranos/invokegen/logger"
	"github.com/teranos/invokegen/pipeline"
)

// loadConfig loads and validates the configuration cascade
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(errors.Mark(err, errors.ErrConfiguration),
			"see 'invokegen am show' and 'invokegen am where'")
	}
	return cfg, nil
}

// bindGenerateFlags registers flags overriding the [generate] section
func bindGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("casing", "", "Identifier casing: go, verbatim")
	cmd.Flags().String("selector", "", "Selector parameter style: auto, seq, slice")
	cmd.Flags().String("output", "", "Generated file name per package")
	cmd.Flags().String("tags", "", "Comma-separated build tags")
	cmd.Flags().IntP("jobs", "j", 0, "Concurrent engine passes (0 = GOMAXPROCS)")
}

// applyGenerateFlags copies explicitly set flags over cfg
func applyGenerateFlags(cmd *cobra.Command, cfg *am.Config) {
	flags := cmd.Flags()
	if flags.Changed("casing") {
		cfg.Generate.Casing, _ = flags.GetString("casing")
	}
	if flags.Changed("selector") {
		cfg.Generate.Selector, _ = flags.GetString("selector")
	}
	if flags.Changed("output") {
		cfg.Generate.Output, _ = flags.GetString("output")
	}
	if flags.Changed("tags") {
		cfg.Generate.Tags, _ = flags.GetString("tags")
	}
	if flags.Changed("jobs") {
		cfg.Generate.Jobs, _ = flags.GetInt("jobs")
	}
}

// configFor loads the config, applies flag overrides and re-validates
func configFor(cmd *cobra.Command) (*am.Config, error) {
	loaded, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg := *loaded
	applyGenerateFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(err, errors.ErrConfiguration)
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if logger.ShouldOutput(verbosity, logger.OutputConfig) {
		logger.Debugw("Configuration loaded", "config", cfg.String())
	}
	return &cfg, nil
}

func frontendConfig(cfg *am.Config) frontend.Config {
	return frontend.Config{
		Tags:     splitTags(cfg.Generate.Tags),
		Selector: cfg.Generate.Selector,
		Output:   cfg.Generate.Output,
	}
}

func splitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

// loadPackages loads patterns and reports the groups found at -vv
func loadPackages(ctx context.Context, cmd *cobra.Command, cfg *am.Config, patterns []string) ([]*frontend.Package, error) {
	pkgs, err := frontend.Load(ctx, frontendConfig(cfg), patterns...)
	if err != nil {
		return nil, err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if logger.ShouldOutput(verbosity, logger.OutputDirectives) {
		for _, p := range pkgs {
			for _, d := range p.Groups {
				pterm.Info.Printfln("%s: group %s (%d members)", d.Pos, d.Group.Owner, len(d.Group.Members))
			}
		}
	}
	return pkgs, nil
}

// packageDirs returns the distinct directories of pkgs
func packageDirs(pkgs []*frontend.Package) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range pkgs {
		if p.Dir == "" || seen[p.Dir] {
			continue
		}
		seen[p.Dir] = true
		dirs = append(dirs, p.Dir)
	}
	return dirs
}

// printSummary reports what a run did with its files
func printSummary(cmd *cobra.Command, res *pipeline.Result) {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	for _, f := range res.Files {
		path := relPath(f.Path)
		switch f.Status {
		case pipeline.StatusWritten:
			pterm.Success.Printfln("%s (%d groups)", path, f.Groups)
		case pipeline.StatusRemoved:
			pterm.Warning.Printfln("removed %s (no groups left)", path)
		case pipeline.StatusStale:
			pterm.Error.Printfln("stale %s", path)
		case pipeline.StatusUnchanged:
			if logger.ShouldOutput(verbosity, logger.OutputProgress) {
				pterm.Info.Printfln("unchanged %s", path)
			}
		}
	}

	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		pterm.Info.Printfln("run %s took %s", res.RunID, res.Duration.Round(time.Millisecond))
	}
	pterm.Info.Printfln("%d written, %d unchanged, %d removed, %d stale",
		res.Count(pipeline.StatusWritten),
		res.Count(pipeline.StatusUnchanged),
		res.Count(pipeline.StatusRemoved),
		res.Count(pipeline.StatusStale))
}

func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
