// Package pipeline drives generation over loaded packages: one engine pass
// per group, one printed file per package, then write, check or print.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/invoke"
	"github.com/teranos/invokegen/invoke/describe"
	"github.com/teranos/invokegen/invoke/frontend"
	"github.com/teranos/invokegen/invoke/golang"
	"github.com/teranos/invokegen/logger"
)

// Mode selects what happens to printed files.
type Mode int

const (
	// ModeWrite writes changed files and removes orphaned generated files.
	ModeWrite Mode = iota
	// ModeCheck compares printed files with disk and reports stale ones.
	ModeCheck
	// ModeDryRun prints Go sources to Options.Out.
	ModeDryRun
	// ModeDescribe prints YAML output descriptions to Options.Out.
	ModeDescribe
)

// Options configure a pipeline run.
type Options struct {
	Output string
	Casing string
	// Jobs bounds concurrent engine passes; 0 means GOMAXPROCS.
	Jobs int
	Mode Mode
	// Out receives dry-run and describe output.
	Out io.Writer
}

// OptionsFromConfig builds run options from the generate section.
func OptionsFromConfig(cfg *am.Config, mode Mode, out io.Writer) Options {
	return Options{
		Output: cfg.Generate.Output,
		Casing: cfg.Generate.Casing,
		Jobs:   cfg.Generate.Jobs,
		Mode:   mode,
		Out:    out,
	}
}

// Status is what a run did with one file.
type Status int

const (
	StatusWritten Status = iota
	StatusUnchanged
	StatusStale
	StatusRemoved
	StatusPrinted
)

var statusNames = []string{"written", "unchanged", "stale", "removed", "printed"}

func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// File is one generated file touched by a run.
type File struct {
	Package string
	Path    string
	Groups  int
	Status  Status
}

// Result summarises a run.
type Result struct {
	RunID    string
	Files    []File
	Duration time.Duration
}

// Count returns how many files ended with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Stale lists the paths of stale files.
func (r *Result) Stale() []string {
	var paths []string
	for _, f := range r.Files {
		if f.Status == StatusStale {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Run generates every group of pkgs and handles the printed files per
// opts.Mode. Engine failures from all groups are reported together and no
// file is touched when any group fails. In ModeCheck a stale file makes Run
// return the result together with an error marked errors.ErrStale.
func Run(ctx context.Context, opts Options, pkgs []*frontend.Package) (*Result, error) {
	if opts.Output == "" {
		opts.Output = am.DefaultOutputName
	}
	runID := uuid.NewString()
	ctx = logger.WithComponent(logger.WithRunID(ctx, runID), "pipeline")
	log := logger.LoggerFromContext(ctx)
	start := time.Now()

	outputs, err := generateAll(ctx, opts.Jobs, pkgs)
	if err != nil {
		return nil, err
	}

	printer := opts.printer()
	res := &Result{RunID: runID}
	for i, pkg := range pkgs {
		f, ok, err := emit(opts, printer, pkg, outputs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", pkg.Path)
		}
		if !ok {
			continue
		}
		log.Debugw("Handled generated file",
			logger.FieldPackage, pkg.Path,
			logger.FieldFile, f.Path,
			"status", f.Status.String())
		res.Files = append(res.Files, f)
	}
	res.Duration = time.Since(start)

	log.Infow("Generation run finished",
		logger.FieldCount, len(res.Files),
		logger.FieldDurationMS, res.Duration.Milliseconds())

	if stale := res.Stale(); opts.Mode == ModeCheck && len(stale) > 0 {
		err := errors.Mark(errors.Newf("%d generated file(s) out of date: %s",
			len(stale), strings.Join(stale, ", ")), errors.ErrStale)
		return res, errors.WithHint(err, "run 'invokegen generate' to update them")
	}
	return res, nil
}

func (o Options) printer() invoke.Printer {
	if o.Mode == ModeDescribe {
		return describe.NewPrinter()
	}
	return golang.NewPrinter(o.Casing)
}

// generateAll runs the engine for every declared group. outputs[i][j] is
// the output of pkgs[i].Groups[j].
func generateAll(ctx context.Context, jobs int, pkgs []*frontend.Package) ([][]*invoke.Output, error) {
	log := logger.LoggerFromContext(ctx)

	type job struct{ pkg, group int }
	outputs := make([][]*invoke.Output, len(pkgs))
	var queue []job
	for i, p := range pkgs {
		outputs[i] = make([]*invoke.Output, len(p.Groups))
		for j := range p.Groups {
			queue = append(queue, job{i, j})
		}
	}
	if len(queue) == 0 {
		return outputs, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// slots are per job; no locking needed
	failures := make([]error, len(queue))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(queue)))
	for k, jb := range queue {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			d := pkgs[jb.pkg].Groups[jb.group]
			out, err := invoke.Generate(d.Group)
			if err != nil {
				failures[k] = errors.Wrapf(err, "%s", d.Pos)
				return nil
			}
			outputs[jb.pkg][jb.group] = out

			log.Debugw("Generated group",
				logger.FieldPackage, pkgs[jb.pkg].Path,
				logger.FieldOwner, d.Group.Owner,
				logger.FieldSuffix, out.Suffix,
				logger.FieldCount, len(out.Functions))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return outputs, nil
	case 1:
		return nil, errs[0]
	default:
		return nil, errors.Join(errs...)
	}
}

// emit prints one package and applies the mode. ok is false when the
// package has nothing to report.
func emit(opts Options, printer invoke.Printer, pkg *frontend.Package, outs []*invoke.Output) (File, bool, error) {
	path := filepath.Join(pkg.Dir, opts.Output)
	f := File{Package: pkg.Path, Path: path, Groups: len(outs)}

	if len(outs) == 0 {
		return orphan(opts, f)
	}

	src, err := printer.Print(&invoke.PackageOutput{
		Name:    pkg.Name,
		Path:    pkg.Path,
		Outputs: outs,
		Seq:     pkg.Seq,
	})
	if err != nil {
		return f, false, err
	}

	switch opts.Mode {
	case ModeDryRun, ModeDescribe:
		if err := printTo(opts, path, src); err != nil {
			return f, false, err
		}
		f.Status = StatusPrinted
		return f, true, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return f, false, errors.Wrapf(err, "failed to read %s", path)
	}
	exists := err == nil

	if exists && !isGenerated(path, existing) {
		err := errors.NewConfigurationError("%s exists and was not generated by invokegen", path)
		return f, false, errors.WithHint(err, "rename the file or set generate.output to another name")
	}

	if exists && bytes.Equal(existing, src) {
		f.Status = StatusUnchanged
		return f, true, nil
	}

	if opts.Mode == ModeCheck {
		f.Status = StatusStale
		return f, true, nil
	}

	if err := os.WriteFile(path, src, am.DefaultFilePermissions); err != nil {
		return f, false, errors.Wrapf(err, "failed to write %s", path)
	}
	f.Status = StatusWritten
	return f, true, nil
}

// orphan handles a package without groups that still carries a generated
// file from an earlier run.
func orphan(opts Options, f File) (File, bool, error) {
	existing, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return f, false, nil
	}
	if err != nil {
		return f, false, errors.Wrapf(err, "failed to read %s", f.Path)
	}
	if !isGenerated(f.Path, existing) {
		return f, false, nil
	}

	switch opts.Mode {
	case ModeWrite:
		if err := os.Remove(f.Path); err != nil {
			return f, false, errors.Wrapf(err, "failed to remove %s", f.Path)
		}
		f.Status = StatusRemoved
		return f, true, nil
	case ModeCheck:
		f.Status = StatusStale
		return f, true, nil
	}
	return f, false, nil
}

func printTo(opts Options, path string, src []byte) error {
	if opts.Out == nil {
		return errors.New("no output writer for printed files")
	}
	var header string
	if opts.Mode == ModeDescribe {
		header = "---\n"
	} else {
		header = "// " + path + "\n"
	}
	if _, err := io.WriteString(opts.Out, header); err != nil {
		return errors.Wrap(err, "failed to print")
	}
	if _, err := opts.Out.Write(src); err != nil {
		return errors.Wrap(err, "failed to print")
	}
	return nil
}

// isGenerated reports whether src carries a generated-code header.
func isGenerated(path string, src []byte) bool {
	file, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return false
	}
	return ast.IsGenerated(file)
}
