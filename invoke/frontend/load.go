// Package frontend reads invokegen group directives from Go packages and
// turns them into engine groups.
//
// A directive sits in the doc comment of a type:
//
//	//invokegen:group name=fast clone=1
//	type Shape struct{ ... }
//
// Without members= or funcs= the group is every method declared on the
// type, in source order. members= picks and orders methods; funcs= groups
// package-level functions and uses the type only as a namespace.
package frontend

import (
	"context"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/logger"
)

// Config controls package loading.
type Config struct {
	// Dir is the directory patterns are resolved in; empty means the
	// current directory.
	Dir string
	// Tags are build tags passed to the loader.
	Tags []string
	// Selector is am.SelectorAuto, am.SelectorSeq or am.SelectorSlice.
	Selector string
	// Output is the generated file name. Existing generated files of that
	// name are replaced by an empty stub while loading, so a stale file
	// cannot break type checking.
	Output string
}

// Package is one loaded Go package and the groups declared in it.
type Package struct {
	Name      string
	Path      string
	Dir       string
	GoVersion string
	// Seq selects iter.Seq selector parameters.
	Seq    bool
	Groups []Declared
	// Files are the package's hand-written Go files.
	Files []string
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedModule

// Load loads the packages matching patterns and extracts their groups.
func Load(ctx context.Context, cfg Config, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	log := logger.LoggerFromContext(ctx).Named("frontend")

	var buildFlags []string
	if len(cfg.Tags) > 0 {
		buildFlags = append(buildFlags, "-tags="+strings.Join(cfg.Tags, ","))
	}

	overlay, err := stubGenerated(ctx, cfg, buildFlags, patterns)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		Mode:       loadMode,
		BuildFlags: buildFlags,
		Fset:       fset,
		Overlay:    overlay,
	}, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}

	var loadErrs []error
	for _, p := range pkgs {
		for _, e := range p.Errors {
			loadErrs = append(loadErrs, errors.Newf("%s: %s", p.PkgPath, e.Error()))
		}
	}
	if len(loadErrs) > 0 {
		return nil, errors.WithHint(errors.Join(loadErrs...), "the packages must compile before groups can be generated")
	}

	var out []*Package
	for _, p := range pkgs {
		declared, err := extract(fset, p.Syntax, p.Types)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", p.PkgPath)
		}

		pkg := &Package{
			Name:   p.Name,
			Path:   p.PkgPath,
			Groups: declared,
		}
		if p.Module != nil {
			pkg.GoVersion = p.Module.GoVersion
		}
		for _, f := range p.GoFiles {
			if _, stubbed := overlay[f]; !stubbed {
				pkg.Files = append(pkg.Files, f)
			}
		}
		if len(p.GoFiles) > 0 {
			pkg.Dir = filepath.Dir(p.GoFiles[0])
		}
		if pkg.Seq, err = UseSeq(cfg.Selector, pkg.GoVersion); err != nil {
			return nil, err
		}

		log.Debugw("Loaded package",
			logger.FieldPackage, pkg.Path,
			logger.FieldCount, len(pkg.Groups))
		out = append(out, pkg)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// stubGenerated finds existing generated outputs and maps each to a
// package-clause-only stub.
func stubGenerated(ctx context.Context, cfg Config, buildFlags, patterns []string) (map[string][]byte, error) {
	if cfg.Output == "" {
		return nil, nil
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		Mode:       packages.NeedName | packages.NeedFiles,
		BuildFlags: buildFlags,
	}, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list packages %s", strings.Join(patterns, " "))
	}

	overlay := make(map[string][]byte)
	fset := token.NewFileSet()
	for _, p := range pkgs {
		for _, f := range p.GoFiles {
			if filepath.Base(f) != cfg.Output {
				continue
			}
			file, err := parser.ParseFile(fset, f, nil, parser.PackageClauseOnly|parser.ParseComments)
			if err != nil || !ast.IsGenerated(file) {
				continue
			}
			overlay[f] = []byte("// " + generatedStub + "\n\npackage " + p.Name + "\n")
		}
	}
	return overlay, nil
}

// generatedStub heads the placeholder standing in for a generated file.
const generatedStub = "Code generated by invokegen. DO NOT EDIT."

// ParseSource type-checks in-memory files as the package path and extracts
// their groups. Imports resolve against the standard library sources.
// Files carrying a generated-code header are left out.
func ParseSource(cfg Config, path string, files map[string]string) (*Package, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	var syntax []*ast.File
	for _, name := range names {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", name)
		}
		if ast.IsGenerated(f) {
			continue
		}
		syntax = append(syntax, f)
	}
	if len(syntax) == 0 {
		return nil, errors.NewConfigurationError("no source files for %s", path)
	}

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	tpkg, err := conf.Check(path, fset, syntax, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to type-check %s", path)
	}

	declared, err := extract(fset, syntax, tpkg)
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", path)
	}

	seq, err := UseSeq(cfg.Selector, "")
	if err != nil {
		return nil, err
	}
	return &Package{
		Name:   tpkg.Name(),
		Path:   path,
		Dir:    cfg.Dir,
		Seq:    seq,
		Groups: declared,
		Files:  names,
	}, nil
}
