package invoke

import "github.com/teranos/invokegen/errors"

// Generate runs one generation pass over g. On any violation it returns an
// error and no Output; there is no partial generation.
//
// Errors are marked with errors.ErrConfiguration, errors.ErrSignatureMismatch
// or errors.ErrUnsupportedShape. Generating the same owner twice with the
// same (or no) suffix yields colliding names; that is left to the host
// compiler to report.
func Generate(g Group) (*Output, error) {
	if err := Validate(g); err != nil {
		return nil, errors.Wrapf(err, "group %s", g.Owner)
	}

	sel, err := Select(g)
	if err != nil {
		return nil, errors.Wrapf(err, "group %s", g.Owner)
	}

	n := NewNamer(g.Options.NameSuffix)

	calls := make([]CallSite, len(g.Members))
	for i, m := range g.Members {
		calls[i] = BuildCallSite(g, m, sel)
	}

	fns := emitVariants(g, n, sel, calls)

	out := &Output{
		Owner:     g.Owner,
		OwnerType: g.OwnerType,
		Members:   append([]Member(nil), g.Members...),
		Functions: fns,
		Constants: emitMetadata(g, n),
		TagType:   synthesizeTagType(g, n, fns),
		Imports:   g.Imports,
	}
	if g.Options.NameSuffix != nil {
		out.Suffix = *g.Options.NameSuffix
	}
	return out, nil
}

// PackageOutput collects the outputs of every group declared in one package.
type PackageOutput struct {
	// Name is the package clause name, Path the import path.
	Name string
	Path string
	// Outputs are in directive order.
	Outputs []*Output
	// Seq selects iter.Seq selector parameters instead of slices.
	Seq bool
}

// Printer renders a package's outputs into one source file.
type Printer interface {
	// Print creates the complete generated file
	Print(pkg *PackageOutput) ([]byte, error)

	// Language returns the target name (e.g., "go", "yaml")
	Language() string
}
