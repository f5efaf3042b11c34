package frontend

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/invoke"
)

// Declared is a group together with the position of its directive.
type Declared struct {
	Group invoke.Group
	Pos   token.Position
}

// extract reads every group directive of a type-checked package. Files
// carrying a generated-code header are skipped; groups are returned in file
// name order, then source order.
func extract(fset *token.FileSet, files []*ast.File, pkg *types.Package) ([]Declared, error) {
	generated := make(map[string]bool)
	var sources []*ast.File
	for _, f := range files {
		name := fset.Position(f.Package).Filename
		if ast.IsGenerated(f) {
			generated[name] = true
			continue
		}
		sources = append(sources, f)
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return fset.Position(sources[i].Package).Filename < fset.Position(sources[j].Package).Filename
	})

	var out []Declared
	for _, f := range sources {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if doc == nil {
					continue
				}
				for _, c := range doc.List {
					if !IsDirective(c.Text) {
						continue
					}
					pos := fset.Position(c.Pos())
					d, err := ParseDirective(c.Text)
					if err != nil {
						return nil, errors.Wrapf(err, "%s", pos)
					}
					b := &builder{pkg: pkg, fset: fset, generated: generated, imports: map[string]string{}}
					g, err := b.group(ts.Name.Name, d)
					if err != nil {
						return nil, errors.Wrapf(err, "%s", pos)
					}
					out = append(out, Declared{Group: g, Pos: pos})
				}
			}
		}
	}
	return out, nil
}

// builder turns one directive into a group.
type builder struct {
	pkg       *types.Package
	fset      *token.FileSet
	generated map[string]bool
	imports   map[string]string
	conflict  error
}

func (b *builder) group(owner string, d Directive) (invoke.Group, error) {
	g := invoke.Group{
		Owner: owner,
		Options: invoke.Options{
			NameSuffix:   d.Name,
			CloneIndices: d.Clone,
		},
	}

	obj, ok := b.pkg.Scope().Lookup(owner).(*types.TypeName)
	if !ok {
		return g, errors.NewDirectiveError("%s is not a type of package %s", owner, b.pkg.Path())
	}
	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return g, errors.NewDirectiveError("%s must be a defined type", owner)
	}

	var fns []*types.Func
	var err error
	if d.FunctionMode() {
		fns, err = b.functions(d.Funcs)
	} else {
		fns, err = b.methods(named, d.Members)
	}
	if err != nil {
		return g, err
	}

	for _, fn := range fns {
		g.Members = append(g.Members, b.member(fn))
	}
	nameParams(g.Members)
	if err := checkCloneShadowing(g); err != nil {
		return g, err
	}

	if !d.FunctionMode() && len(g.Members) > 0 {
		g.OwnerType = ownerType(g.Members)
	}
	if b.conflict != nil {
		return g, b.conflict
	}
	if len(b.imports) > 0 {
		g.Imports = b.imports
	}
	return g, nil
}

// methods returns the declared methods of named, either all of them in
// source order or the listed ones in list order.
func (b *builder) methods(named *types.Named, list []string) ([]*types.Func, error) {
	var all []*types.Func
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if b.generated[b.fset.Position(m.Pos()).Filename] {
			continue
		}
		all = append(all, m)
	}

	if len(list) == 0 {
		sort.SliceStable(all, func(i, j int) bool {
			pi, pj := b.fset.Position(all[i].Pos()), b.fset.Position(all[j].Pos())
			if pi.Filename != pj.Filename {
				return pi.Filename < pj.Filename
			}
			return pi.Offset < pj.Offset
		})
		return all, nil
	}

	byName := make(map[string]*types.Func, len(all))
	for _, m := range all {
		byName[m.Name()] = m
	}
	var out []*types.Func
	for _, name := range list {
		m, ok := byName[name]
		if !ok {
			return nil, errors.NewDirectiveError("type %s has no method %s", named.Obj().Name(), name)
		}
		out = append(out, m)
	}
	return out, nil
}

func (b *builder) functions(list []string) ([]*types.Func, error) {
	var out []*types.Func
	for _, name := range list {
		fn, ok := b.pkg.Scope().Lookup(name).(*types.Func)
		if !ok {
			return nil, errors.NewDirectiveError("%s is not a function of package %s", name, b.pkg.Path())
		}
		out = append(out, fn)
	}
	return out, nil
}

func (b *builder) member(fn *types.Func) invoke.Member {
	sig := fn.Type().(*types.Signature)
	m := invoke.Member{
		Name:       fn.Name(),
		Visibility: visibility(fn.Exported()),
	}

	if recv := sig.Recv(); recv != nil {
		mode := invoke.SelfByRef
		if _, ok := recv.Type().(*types.Pointer); ok {
			mode = invoke.SelfByMutRef
		}
		m.Params = append(m.Params, invoke.Param{
			Name:     recv.Name(),
			Type:     invoke.TypeExpr{Text: b.typeString(recv.Type())},
			Self:     true,
			SelfMode: mode,
		})
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		v := params.At(i)
		p := invoke.Param{Name: v.Name()}
		t := v.Type()
		if s, ok := t.(*types.Slice); ok && sig.Variadic() && i == params.Len()-1 {
			p.Variadic = true
			p.Clone = invoke.CloneSlice
			t = s.Elem()
		} else {
			p.Clone = cloneStrategy(t)
		}
		p.Type = invoke.TypeExpr{Text: b.typeString(t)}
		m.Params = append(m.Params, p)
	}

	m.Return = b.results(sig.Results())

	tparams := sig.TypeParams()
	for i := 0; i < tparams.Len(); i++ {
		tp := tparams.At(i)
		name := tp.Obj().Name()
		m.Generics = append(m.Generics, invoke.GenericParam{
			Name:      name,
			Bound:     b.typeString(tp.Constraint()),
			Kind:      invoke.GenericType,
			Anonymous: name == "_",
			Inferable: mentionedIn(tp, sig.Params()),
		})
	}
	return m
}

func (b *builder) results(res *types.Tuple) *invoke.TypeExpr {
	switch res.Len() {
	case 0:
		return nil
	case 1:
		return &invoke.TypeExpr{Text: b.typeString(res.At(0).Type())}
	}
	elems := make([]invoke.TypeExpr, res.Len())
	texts := make([]string, res.Len())
	for i := 0; i < res.Len(); i++ {
		texts[i] = b.typeString(res.At(i).Type())
		elems[i] = invoke.TypeExpr{Text: texts[i]}
	}
	return &invoke.TypeExpr{Text: "(" + strings.Join(texts, ", ") + ")", Elems: elems}
}

// typeString writes t as the package itself would, recording the imports
// it needs.
func (b *builder) typeString(t types.Type) string {
	return types.TypeString(t, b.qualify)
}

func (b *builder) qualify(p *types.Package) string {
	if p == nil || p.Path() == b.pkg.Path() {
		return ""
	}
	if prev, ok := b.imports[p.Name()]; ok && prev != p.Path() && b.conflict == nil {
		b.conflict = errors.WithHint(
			errors.NewUnsupportedShapeError("packages %s and %s are both named %s", prev, p.Path(), p.Name()),
			"member signatures may reference only one package per name")
	}
	b.imports[p.Name()] = p.Path()
	return p.Name()
}

// nameParams gives every member the first member's parameter names, and
// names blank parameters argN.
func nameParams(members []invoke.Member) {
	if len(members) == 0 {
		return
	}
	first := members[0].Params
	for i := range first {
		if first[i].Name == "" || first[i].Name == "_" {
			first[i].Name = fmt.Sprintf("arg%d", i)
		}
	}
	for _, m := range members[1:] {
		if len(m.Params) != len(first) {
			continue
		}
		for i := range m.Params {
			m.Params[i].Name = first[i].Name
		}
	}
}

// clonePackages are the packages the Go printer qualifies clone calls with.
var clonePackages = map[invoke.CloneStrategy]string{
	invoke.CloneSlice: "slices",
	invoke.CloneMap:   "maps",
}

// checkCloneShadowing rejects a parameter named like a package that a
// cloned argument is copied with, e.g. slices.Clone next to a parameter
// called slices.
func checkCloneShadowing(g invoke.Group) error {
	if len(g.Members) == 0 {
		return nil
	}
	params := g.Members[0].Params
	for _, idx := range g.Options.CloneIndices {
		if idx < 0 || idx >= len(params) {
			continue
		}
		pkg, ok := clonePackages[params[idx].Clone]
		if !ok {
			continue
		}
		for _, p := range params {
			if p.Name == pkg {
				return errors.WithHintf(
					errors.NewUnsupportedShapeError("parameter %s of %s shadows package %s used to clone %s",
						p.Name, g.Members[0].Name, pkg, params[idx].Name),
					"rename the parameter or drop index %d from clone=", idx)
			}
		}
	}
	return nil
}

// ownerType is the receiver type of the generated methods: the first
// member's, made a pointer when any member has a pointer receiver.
func ownerType(members []invoke.Member) string {
	self := members[0].SelfParam()
	if self == nil {
		return ""
	}
	text := self.Type.Text
	if strings.HasPrefix(text, "*") {
		return text
	}
	for i := range members {
		if p := members[i].SelfParam(); p != nil && p.SelfMode == invoke.SelfByMutRef {
			return "*" + text
		}
	}
	return text
}

func visibility(exported bool) string {
	if exported {
		return "exported"
	}
	return "unexported"
}

// cloneStrategy picks how a printer duplicates a value of type t.
func cloneStrategy(t types.Type) invoke.CloneStrategy {
	if hasCloneMethod(t) {
		return invoke.CloneMethod
	}
	switch t.Underlying().(type) {
	case *types.Slice:
		return invoke.CloneSlice
	case *types.Map:
		return invoke.CloneMap
	}
	return invoke.CloneCopy
}

func hasCloneMethod(t types.Type) bool {
	if _, ok := t.(*types.TypeParam); ok {
		return false
	}
	obj, _, _ := types.LookupFieldOrMethod(t, true, nil, "Clone")
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1 &&
		types.Identical(sig.Results().At(0).Type(), t)
}

// mentionedIn reports whether tp occurs in any of the parameter types, in
// which case the compiler infers it from the arguments.
func mentionedIn(tp *types.TypeParam, params *types.Tuple) bool {
	for i := 0; i < params.Len(); i++ {
		if mentions(params.At(i).Type(), tp) {
			return true
		}
	}
	return false
}

func mentions(t types.Type, tp *types.TypeParam) bool {
	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		return t == tp
	case *types.Pointer:
		return mentions(t.Elem(), tp)
	case *types.Slice:
		return mentions(t.Elem(), tp)
	case *types.Array:
		return mentions(t.Elem(), tp)
	case *types.Chan:
		return mentions(t.Elem(), tp)
	case *types.Map:
		return mentions(t.Key(), tp) || mentions(t.Elem(), tp)
	case *types.Signature:
		return mentionedIn(tp, t.Params()) || mentionedIn(tp, t.Results())
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			if mentions(t.Field(i).Type(), tp) {
				return true
			}
		}
	case *types.Named:
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			if mentions(args.At(i), tp) {
				return true
			}
		}
	}
	return false
}
