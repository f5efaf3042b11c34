// Package golang renders engine outputs as Go source using jennifer.
//
// Method groups become methods on the owner's receiver type. Function
// groups become package functions scoped by the owner name. Each package
// gets one generated file holding every group declared in it.
package golang

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/invoke"
)

// Header marks generated files; ast.IsGenerated recognizes it.
const Header = "Code generated by invokegen. DO NOT EDIT."

// resultVar prefixes temporaries holding multi-value results.
const resultVar = "invoke_impl_r"

// Printer implements invoke.Printer for Go
type Printer struct {
	casing string
}

// NewPrinter creates a Go printer for the given casing mode (am.CasingGo or
// am.CasingVerbatim).
func NewPrinter(casing string) *Printer {
	return &Printer{casing: casing}
}

// Language returns "go"
func (p *Printer) Language() string {
	return "go"
}

// Print renders all outputs of pkg into one file.
func (p *Printer) Print(pkg *invoke.PackageOutput) ([]byte, error) {
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	f.HeaderComment(Header)

	for _, out := range pkg.Outputs {
		for name, path := range out.Imports {
			f.ImportName(path, name)
		}
	}

	renderers := make([]*renderer, len(pkg.Outputs))
	for i, out := range pkg.Outputs {
		renderers[i] = newRenderer(p.casing, pkg.Seq, out)
	}
	if err := checkCollisions(renderers); err != nil {
		return nil, err
	}
	for _, r := range renderers {
		r.render(f)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Wrapf(err, "failed to render package %s", pkg.Name)
	}
	return buf.Bytes(), nil
}

// renderer emits the declarations of one output.
type renderer struct {
	out   *invoke.Output
	names naming
	types typeBuilder
	seq   bool

	tag      string
	variants []string
	arity    int
}

func newRenderer(casing string, seq bool, out *invoke.Output) *renderer {
	r := &renderer{
		out:   out,
		names: newNaming(casing, out.Constants.Visibility),
		types: typeBuilder{imports: out.Imports},
		seq:   seq,
	}
	if len(out.Members) > 0 {
		r.arity = out.Members[0].Return.Arity()
	}
	if out.TagType != nil {
		r.tag = r.names.join(out.TagType.Name)
		for _, v := range out.TagType.Variants {
			r.variants = append(r.variants, r.names.join(r.tag, v))
		}
	}
	return r
}

// checkCollisions rejects outputs whose distinct engine names map to the
// same Go identifier, e.g. members inc and Inc in go casing.
func checkCollisions(renderers []*renderer) error {
	owners := make(map[string]string)
	for _, r := range renderers {
		for _, id := range r.declared() {
			if prev, ok := owners[id]; ok {
				err := errors.NewUnsupportedShapeError("%s and %s both declare %s", prev, r.out.Owner, id)
				if prev == r.out.Owner {
					err = errors.NewUnsupportedShapeError("%s declares %s twice", prev, id)
				}
				return errors.WithHint(err,
					`set casing = "verbatim" or pick members with distinct names using members=`)
			}
			owners[id] = r.out.Owner
		}
	}
	return nil
}

// declared lists the identifiers r emits. Methods are keyed by receiver.
func (r *renderer) declared() []string {
	count := r.names.constant(r.out.Owner, invoke.MethodCountBase, r.out.Suffix)
	list := r.names.constant(r.out.Owner, invoke.MethodListBase, r.out.Suffix)
	ids := []string{count, list}

	if r.out.TagType != nil {
		ids = append(ids,
			r.tag,
			r.names.sentinel(r.tag),
			r.names.join(r.tag, invoke.FromStrBase),
			r.names.join(r.tag, invoke.IterBase),
		)
		ids = append(ids, r.variants...)
	}

	for i := range r.out.Functions {
		fn := &r.out.Functions[i]
		if fn.Receiver == nil {
			ids = append(ids, r.names.join(r.out.Owner, fn.Name))
			continue
		}
		recv := r.out.OwnerType
		if recv == "" {
			recv = fn.Receiver.Type.Text
		}
		ids = append(ids, strings.TrimPrefix(recv, "*")+"."+r.names.join(fn.Name))
	}
	return ids
}

func (r *renderer) render(f *jen.File) {
	r.metadata(f)
	if r.out.TagType != nil {
		r.tagType(f)
	}
	for i := range r.out.Functions {
		r.function(f, &r.out.Functions[i])
	}
}

func (r *renderer) metadata(f *jen.File) {
	c := r.out.Constants
	count := r.names.constant(r.out.Owner, invoke.MethodCountBase, r.out.Suffix)
	list := r.names.constant(r.out.Owner, invoke.MethodListBase, r.out.Suffix)

	names := make([]jen.Code, len(c.Names))
	for i, n := range c.Names {
		names[i] = jen.Lit(n)
	}

	f.Commentf("%s is the number of members of %s.", count, r.out.Owner)
	f.Const().Id(count).Op("=").Lit(c.Value)
	f.Line()
	f.Commentf("%s names the members of %s in declaration order.", list, r.out.Owner)
	f.Var().Id(list).Op("=").Index(jen.Lit(c.Value)).String().Values(names...)
	f.Line()
}

func (r *renderer) tagType(f *jen.File) {
	decl := r.out.TagType
	tag := r.tag
	sentinel := r.names.sentinel(tag)
	fromStr := r.names.join(tag, invoke.FromStrBase)
	iterName := r.names.join(tag, invoke.IterBase)
	asStr := decl.AsStr.Name
	if !r.names.verbatim {
		asStr = r.names.join(invoke.AsStrBase)
	}

	f.Commentf("%s identifies one member of %s.", tag, r.out.Owner)
	f.Type().Id(tag).Struct(jen.Id("ordinal").Int())
	f.Line()

	defs := make([]jen.Code, len(r.variants))
	for i, v := range r.variants {
		defs[i] = jen.Id(v).Op("=").Id(tag).Values(jen.Lit(i))
	}
	f.Var().Defs(defs...)
	f.Line()

	f.Commentf("%s is wrapped by errors of %s.", sentinel, fromStr)
	f.Var().Id(sentinel).Op("=").Qual("errors", "New").Call(jen.Lit(decl.Mismatch))
	f.Line()

	names := make([]jen.Code, len(decl.Variants))
	cases := make([]jen.Code, len(decl.Variants))
	vars := make([]jen.Code, len(decl.Variants))
	for i, v := range decl.Variants {
		names[i] = jen.Lit(v)
		cases[i] = jen.Case(jen.Lit(v)).Block(jen.Return(jen.Id(r.variants[i]), jen.Nil()))
		vars[i] = jen.Id(r.variants[i])
	}

	f.Commentf("%s returns the name of the member t identifies.", asStr)
	f.Func().Params(jen.Id("t").Id(tag)).Id(asStr).Params().String().Block(
		jen.Return(jen.Index(jen.Op("...")).String().Values(names...).Index(jen.Id("t").Dot("ordinal"))),
	)
	f.Line()

	f.Func().Params(jen.Id("t").Id(tag)).Id("String").Params().String().Block(
		jen.Return(jen.Id("t").Dot(asStr).Call()),
	)
	f.Line()

	f.Commentf("%s returns the tag of the member named s.", fromStr)
	f.Func().Id(fromStr).Params(jen.Id("s").String()).Params(jen.Id(tag), jen.Error()).Block(
		jen.Switch(jen.Id("s")).Block(cases...),
		jen.Return(jen.Id(tag).Values(), jen.Qual("fmt", "Errorf").Call(jen.Lit("%w: %q"), jen.Id(sentinel), jen.Id("s"))),
	)
	f.Line()

	f.Commentf("%s yields every tag in declaration order.", iterName)
	if r.seq {
		f.Func().Id(iterName).Params().Qual("iter", "Seq").Types(jen.Id(tag)).Block(
			jen.Return(jen.Func().Params(jen.Id("yield").Func().Params(jen.Id(tag)).Bool()).Block(
				jen.For(jen.List(jen.Id("_"), jen.Id("t")).Op(":=").Range().Index(jen.Op("...")).Id(tag).Values(vars...)).Block(
					jen.If(jen.Op("!").Id("yield").Call(jen.Id("t"))).Block(jen.Return()),
				),
			)),
		)
	} else {
		f.Func().Id(iterName).Params().Index().Id(tag).Block(
			jen.Return(jen.Index().Id(tag).Values(vars...)),
		)
	}
	f.Line()
}

func (r *renderer) function(f *jen.File, fn *invoke.FunctionDecl) {
	name := r.names.join(fn.Name)
	if fn.Receiver == nil {
		name = r.names.join(r.out.Owner, fn.Name)
	}

	f.Comment(r.doc(name, fn))
	stmt := f.Func()
	if fn.Receiver != nil {
		recv := r.out.OwnerType
		if recv == "" {
			recv = fn.Receiver.Type.Text
		}
		stmt.Params(jen.Id(fn.Receiver.Name).Add(r.types.code(recv)))
	}
	stmt.Id(name)

	if fn.Receiver == nil {
		var tparams []jen.Code
		for _, gp := range fn.Generics {
			if gp.Kind != invoke.GenericType {
				continue
			}
			bound := jen.Any()
			if gp.Bound != "" {
				bound = jen.Add(r.types.code(gp.Bound))
			}
			tparams = append(tparams, jen.Id(gp.Name).Add(bound))
		}
		if len(tparams) > 0 {
			stmt.Types(tparams...)
		}
	}

	stmt.Params(r.params(fn)...).Block(r.body(fn)...)
	f.Line()
}

func (r *renderer) doc(name string, fn *invoke.FunctionDecl) string {
	owner := r.out.Owner
	switch fn.Kind {
	case invoke.InvokeAll:
		return fmt.Sprintf("%s calls every member of %s in declaration order.", name, owner)
	case invoke.InvokeSubset:
		return fmt.Sprintf("%s calls the members of %s at the given indices. An index outside [0, %d) panics.",
			name, owner, len(r.out.Members))
	case invoke.InvokeAllEnumerated:
		return fmt.Sprintf("%s calls every member of %s, passing each member's index to consumer.", name, owner)
	case invoke.InvokeAllEnum:
		return fmt.Sprintf("%s calls every member of %s, passing each member's tag to consumer.", name, owner)
	case invoke.InvokeEnumerated:
		return fmt.Sprintf("%s is %s that also passes each index to consumer.",
			name, r.siblingName(fn, invoke.InvokeSubset))
	default:
		return fmt.Sprintf("%s calls the members of %s named by the given tags.", name, owner)
	}
}

func (r *renderer) siblingName(fn *invoke.FunctionDecl, kind invoke.VariantKind) string {
	other := r.out.Function(kind)
	if other == nil {
		return kind.BaseName()
	}
	if fn.Receiver == nil {
		return r.names.join(r.out.Owner, other.Name)
	}
	return r.names.join(other.Name)
}

func (r *renderer) params(fn *invoke.FunctionDecl) []jen.Code {
	var params []jen.Code
	for _, p := range fn.Params {
		typ := r.types.code(p.Type.Text)
		if p.Variadic {
			params = append(params, jen.Id(p.Name).Index().Add(typ))
			continue
		}
		params = append(params, jen.Id(p.Name).Add(typ))
	}

	if sel := fn.Selector; sel != nil {
		item := jen.Int()
		if sel.Item == invoke.SelectTag {
			item = jen.Id(r.tag)
		}
		if r.seq {
			params = append(params, jen.Id(sel.Name).Qual("iter", "Seq").Types(item))
		} else {
			params = append(params, jen.Id(sel.Name).Index().Add(item))
		}
	}

	if cb := fn.Callback; cb != nil {
		var args []jen.Code
		for _, a := range cb.Args {
			switch a.Kind {
			case invoke.ArgIndex:
				args = append(args, jen.Int())
			case invoke.ArgTag:
				args = append(args, jen.Id(r.tag))
			case invoke.ArgValue:
				for _, v := range a.Type.Values() {
					args = append(args, r.types.code(v.Text))
				}
			}
		}
		params = append(params, jen.Id(cb.Name).Func().Params(args...))
	}
	return params
}

func (r *renderer) body(fn *invoke.FunctionDecl) []jen.Code {
	switch fn.Body.Mode {
	case invoke.BodyDispatchIndex, invoke.BodyDispatchTag:
		return []jen.Code{r.dispatch(fn)}
	}

	var stmts []jen.Code
	for _, s := range fn.Body.Steps {
		step := r.step(fn, s)
		if r.arity > 1 {
			// temporaries of each step get their own scope
			stmts = append(stmts, jen.Block(step...))
			continue
		}
		stmts = append(stmts, step...)
	}
	return stmts
}

func (r *renderer) dispatch(fn *invoke.FunctionDecl) jen.Code {
	sel := fn.Selector
	var cases []jen.Code
	for _, s := range fn.Body.Steps {
		match := jen.Lit(s.Index)
		if fn.Body.Mode == invoke.BodyDispatchTag {
			match = jen.Id(r.variants[s.Index])
		}
		cases = append(cases, jen.Case(match).Block(r.step(fn, s)...))
	}
	if fn.Body.Mode == invoke.BodyDispatchIndex {
		cases = append(cases, jen.Default().Block(jen.Panic(jen.Lit(fn.Body.Fault))))
	}

	loop := jen.List(jen.Id("_"), jen.Id(sel.Var)).Op(":=").Range().Id(sel.Name)
	if r.seq {
		loop = jen.Id(sel.Var).Op(":=").Range().Id(sel.Name)
	}
	return jen.For(loop).Block(jen.Switch(jen.Id(sel.Var)).Block(cases...))
}

// step calls one member and hands its result to the callback.
func (r *renderer) step(fn *invoke.FunctionDecl, s invoke.Step) []jen.Code {
	call := r.call(s.Call)

	var prefix []jen.Code
	switch s.Emit {
	case invoke.EmitNone:
		return []jen.Code{call}
	case invoke.EmitIndex:
		return []jen.Code{call, jen.Id(fn.Callback.Name).Call(jen.Lit(s.Index))}
	case invoke.EmitTag:
		return []jen.Code{call, jen.Id(fn.Callback.Name).Call(jen.Id(r.variants[s.Index]))}
	case invoke.EmitIndexValue:
		prefix = append(prefix, jen.Lit(s.Index))
	case invoke.EmitTagValue:
		prefix = append(prefix, jen.Id(r.variants[s.Index]))
	}

	if r.arity <= 1 {
		return []jen.Code{jen.Id(fn.Callback.Name).Call(append(prefix, call)...)}
	}

	results := make([]jen.Code, r.arity)
	for i := range results {
		results[i] = jen.Id(fmt.Sprintf("%s%d", resultVar, i))
	}
	return []jen.Code{
		jen.List(results...).Op(":=").Add(call),
		jen.Id(fn.Callback.Name).Call(append(prefix, results...)...),
	}
}

func (r *renderer) call(site invoke.CallSite) *jen.Statement {
	target := jen.Id(site.Member)
	if site.Receiver != "" {
		target = jen.Id(site.Receiver).Dot(site.Member)
	}
	if len(site.Instantiate) > 0 {
		targs := make([]jen.Code, len(site.Instantiate))
		for i, t := range site.Instantiate {
			targs[i] = jen.Id(t)
		}
		target = target.Types(targs...)
	}

	args := make([]jen.Code, len(site.Args))
	for i, a := range site.Args {
		arg := jen.Id(a.Name)
		if a.Duplicate {
			switch a.Clone {
			case invoke.CloneSlice:
				arg = jen.Qual("slices", "Clone").Call(jen.Id(a.Name))
			case invoke.CloneMap:
				arg = jen.Qual("maps", "Clone").Call(jen.Id(a.Name))
			case invoke.CloneMethod:
				arg = jen.Id(a.Name).Dot("Clone").Call()
			}
		}
		if a.Variadic {
			arg = arg.Op("...")
		}
		args[i] = arg
	}
	return target.Call(args...)
}
