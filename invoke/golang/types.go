package golang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"
)

// typeBuilder rebuilds type texts as jennifer code. Package-qualified names
// become jen.Qual so the file's import block follows what is referenced.
type typeBuilder struct {
	// imports maps package names used in type texts to import paths.
	imports map[string]string
}

// code converts a type text. Text that does not parse as a Go expression,
// or uses a form not handled here, is emitted unchanged.
func (b typeBuilder) code(text string) jen.Code {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return jen.Id(text)
	}
	return b.expr(text, expr)
}

func (b typeBuilder) expr(src string, e ast.Expr) *jen.Statement {
	switch e := e.(type) {
	case *ast.Ident:
		return jen.Id(e.Name)
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok {
			if path, ok := b.imports[pkg.Name]; ok {
				return jen.Qual(path, e.Sel.Name)
			}
		}
	case *ast.StarExpr:
		return jen.Op("*").Add(b.expr(src, e.X))
	case *ast.ParenExpr:
		return jen.Parens(b.expr(src, e.X))
	case *ast.ArrayType:
		if e.Len == nil {
			return jen.Index().Add(b.expr(src, e.Elt))
		}
		return jen.Index(jen.Id(slice(src, e.Len))).Add(b.expr(src, e.Elt))
	case *ast.MapType:
		return jen.Map(b.expr(src, e.Key)).Add(b.expr(src, e.Value))
	case *ast.ChanType:
		switch e.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(b.expr(src, e.Value))
		case ast.RECV:
			return jen.Op("<-").Chan().Add(b.expr(src, e.Value))
		default:
			return jen.Chan().Add(b.expr(src, e.Value))
		}
	case *ast.Ellipsis:
		return jen.Op("...").Add(b.expr(src, e.Elt))
	case *ast.IndexExpr:
		return b.expr(src, e.X).Types(b.expr(src, e.Index))
	case *ast.IndexListExpr:
		args := make([]jen.Code, len(e.Indices))
		for i, idx := range e.Indices {
			args[i] = b.expr(src, idx)
		}
		return b.expr(src, e.X).Types(args...)
	case *ast.FuncType:
		fn := jen.Func().Params(b.fields(src, e.Params)...)
		if e.Results == nil {
			return fn
		}
		if len(e.Results.List) == 1 && len(e.Results.List[0].Names) == 0 {
			return fn.Add(b.expr(src, e.Results.List[0].Type))
		}
		return fn.Params(b.fields(src, e.Results)...)
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return jen.Interface()
		}
	case *ast.StructType:
		if e.Fields == nil || len(e.Fields.List) == 0 {
			return jen.Struct()
		}
	case *ast.UnaryExpr:
		if e.Op == token.TILDE {
			return jen.Op("~").Add(b.expr(src, e.X))
		}
	case *ast.BinaryExpr:
		if e.Op == token.OR {
			return b.expr(src, e.X).Op("|").Add(b.expr(src, e.Y))
		}
	}
	return jen.Id(slice(src, e))
}

func (b typeBuilder) fields(src string, list *ast.FieldList) []jen.Code {
	if list == nil {
		return nil
	}
	var out []jen.Code
	for _, f := range list.List {
		if len(f.Names) == 0 {
			out = append(out, b.expr(src, f.Type))
			continue
		}
		for _, name := range f.Names {
			out = append(out, jen.Id(name.Name).Add(b.expr(src, f.Type)))
		}
	}
	return out
}

// slice returns the source text of n. ParseExpr positions are 1-based
// offsets into src.
func slice(src string, n ast.Node) string {
	start, end := int(n.Pos())-1, int(n.End())-1
	if start < 0 || end > len(src) || start > end {
		return src
	}
	return strings.TrimSpace(src[start:end])
}
