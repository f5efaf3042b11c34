package invoke

import "github.com/teranos/invokegen/errors"

// Selection records the per-group decisions every variant shares.
type Selection struct {
	// Return is the group's result type, nil when members return nothing.
	Return *TypeExpr
	// Instantiate is set when call sites must spell out type arguments.
	Instantiate bool
	// TypeArgs are the names written at an instantiated call site.
	TypeArgs []string
}

// Select decides how the variants of a validated group are shaped.
//
// Explicit instantiation is needed when some member has a type parameter
// the host cannot infer from the arguments. The type arguments are the
// invoke function's own generic names, copied from the first member, so an
// anonymous one makes the requirement unsatisfiable and the group is
// rejected rather than generated without instantiation.
func Select(g Group) (Selection, error) {
	first := g.first()
	sel := Selection{Return: first.Return}

	for i := range g.Members {
		for _, gp := range g.Members[i].Generics {
			if gp.Kind == GenericType && !gp.Inferable {
				sel.Instantiate = true
			}
		}
	}
	if !sel.Instantiate {
		return sel, nil
	}

	for _, gp := range first.Generics {
		if gp.Kind != GenericType {
			continue
		}
		if gp.Anonymous {
			return Selection{}, errors.WithHint(
				errors.NewUnsupportedShapeError(
					"group %s needs explicit type arguments but a type parameter of %s is anonymous",
					g.Owner, first.Name),
				"name every type parameter, or make each one appear in a parameter type")
		}
		sel.TypeArgs = append(sel.TypeArgs, gp.Name)
	}
	return sel, nil
}

// Callback returns the consumer parameter of a variant, or nil when the
// variant has nothing to report: invoke_all and invoke_subset of a group
// without a return type.
func (s Selection) Callback(kind VariantKind) *CallbackDecl {
	var args []CallbackArg
	switch {
	case kind.enumerated():
		args = append(args, CallbackArg{Kind: ArgIndex})
	case kind.tagged():
		args = append(args, CallbackArg{Kind: ArgTag})
	}
	if s.Return != nil {
		args = append(args, CallbackArg{Kind: ArgValue, Type: s.Return})
	}
	if len(args) == 0 {
		return nil
	}
	return &CallbackDecl{Name: CallbackName, Args: args}
}

// Emit returns what each step of the variant passes to its callback.
func (s Selection) Emit(kind VariantKind) EmitMode {
	hasValue := s.Return != nil
	switch {
	case kind.enumerated() && hasValue:
		return EmitIndexValue
	case kind.enumerated():
		return EmitIndex
	case kind.tagged() && hasValue:
		return EmitTagValue
	case kind.tagged():
		return EmitTag
	case hasValue:
		return EmitValue
	default:
		return EmitNone
	}
}

// Selector returns the sequence parameter of a variant, or nil.
func (s Selection) Selector(kind VariantKind) *SelectorDecl {
	if !kind.selects() {
		return nil
	}
	item := SelectIndex
	if kind.tagged() {
		item = SelectTag
	}
	return &SelectorDecl{Name: SelectorName, Var: SelectorVar, Item: item}
}
