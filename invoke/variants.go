package invoke

// emitVariants builds the six entry points in fixed order. calls holds one
// call site per member, in member order.
func emitVariants(g Group, n Namer, sel Selection, calls []CallSite) []FunctionDecl {
	first := g.first()

	var receiver *Param
	var params []Param
	for _, p := range first.Params {
		if p.Self {
			p := p
			receiver = &p
			continue
		}
		params = append(params, p)
	}

	fns := make([]FunctionDecl, 0, len(Variants))
	for _, kind := range Variants {
		fns = append(fns, FunctionDecl{
			Kind:       kind,
			Name:       n.Variant(kind),
			Visibility: first.Visibility,
			Receiver:   receiver,
			Params:     params,
			Callback:   sel.Callback(kind),
			Selector:   sel.Selector(kind),
			Generics:   first.Generics,
			Body:       emitBody(g, kind, sel, calls),
		})
	}
	return fns
}

// emitBody lays out one step per member. The selecting variants keep the
// same steps and let the selector pick among them.
func emitBody(g Group, kind VariantKind, sel Selection, calls []CallSite) Body {
	body := Body{Mode: BodySequential}
	switch {
	case kind == InvokeEnum:
		body.Mode = BodyDispatchTag
	case kind.selects():
		body.Mode = BodyDispatchIndex
		body.Fault = FaultMessage
	}

	emit := sel.Emit(kind)
	body.Steps = make([]Step, len(calls))
	for i, call := range calls {
		body.Steps[i] = Step{
			Index: i,
			Tag:   g.Members[i].Name,
			Call:  call,
			Emit:  emit,
		}
	}
	return body
}
