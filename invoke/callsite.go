package invoke

// BuildCallSite builds the invocation of member m inside a generated
// function. Receiver and arguments are the generated function's own
// parameter names, which are the first member's.
func BuildCallSite(g Group, m Member, sel Selection) CallSite {
	site := CallSite{
		Member: m.Name,
		Owner:  g.Owner,
	}
	if sel.Instantiate {
		site.Instantiate = append([]string(nil), sel.TypeArgs...)
	}

	duplicate := make(map[int]bool, len(g.Options.CloneIndices))
	for _, idx := range g.Options.CloneIndices {
		duplicate[idx] = true
	}

	for i, p := range g.first().Params {
		if p.Self {
			site.Receiver = p.Name
			continue
		}
		arg := CallArg{
			Name:     p.Name,
			Variadic: p.Variadic,
		}
		if duplicate[i] {
			arg.Duplicate = true
			arg.Clone = p.Clone
		}
		site.Args = append(site.Args, arg)
	}
	return site
}
