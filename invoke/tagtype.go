package invoke

// synthesizeTagType builds the tag type when at least one function refers
// to it, through a tag callback argument or a tag selector.
func synthesizeTagType(g Group, n Namer, fns []FunctionDecl) *TagTypeDecl {
	if !referencesTag(fns) {
		return nil
	}

	variants := make([]string, len(g.Members))
	for i, m := range g.Members {
		variants[i] = m.Name
	}

	return &TagTypeDecl{
		Name:       n.TagType(g.Owner),
		Visibility: g.first().Visibility,
		Variants:   variants,
		FromStr:    ConversionDecl{Name: n.FromStr(), Fallible: true},
		AsStr:      ConversionDecl{Name: n.AsStr()},
		Iter:       ConversionDecl{Name: n.Iter()},
		Mismatch:   MismatchMessage,
	}
}

func referencesTag(fns []FunctionDecl) bool {
	for _, fn := range fns {
		if fn.Selector != nil && fn.Selector.Item == SelectTag {
			return true
		}
		if fn.Callback == nil {
			continue
		}
		for _, arg := range fn.Callback.Args {
			if arg.Kind == ArgTag {
				return true
			}
		}
	}
	return false
}
