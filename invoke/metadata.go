package invoke

// emitMetadata builds METHOD_COUNT and METHOD_LIST. Both are emitted for
// every group.
func emitMetadata(g Group, n Namer) MetadataDecl {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = m.Name
	}
	return MetadataDecl{
		Count:      n.MethodCount(),
		List:       n.MethodList(),
		Visibility: g.first().Visibility,
		Value:      len(names),
		Names:      names,
	}
}
