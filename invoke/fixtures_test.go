package invoke

func intType() TypeExpr { return TypeExpr{Text: "int"} }

func ptr(t TypeExpr) *TypeExpr { return &t }

func suffix(s string) *string { return &s }

// tester1 is three free functions (i int) int that each return i.
func tester1() Group {
	var members []Member
	for _, name := range []string{"fn1", "fn2", "fn3"} {
		members = append(members, Member{
			Name:       name,
			Visibility: "pub",
			Params:     []Param{{Name: "i", Type: intType()}},
			Return:     ptr(intType()),
		})
	}
	return Group{Owner: "Tester1", Members: members}
}

// counter is a method group on *Counter with no return value.
func counter(names ...string) Group {
	var members []Member
	for _, name := range names {
		members = append(members, Member{
			Name: name,
			Params: []Param{
				{Name: "c", Type: TypeExpr{Text: "*Counter"}, Self: true, SelfMode: SelfByMutRef},
				{Name: "delta", Type: intType()},
			},
		})
	}
	return Group{Owner: "Counter", OwnerType: "*Counter", Members: members}
}

// buffers is a method group taking a slice and a label, where the slice
// may be duplicated per call.
func buffers() Group {
	var members []Member
	for _, name := range []string{"fill", "scan"} {
		members = append(members, Member{
			Name: name,
			Params: []Param{
				{Name: "b", Type: TypeExpr{Text: "Buffers"}, Self: true, SelfMode: SelfByRef},
				{Name: "data", Type: TypeExpr{Text: "[]int"}, Clone: CloneSlice},
				{Name: "label", Type: TypeExpr{Text: "string"}},
			},
			Return: ptr(intType()),
		})
	}
	return Group{Owner: "Buffers", OwnerType: "Buffers", Members: members}
}

// generic builds a group of functions with one type parameter T. When
// inferable is false, T appears only in the return type.
func generic(inferable bool, anonymous bool) Group {
	name := "T"
	if anonymous {
		name = "_"
	}
	var members []Member
	for _, fn := range []string{"zero", "one"} {
		members = append(members, Member{
			Name: fn,
			Generics: []GenericParam{
				{Name: name, Bound: "any", Kind: GenericType, Inferable: inferable, Anonymous: anonymous},
				{Name: "N", Kind: GenericConst, Inferable: true},
			},
			Params: []Param{{Name: "n", Type: intType()}},
			Return: ptr(TypeExpr{Text: "T"}),
		})
	}
	return Group{Owner: "Make", Members: members}
}
