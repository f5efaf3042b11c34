package invoke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/invokegen/errors"
)

func TestGenerateTester1InvokeAll(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)

	m := newMachine(t).identity("fn1", "fn2", "fn3")
	var got collected
	m.run(out.Function(InvokeAll), map[string]any{"i": 5}, got.consume, nil)

	assert.Equal(t, []string{"[5]", "[5]", "[5]"}, got.values)
	assert.Equal(t, []string{
		"call fn1", "emit",
		"call fn2", "emit",
		"call fn3", "emit",
	}, m.trace, "each callback runs right after its call")
}

func TestGenerateTester1Subset(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)

	m := newMachine(t).identity("fn1", "fn2", "fn3")
	var got collected
	m.run(out.Function(InvokeSubset), map[string]any{"i": 5}, got.consume, []any{1, 0})

	assert.Equal(t, []string{"[5]", "[5]"}, got.values)
	assert.Equal(t, []string{"call fn2", "emit", "call fn1", "emit"}, m.trace)
}

func TestGenerateSubsetRepeatsAndEmpty(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)
	fn := out.Function(InvokeSubset)

	m := newMachine(t).identity("fn1", "fn2", "fn3")
	m.run(fn, map[string]any{"i": 1}, nil, []any{2, 2, 0})
	assert.Equal(t, []string{"call fn3", "emit", "call fn3", "emit", "call fn1", "emit"}, m.trace)

	m = newMachine(t).identity("fn1", "fn2", "fn3")
	m.run(fn, map[string]any{"i": 1}, nil, nil)
	assert.Empty(t, m.trace)
}

func TestGenerateSubsetInvalidIndexPanics(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)
	fn := out.Function(InvokeSubset)
	assert.Equal(t, FaultMessage, fn.Body.Fault)

	m := newMachine(t).identity("fn1", "fn2", "fn3")
	assert.PanicsWithValue(t, FaultMessage, func() {
		m.run(fn, map[string]any{"i": 5}, nil, []any{0, 3})
	})
	// The valid prefix runs before the fault.
	assert.Equal(t, []string{"call fn1", "emit"}, m.trace)
}

func TestGenerateTester1Enumerated(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)

	m := newMachine(t).identity("fn1", "fn2", "fn3")
	var got collected
	m.run(out.Function(InvokeAllEnumerated), map[string]any{"i": 5}, got.consume, nil)
	assert.Equal(t, []string{"[0 5]", "[1 5]", "[2 5]"}, got.values)

	got = collected{}
	m.run(out.Function(InvokeEnumerated), map[string]any{"i": 7}, got.consume, []any{2, 0})
	assert.Equal(t, []string{"[2 7]", "[0 7]"}, got.values)
}

func TestGenerateEnumVariants(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)

	m := newMachine(t).identity("fn1", "fn2", "fn3")
	var got collected
	m.run(out.Function(InvokeAllEnum), map[string]any{"i": 4}, got.consume, nil)
	assert.Equal(t, []string{"[fn1 4]", "[fn2 4]", "[fn3 4]"}, got.values)

	got = collected{}
	m.run(out.Function(InvokeEnum), map[string]any{"i": 4}, got.consume, []any{"fn3", "fn1", "fn2"})
	assert.Equal(t, []string{"[fn3 4]", "[fn1 4]", "[fn2 4]"}, got.values)
}

func TestGenerateEnumDispatchIsExhaustive(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)

	fn := out.Function(InvokeEnum)
	require.NotNil(t, out.TagType)
	assert.Equal(t, BodyDispatchTag, fn.Body.Mode)
	assert.Empty(t, fn.Body.Fault, "tag dispatch never faults")

	var tags []string
	for _, s := range fn.Body.Steps {
		tags = append(tags, s.Tag)
	}
	assert.ElementsMatch(t, out.TagType.Variants, tags)
}

func TestGenerateWithoutReturn(t *testing.T) {
	out, err := Generate(counter("inc", "dec"))
	require.NoError(t, err)

	assert.Nil(t, out.Function(InvokeAll).Callback, "nothing to report")
	assert.Nil(t, out.Function(InvokeSubset).Callback)

	enumerated := out.Function(InvokeAllEnumerated).Callback
	require.NotNil(t, enumerated)
	assert.Equal(t, []CallbackArg{{Kind: ArgIndex}}, enumerated.Args)

	tagged := out.Function(InvokeAllEnum).Callback
	require.NotNil(t, tagged)
	assert.Equal(t, []CallbackArg{{Kind: ArgTag}}, tagged.Args)

	m := newMachine(t).silent("inc", "dec")
	var got collected
	m.run(out.Function(InvokeAllEnumerated), map[string]any{"c": "counter", "delta": 1}, got.consume, nil)
	assert.Equal(t, []string{"[0]", "[1]"}, got.values)
	assert.Equal(t, []string{"call inc", "emit", "call dec", "emit"}, m.trace)
}

func TestGenerateMethodReceiver(t *testing.T) {
	out, err := Generate(counter("inc", "dec"))
	require.NoError(t, err)

	for _, fn := range out.Functions {
		require.NotNil(t, fn.Receiver, fn.Name)
		assert.Equal(t, "c", fn.Receiver.Name)
		assert.Equal(t, []string{"delta"}, paramNames(fn.Params), "receiver is not a parameter")
		for _, s := range fn.Body.Steps {
			assert.Equal(t, "c", s.Call.Receiver)
			assert.Equal(t, "Counter", s.Call.Owner)
		}
	}

	var seen any
	m := newMachine(t)
	m.impls["inc"] = func(recv any, _ []any) []any { seen = recv; return nil }
	m.impls["dec"] = func(any, []any) []any { return nil }
	m.run(out.Function(InvokeAll), map[string]any{"c": "the-counter", "delta": 1}, nil, nil)
	assert.Equal(t, "the-counter", seen)
}

func TestGenerateMetadata(t *testing.T) {
	out, err := Generate(counter("a", "b", "c", "d"))
	require.NoError(t, err)

	assert.Equal(t, MethodCountBase, out.Constants.Count)
	assert.Equal(t, MethodListBase, out.Constants.List)
	assert.Equal(t, 4, out.Constants.Value)
	assert.Equal(t, []string{"a", "b", "c", "d"}, out.Constants.Names)
}

func TestGenerateTagConversions(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)
	tag := out.TagType
	require.NotNil(t, tag)

	assert.Equal(t, "Tester1_invoke_impl_enum", tag.Name)
	assert.Equal(t, FromStrBase, tag.FromStr.Name)
	assert.True(t, tag.FromStr.Fallible)
	assert.Equal(t, AsStrBase, tag.AsStr.Name)
	assert.False(t, tag.AsStr.Fallible)
	assert.Equal(t, IterBase, tag.Iter.Name)

	for i, name := range out.Constants.Names {
		ord, err := tagFromStr(tag, name)
		require.NoError(t, err)
		assert.Equal(t, i, ord, "tag order follows member order")
		assert.Equal(t, name, tagAsStr(tag, ord))
	}

	_, err = tagFromStr(tag, "fn4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), MismatchMessage)
	_, err = tagFromStr(tag, "FN1")
	assert.Error(t, err, "matching is case-sensitive")
}

func TestGenerateSuffixesDoNotCollide(t *testing.T) {
	ga := counter("x", "y")
	ga.Options.NameSuffix = suffix("A")
	gb := counter("x", "y")
	gb.Options.NameSuffix = suffix("B")

	a, err := Generate(ga)
	require.NoError(t, err)
	b, err := Generate(gb)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, out := range []*Output{a, b} {
		for _, fn := range out.Functions {
			names[fn.Name] = true
		}
	}
	assert.Len(t, names, 12)
	assert.True(t, names["invoke_all_A"])
	assert.True(t, names["invoke_enum_B"])

	assert.Equal(t, "METHOD_COUNT_A", a.Constants.Count)
	assert.Equal(t, "METHOD_LIST_B", b.Constants.List)
	assert.Equal(t, "Counter_invoke_impl_enum_A", a.TagType.Name)
	assert.Equal(t, "try_from_str_B", b.TagType.FromStr.Name)
	assert.NotEqual(t, a.TagType.Name, b.TagType.Name)
	assert.Equal(t, "A", a.Suffix)
}

func TestGenerateCloneIndices(t *testing.T) {
	g := buffers()
	g.Options.CloneIndices = []int{1}
	out, err := Generate(g)
	require.NoError(t, err)

	site := out.Function(InvokeAll).Body.Steps[0].Call
	require.Len(t, site.Args, 2)
	assert.True(t, site.Args[0].Duplicate, "index 1 counts the receiver")
	assert.Equal(t, CloneSlice, site.Args[0].Clone)
	assert.False(t, site.Args[1].Duplicate)

	// Each member sees the caller's value even when an earlier one mutates it.
	m := newMachine(t)
	var seen []int
	m.impls["fill"] = func(_ any, args []any) []any {
		args[0].([]int)[0] = 99
		return []any{0}
	}
	m.impls["scan"] = func(_ any, args []any) []any {
		seen = args[0].([]int)
		return []any{0}
	}
	data := []int{1, 2}
	m.run(out.Function(InvokeAll), map[string]any{"b": nil, "data": data, "label": "x"}, nil, nil)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, []int{1, 2}, data)
}

func TestGenerateWithoutCloneSharesArgument(t *testing.T) {
	out, err := Generate(buffers())
	require.NoError(t, err)

	m := newMachine(t)
	var seen []int
	m.impls["fill"] = func(_ any, args []any) []any {
		args[0].([]int)[0] = 99
		return []any{0}
	}
	m.impls["scan"] = func(_ any, args []any) []any {
		seen = args[0].([]int)
		return []any{0}
	}
	m.run(out.Function(InvokeAll), map[string]any{"b": nil, "data": []int{1, 2}, "label": "x"}, nil, nil)
	assert.Equal(t, []int{99, 2}, seen)
}

func TestGenerateGenericsCopied(t *testing.T) {
	out, err := Generate(generic(true, false))
	require.NoError(t, err)

	for _, fn := range out.Functions {
		assert.Equal(t, out.Members[0].Generics, fn.Generics, fn.Name)
		for _, s := range fn.Body.Steps {
			assert.Empty(t, s.Call.Instantiate, "inferable type parameters need no instantiation")
		}
	}
}

func TestGenerateExplicitInstantiation(t *testing.T) {
	out, err := Generate(generic(false, false))
	require.NoError(t, err)

	for _, s := range out.Function(InvokeEnum).Body.Steps {
		assert.Equal(t, []string{"T"}, s.Call.Instantiate, "consts are never written")
	}
}

func TestGenerateAnonymousInstantiationRejected(t *testing.T) {
	_, err := Generate(generic(false, true))
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedShapeError(err))
	assert.Contains(t, err.Error(), "group Make")
}

func TestGenerateAnonymousInferableAccepted(t *testing.T) {
	_, err := Generate(generic(true, true))
	assert.NoError(t, err)
}

func TestGenerateVisibilityFollowsFirstMember(t *testing.T) {
	g := tester1()
	g.Members[1].Visibility = ""
	out, err := Generate(g)
	require.NoError(t, err)

	for _, fn := range out.Functions {
		assert.Equal(t, "pub", fn.Visibility)
	}
	assert.Equal(t, "pub", out.Constants.Visibility)
	assert.Equal(t, "pub", out.TagType.Visibility)
}

func TestGenerateVariadicForwarded(t *testing.T) {
	g := tester1()
	for i := range g.Members {
		g.Members[i].Params = append(g.Members[i].Params, Param{
			Name: "rest", Type: TypeExpr{Text: "string"}, Variadic: true,
		})
	}
	out, err := Generate(g)
	require.NoError(t, err)

	args := out.Function(InvokeAll).Body.Steps[2].Call.Args
	require.Len(t, args, 2)
	assert.False(t, args[0].Variadic)
	assert.True(t, args[1].Variadic)
}

func TestGenerateSingleMember(t *testing.T) {
	out, err := Generate(counter("only"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Constants.Value)
	assert.Equal(t, []string{"only"}, out.TagType.Variants)
	assert.Len(t, out.Functions, 6)
}

func TestGenerateFunctionOrder(t *testing.T) {
	out, err := Generate(tester1())
	require.NoError(t, err)

	var names []string
	for _, fn := range out.Functions {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{
		"invoke_all", "invoke_subset", "invoke_all_enumerated",
		"invoke_all_enum", "invoke_enumerated", "invoke_enum",
	}, names)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(buffers())
	require.NoError(t, err)
	b, err := Generate(buffers())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func paramNames(ps []Param) []string {
	var names []string
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}
