package invoke

import (
	"fmt"
	"slices"
	"testing"

	"github.com/teranos/invokegen/errors"
)

// machine executes an Output's instruction lists against Go closures, so
// the behaviour of generated functions can be checked without compiling them.
type machine struct {
	t     *testing.T
	impls map[string]func(recv any, args []any) []any
	trace []string
}

func newMachine(t *testing.T) *machine {
	return &machine{t: t, impls: map[string]func(any, []any) []any{}}
}

// identity registers members that return their first argument.
func (m *machine) identity(names ...string) *machine {
	for _, name := range names {
		m.impls[name] = func(_ any, args []any) []any { return []any{args[0]} }
	}
	return m
}

// silent registers members that return nothing.
func (m *machine) silent(names ...string) *machine {
	for _, name := range names {
		m.impls[name] = func(any, []any) []any { return nil }
	}
	return m
}

func (m *machine) call(site CallSite, env map[string]any) []any {
	m.t.Helper()
	impl, ok := m.impls[site.Member]
	if !ok {
		m.t.Fatalf("call site names unknown member %q", site.Member)
	}

	var args []any
	for _, a := range site.Args {
		v, ok := env[a.Name]
		if !ok {
			m.t.Fatalf("call site of %s passes unbound argument %q", site.Member, a.Name)
		}
		if a.Duplicate {
			v = duplicate(v)
		}
		args = append(args, v)
	}
	m.trace = append(m.trace, "call "+site.Member)
	return impl(env[site.Receiver], args)
}

func duplicate(v any) any {
	if s, ok := v.([]int); ok {
		return slices.Clone(s)
	}
	return v
}

// run executes fn. env binds the function's parameters by name, consumer
// receives callback arguments, selector holds ints or tag names.
func (m *machine) run(fn *FunctionDecl, env map[string]any, consumer func(args ...any), selector []any) {
	m.t.Helper()

	emit := func(args ...any) {
		m.trace = append(m.trace, "emit")
		if consumer != nil {
			consumer(args...)
		}
	}

	step := func(s Step) {
		vals := m.call(s.Call, env)
		switch s.Emit {
		case EmitNone:
		case EmitValue:
			emit(vals...)
		case EmitIndex:
			emit(s.Index)
		case EmitTag:
			emit(s.Tag)
		case EmitIndexValue:
			emit(append([]any{s.Index}, vals...)...)
		case EmitTagValue:
			emit(append([]any{s.Tag}, vals...)...)
		}
	}

	switch fn.Body.Mode {
	case BodySequential:
		for _, s := range fn.Body.Steps {
			step(s)
		}
	case BodyDispatchIndex:
		for _, item := range selector {
			idx := item.(int)
			found := false
			for _, s := range fn.Body.Steps {
				if s.Index == idx {
					step(s)
					found = true
					break
				}
			}
			if !found {
				panic(fn.Body.Fault)
			}
		}
	case BodyDispatchTag:
		for _, item := range selector {
			tag := item.(string)
			found := false
			for _, s := range fn.Body.Steps {
				if s.Tag == tag {
					step(s)
					found = true
					break
				}
			}
			if !found {
				m.t.Fatalf("tag dispatch of %s has no arm for %q", fn.Name, tag)
			}
		}
	}
}

// tagFromStr and tagAsStr follow a TagTypeDecl the way a printer renders it.
func tagFromStr(decl *TagTypeDecl, s string) (int, error) {
	for i, v := range decl.Variants {
		if v == s {
			return i, nil
		}
	}
	return 0, errors.Newf("%s: %q", decl.Mismatch, s)
}

func tagAsStr(decl *TagTypeDecl, ordinal int) string {
	return decl.Variants[ordinal]
}

type collected struct {
	values []string
}

func (c *collected) consume(args ...any) {
	c.values = append(c.values, fmt.Sprintf("%v", args))
}
