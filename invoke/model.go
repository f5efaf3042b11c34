// Package invoke is the multiplex-variant generation engine.
//
// Given a Group of sibling members that share a call signature, Generate
// produces an Output describing six entry points that call every member
// (invoke_all, invoke_subset, invoke_all_enumerated, invoke_all_enum,
// invoke_enumerated, invoke_enum), the METHOD_COUNT/METHOD_LIST metadata,
// and a tag type with one variant per member.
//
// The engine only reasons about signatures and names. Reading host source
// into a Group is the job of a front end (see invoke/frontend) and turning
// an Output back into source is the job of a Printer (see invoke/golang).
// Generate is pure: it performs no I/O and shares no state between calls, so
// independent groups may be generated concurrently.
package invoke

import "strings"

// SelfMode describes how a member takes its receiver.
type SelfMode int

const (
	SelfNone SelfMode = iota
	SelfByRef
	SelfByMutRef
	SelfByValue // rejected by Validate
)

var selfModeNames = []string{"none", "by_ref", "by_mut_ref", "by_value"}

func (m SelfMode) String() string { return enumName(selfModeNames, int(m)) }

// MarshalText renders the mode by name in describe output.
func (m SelfMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// CloneStrategy tells a printer how to duplicate an argument that is passed
// to more than one member call. The front end picks it from the parameter type.
type CloneStrategy int

const (
	CloneCopy   CloneStrategy = iota // plain value copy
	CloneSlice                       // shallow slice copy
	CloneMap                         // shallow map copy
	CloneMethod                      // the type's own Clone method
)

var cloneStrategyNames = []string{"copy", "slice", "map", "method"}

func (c CloneStrategy) String() string { return enumName(cloneStrategyNames, int(c)) }

func (c CloneStrategy) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// GenericKind separates generic parameters that can be written at a call
// site (types) from those that never are (consts and lifetimes).
type GenericKind int

const (
	GenericType GenericKind = iota
	GenericConst
	GenericLifetime
)

var genericKindNames = []string{"type", "const", "lifetime"}

func (k GenericKind) String() string { return enumName(genericKindNames, int(k)) }

func (k GenericKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// TypeExpr is an opaque host-language type. Multi-value results carry one
// element per value in Elems; Text then holds the whole result list.
type TypeExpr struct {
	Text  string     `yaml:"text"`
	Elems []TypeExpr `yaml:"elems,omitempty"`
}

// Values returns the individual values of the type: Elems when present,
// otherwise the type itself.
func (t *TypeExpr) Values() []TypeExpr {
	if t == nil {
		return nil
	}
	if len(t.Elems) > 0 {
		return t.Elems
	}
	return []TypeExpr{*t}
}

// Arity is the number of values the type produces; zero for nil.
func (t *TypeExpr) Arity() int {
	return len(t.Values())
}

// Param is one member input, including the receiver.
type Param struct {
	Name     string        `yaml:"name"`
	Type     TypeExpr      `yaml:"type"`
	Self     bool          `yaml:"self,omitempty"`
	SelfMode SelfMode      `yaml:"self_mode,omitempty"`
	Variadic bool          `yaml:"variadic,omitempty"`
	Clone    CloneStrategy `yaml:"clone,omitempty"`
}

// GenericParam is one generic parameter. Bound is never interpreted.
type GenericParam struct {
	Name  string      `yaml:"name"`
	Bound string      `yaml:"bound,omitempty"`
	Kind  GenericKind `yaml:"kind"`
	// Anonymous parameters (Go's "_") cannot be named at a call site.
	Anonymous bool `yaml:"anonymous,omitempty"`
	// Inferable is set when the parameter occurs in some parameter type,
	// so the host infers it at the call site.
	Inferable bool `yaml:"inferable,omitempty"`
}

// Member is one callable in a group. Order within the group is significant:
// it is both invocation order and tag ordinal.
type Member struct {
	Name       string         `yaml:"name"`
	Visibility string         `yaml:"visibility,omitempty"`
	Params     []Param        `yaml:"params,omitempty"`
	Generics   []GenericParam `yaml:"generics,omitempty"`
	Return     *TypeExpr      `yaml:"return,omitempty"`
}

// SelfParam returns the receiver parameter, if the member has one.
func (m *Member) SelfParam() *Param {
	if len(m.Params) > 0 && m.Params[0].Self {
		return &m.Params[0]
	}
	return nil
}

// Options are the per-directive generation options.
type Options struct {
	// NameSuffix disambiguates several generations over the same owner.
	NameSuffix *string `yaml:"name_suffix,omitempty"`
	// CloneIndices are parameter positions, counted over all inputs
	// including the receiver, whose value is duplicated before each call.
	CloneIndices []int `yaml:"clone_indices,omitempty"`
}

// Group is the unit the engine processes.
type Group struct {
	Owner string `yaml:"owner"`
	// OwnerType is the receiver type as the host writes it (e.g. "*Box[T]").
	OwnerType string   `yaml:"owner_type,omitempty"`
	Members   []Member `yaml:"members"`
	Options   Options  `yaml:"options,omitempty"`
	// Imports maps package names used in type texts to import paths.
	Imports map[string]string `yaml:"imports,omitempty"`
}

// first returns the member whose shape stands for the whole group.
func (g *Group) first() *Member {
	return &g.Members[0]
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "invalid"
	}
	return names[i]
}

// isIdentFragment reports whether s may follow "_" in an identifier.
func isIdentFragment(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) < 0
}
