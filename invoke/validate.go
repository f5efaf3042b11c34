package invoke

import (
	"github.com/teranos/invokegen/errors"
)

// Validate checks that a group is internally consistent. It fails fast on
// the first violation; the checks run in a fixed order so the same group
// always reports the same error.
//
// Parameter types are not compared: members are trusted to agree on them,
// and a disagreement surfaces when the host compiles the generated code.
func Validate(g Group) error {
	if len(g.Members) == 0 {
		return errors.WithHint(
			errors.NewConfigurationError("group %s has no members", g.Owner),
			"a group needs at least one method or function")
	}

	if err := validateSignatures(g); err != nil {
		return err
	}
	if err := validateReceiver(g); err != nil {
		return err
	}
	if err := validateCloneIndices(g); err != nil {
		return err
	}
	if err := validateSuffix(g); err != nil {
		return err
	}
	return validateParamNames(g)
}

// validateSignatures compares every member against the first one, one
// property at a time across the whole group.
func validateSignatures(g Group) error {
	first := g.first()

	for i := range g.Members {
		m := &g.Members[i]
		if len(m.Params) != len(first.Params) {
			return errors.NewSignatureMismatchError(
				"member %s has %d parameters, %s has %d",
				m.Name, len(m.Params), first.Name, len(first.Params))
		}
	}
	for i := range g.Members {
		m := &g.Members[i]
		if len(m.Generics) != len(first.Generics) {
			return errors.NewSignatureMismatchError(
				"member %s has %d generic parameters, %s has %d",
				m.Name, len(m.Generics), first.Name, len(first.Generics))
		}
	}
	for i := 1; i < len(g.Members); i++ {
		m := &g.Members[i]
		if len(m.Params) > 0 && m.Params[0].SelfMode == SelfByValue {
			return errors.NewSignatureMismatchError(
				"member %s takes its receiver by value; only the first member may", m.Name)
		}
	}

	seen := make(map[string]bool, len(g.Members))
	for i := range g.Members {
		m := &g.Members[i]
		if seen[m.Name] {
			return errors.NewSignatureMismatchError("member %s appears more than once in group %s", m.Name, g.Owner)
		}
		seen[m.Name] = true

		if m.Return.Arity() != first.Return.Arity() {
			return errors.NewSignatureMismatchError(
				"member %s returns %d values, %s returns %d",
				m.Name, m.Return.Arity(), first.Name, first.Return.Arity())
		}
		for j := range m.Params {
			if m.Params[j].Self != first.Params[j].Self {
				return errors.NewSignatureMismatchError(
					"member %s disagrees with %s on whether parameter %d is the receiver",
					m.Name, first.Name, j)
			}
		}
	}
	return nil
}

func validateReceiver(g Group) error {
	first := g.first()
	if len(first.Params) > 0 && first.Params[0].SelfMode == SelfByValue {
		return errors.WithHint(
			errors.NewUnsupportedShapeError("member %s takes its receiver by value", first.Name),
			"members that consume their receiver cannot be called more than once")
	}
	return nil
}

func validateCloneIndices(g Group) error {
	params := g.first().Params
	for _, idx := range g.Options.CloneIndices {
		if idx < 0 || idx >= len(params) {
			return errors.WithHintf(
				errors.NewConfigurationError("clone index %d out of range for group %s", idx, g.Owner),
				"indices count every parameter including the receiver: valid range is [0, %d)", len(params))
		}
		if params[idx].Self {
			return errors.WithHint(
				errors.NewConfigurationError("clone index %d targets the receiver of group %s", idx, g.Owner),
				"the receiver is never duplicated; drop this index")
		}
	}
	return nil
}

func validateSuffix(g Group) error {
	if g.Options.NameSuffix == nil {
		return nil
	}
	if !isIdentFragment(*g.Options.NameSuffix) {
		return errors.WithHint(
			errors.NewConfigurationError("name suffix %q is not a valid identifier fragment", *g.Options.NameSuffix),
			"use only letters, digits and '_'")
	}
	return nil
}

func validateParamNames(g Group) error {
	for _, p := range g.first().Params {
		if reservedParamNames[p.Name] {
			return errors.WithHintf(
				errors.NewUnsupportedShapeError("parameter %s of %s collides with a generated identifier", p.Name, g.first().Name),
				"rename the parameter; %s, %s and %s are declared by the generated functions",
				CallbackName, SelectorName, SelectorVar)
		}
	}

	// function members are called by name next to the parameters
	if first := g.first(); first.SelfParam() == nil {
		for _, p := range first.Params {
			for _, m := range g.Members {
				if p.Name == m.Name {
					return errors.WithHint(
						errors.NewUnsupportedShapeError("parameter %s of %s shadows member %s", p.Name, first.Name, m.Name),
						"rename the parameter so the generated functions can call every member")
				}
			}
		}
	}
	return nil
}
