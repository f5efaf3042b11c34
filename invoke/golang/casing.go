package golang

import (
	"strings"
	"unicode"

	"github.com/teranos/invokegen/am"
)

// ToPascalCase converts snake_case to PascalCase
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_'
	})

	var result strings.Builder
	for _, part := range parts {
		// Capitalize first letter, keep rest as-is
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}

// ToCamelCase converts snake_case to camelCase
func ToCamelCase(s string) string {
	return exportAs(ToPascalCase(s), false)
}

func exportAs(s string, exported bool) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	if exported {
		runes[0] = unicode.ToUpper(runes[0])
	} else {
		runes[0] = unicode.ToLower(runes[0])
	}
	return string(runes)
}

// naming maps engine identifiers to Go declarations. In verbatim mode the
// engine names are kept and scoped with "_"; in go mode they are joined in
// PascalCase and exported according to the group's visibility.
type naming struct {
	verbatim bool
	exported bool
}

func newNaming(casing, visibility string) naming {
	return naming{
		verbatim: casing == am.CasingVerbatim,
		exported: visibility != "" && visibility != "unexported",
	}
}

// join scopes name parts, e.g. an owner and a variant name.
func (n naming) join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if n.verbatim {
		return strings.Join(kept, "_")
	}
	var sb strings.Builder
	for _, p := range kept {
		sb.WriteString(ToPascalCase(p))
	}
	return exportAs(sb.String(), n.exported)
}

// constant names METHOD_COUNT style identifiers. Go mode folds the base to
// MethodCount before joining.
func (n naming) constant(owner, base, suffix string) string {
	if n.verbatim {
		return n.join(owner, base, suffix)
	}
	return n.join(owner, strings.ToLower(base), suffix)
}

// sentinel names the error a failed tag conversion wraps.
func (n naming) sentinel(tag string) string {
	if n.verbatim {
		return tag + "_mismatch"
	}
	return exportAs("Err"+ToPascalCase(tag)+"Mismatch", n.exported)
}
