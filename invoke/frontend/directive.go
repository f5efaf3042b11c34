package frontend

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/invokegen/errors"
)

// DirectivePrefix starts a group directive in a type's doc comment.
const DirectivePrefix = "//invokegen:group"

// Directive is one parsed //invokegen:group line.
type Directive struct {
	// Name is the name suffix, nil when not given.
	Name *string
	// Clone lists parameter positions counted including the receiver.
	Clone []int
	// Members selects and orders methods (method mode).
	Members []string
	// Funcs selects package functions (function mode).
	Funcs []string
}

// FunctionMode reports whether the directive groups package functions.
func (d Directive) FunctionMode() bool {
	return len(d.Funcs) > 0
}

// IsDirective reports whether a comment line is a group directive.
func IsDirective(text string) bool {
	rest, ok := strings.CutPrefix(text, DirectivePrefix)
	return ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t')
}

// ParseDirective parses a comment line such as
//
//	//invokegen:group name=fast clone=1 members="Area Perimeter"
//
// Values may be quoted; list values are separated by commas or spaces.
func ParseDirective(text string) (Directive, error) {
	var d Directive
	if !IsDirective(text) {
		return d, errors.NewDirectiveError("not a group directive: %q", text)
	}

	args, err := shellquote.Split(strings.TrimPrefix(text, DirectivePrefix))
	if err != nil {
		return d, errors.WrapDirective(err, "failed to split directive arguments")
	}

	seen := make(map[string]bool)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return d, errors.WithHint(
				errors.NewDirectiveError("argument %q is not key=value", arg),
				"known keys are name, clone, members and funcs")
		}
		if seen[key] {
			return d, errors.NewDirectiveError("key %q given more than once", key)
		}
		seen[key] = true

		switch key {
		case "name":
			if value == "" {
				return d, errors.NewDirectiveError("name must not be empty")
			}
			d.Name = &value
		case "clone":
			for _, field := range splitList(value) {
				idx, err := strconv.Atoi(field)
				if err != nil {
					return d, errors.NewDirectiveError("clone index %q is not an integer", field)
				}
				d.Clone = append(d.Clone, idx)
			}
		case "members":
			d.Members = splitList(value)
		case "funcs":
			d.Funcs = splitList(value)
		default:
			return d, errors.WithHint(
				errors.NewDirectiveError("unknown key %q", key),
				"known keys are name, clone, members and funcs")
		}
	}

	if seen["members"] && seen["funcs"] {
		return d, errors.WithHint(
			errors.NewDirectiveError("members and funcs cannot be combined"),
			"members selects methods of the type, funcs selects package functions")
	}
	if seen["funcs"] && len(d.Funcs) == 0 {
		return d, errors.NewDirectiveError("funcs must name at least one function")
	}
	if seen["members"] && len(d.Members) == 0 {
		return d, errors.NewDirectiveError("members must name at least one method")
	}
	return d, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
