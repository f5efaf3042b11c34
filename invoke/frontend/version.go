package frontend

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/invokegen/am"
	"github.com/teranos/invokegen/errors"
)

// seqConstraint is satisfied by Go releases with range-over-func iterators.
const seqConstraint = ">= 1.23"

// UseSeq decides whether selectors are iter.Seq values or slices. With the
// auto style the module's go directive decides; an unknown version means
// the current toolchain, which supports iter.Seq.
func UseSeq(selector, goVersion string) (bool, error) {
	switch selector {
	case am.SelectorSeq:
		return true, nil
	case am.SelectorSlice:
		return false, nil
	case am.SelectorAuto, "":
	default:
		return false, errors.NewConfigurationError("unknown selector style %q", selector)
	}

	if goVersion == "" {
		return true, nil
	}

	// go directives may carry a prerelease suffix (1.21rc1)
	release := goVersion
	if i := strings.IndexFunc(goVersion, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	}); i >= 0 {
		release = goVersion[:i]
	}

	v, err := semver.NewVersion(release)
	if err != nil {
		return false, errors.Wrapf(err, "invalid go version %s", goVersion)
	}
	constraint, err := semver.NewConstraint(seqConstraint)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version constraint %s", seqConstraint)
	}
	return constraint.Check(v), nil
}
