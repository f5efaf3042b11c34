package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "group %s", "Tester1")

	assert.Contains(t, wrapped.Error(), "group Tester1")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHintf(New("bad suffix"), "use only letters, digits and '_' in %s", "name=")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "use only letters, digits and '_' in name=", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsConfigurationError(nil))
	assert.False(t, IsSignatureMismatchError(nil))
	assert.False(t, IsUnsupportedShapeError(nil))
	assert.False(t, IsDirectiveError(nil))
	assert.False(t, IsStaleError(nil))
}

func TestStackTrace(t *testing.T) {
	err := NewConfigurationError("clone index %d out of range", 7)

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		msg   string
	}{
		{
			name:  "configuration",
			err:   NewConfigurationError("clone index %d out of range", 4),
			check: IsConfigurationError,
			msg:   "clone index 4 out of range",
		},
		{
			name:  "signature mismatch",
			err:   NewSignatureMismatchError("member %s has %d parameters", "fn2", 3),
			check: IsSignatureMismatchError,
			msg:   "member fn2 has 3 parameters",
		},
		{
			name:  "unsupported shape",
			err:   NewUnsupportedShapeError("receiver taken by value"),
			check: IsUnsupportedShapeError,
			msg:   "receiver taken by value",
		},
		{
			name:  "directive",
			err:   NewDirectiveError("unknown key %q", "nmae"),
			check: IsDirectiveError,
			msg:   `unknown key "nmae"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.Equal(t, tt.msg, tt.err.Error())

			// category survives further wrapping
			wrapped := Wrap(tt.err, "generating package demo")
			assert.True(t, tt.check(wrapped))
		})
	}
}

func TestCategoriesAreDistinct(t *testing.T) {
	err := NewConfigurationError("bad")

	assert.False(t, IsSignatureMismatchError(err))
	assert.False(t, IsUnsupportedShapeError(err))
	assert.False(t, IsDirectiveError(err))
}

func TestWrapDirective(t *testing.T) {
	cause := New(`strconv.Atoi: parsing "x": invalid syntax`)
	err := WrapDirective(cause, "clone=")

	assert.True(t, IsDirectiveError(err))
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "clone=")
}

func TestJoin(t *testing.T) {
	err := Join(NewConfigurationError("first"), NewSignatureMismatchError("second"))

	assert.True(t, IsConfigurationError(err))
	assert.True(t, IsSignatureMismatchError(err))
}

func ExampleNewConfigurationError() {
	err := NewConfigurationError("clone index %d targets the receiver", 0)
	fmt.Println(err, IsConfigurationError(err))
	// Output: clone index 0 targets the receiver true
}
