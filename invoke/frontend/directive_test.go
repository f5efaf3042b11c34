package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/invokegen/errors"
)

func TestIsDirective(t *testing.T) {
	assert.True(t, IsDirective("//invokegen:group"))
	assert.True(t, IsDirective("//invokegen:group name=a"))
	assert.False(t, IsDirective("// invokegen:group"))
	assert.False(t, IsDirective("//invokegen:groups"))
	assert.False(t, IsDirective("//go:generate invokegen"))
}

func TestParseDirective(t *testing.T) {
	d, err := ParseDirective("//invokegen:group")
	require.NoError(t, err)
	assert.Nil(t, d.Name)
	assert.Empty(t, d.Clone)
	assert.False(t, d.FunctionMode())

	d, err = ParseDirective(`//invokegen:group name=fast clone=1,3 members="Area Perimeter"`)
	require.NoError(t, err)
	require.NotNil(t, d.Name)
	assert.Equal(t, "fast", *d.Name)
	assert.Equal(t, []int{1, 3}, d.Clone)
	assert.Equal(t, []string{"Area", "Perimeter"}, d.Members)

	d, err = ParseDirective("//invokegen:group funcs=Parse,Count")
	require.NoError(t, err)
	assert.True(t, d.FunctionMode())
	assert.Equal(t, []string{"Parse", "Count"}, d.Funcs)
}

func TestParseDirectiveErrors(t *testing.T) {
	tests := []struct {
		text   string
		substr string
	}{
		{"//invokegen:group name=a name=b", "more than once"},
		{"//invokegen:group speed=fast", "unknown key"},
		{"//invokegen:group members=A funcs=B", "cannot be combined"},
		{"//invokegen:group name=", "must not be empty"},
		{"//invokegen:group clone=one", "not an integer"},
		{"//invokegen:group fast", "not key=value"},
		{"//invokegen:group funcs=", "at least one"},
		{`//invokegen:group name="unterminated`, "split"},
		{"// not a directive", "not a group directive"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := ParseDirective(tt.text)
			require.Error(t, err)
			assert.True(t, errors.IsDirectiveError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}
