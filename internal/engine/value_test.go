package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{"string", `"premium"`, StringValue("premium")},
		{"number", `42.5`, NumberValue(42.5)},
		{"bool", `true`, BoolValue(true)},
		{"string list", `["a","b"]`, ListValue("a", "b")},
		{"mixed list degrades to zero", `["a", 1]`, Value{}},
		{"object degrades to zero", `{"k":"v"}`, Value{}},
		{"null degrades to zero", `null`, Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestValue_ZeroValueNeverMatches(t *testing.T) {
	assert.False(t, Check("anything", OpEqual, Value{}))
	assert.False(t, Check(1.0, OpGreater, Value{}))
	assert.False(t, Check("a", OpIn, Value{}))
}

func TestValue_StringNormalization(t *testing.T) {
	// Numbers must stringify without a trailing fraction so "=" behaves
	// uniformly for text and numeric literals.
	assert.Equal(t, "42", NumberValue(42).String())
	assert.Equal(t, "42.5", NumberValue(42.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
}
