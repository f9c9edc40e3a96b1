package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Mode
	}{
		{"json object", `{"a": 1, "b": 2}`, ModeJSON},
		{"json array", `[1, 2, 3]`, ModeJSON},
		{"json number", `5`, ModeJSON},
		{"json bool", `true`, ModeJSON},
		{"json string", `"x"`, ModeJSON},
		{"json null", `null`, ModeJSON},
		{"json with surrounding whitespace", "\n  {\"a\": [1]}\n", ModeJSON},
		{"yaml mapping", "a: 1\nb: 2", ModeYAML},
		{"yaml sequence", "- a\n- b\n", ModeYAML},
		{"yaml bare word", `hello`, ModeYAML},
		{"yaml flow mapping", `{a: 1}`, ModeYAML},
		{"yaml flow mapping with null value", `{a: }`, ModeYAML},
		{"yaml with comments", "# deployment\nreplicas: 3 # scale\n", ModeYAML},
		{"yaml explicit document", "---\nkind: Pod\n", ModeYAML},
		{"empty", ``, ModeUnknown},
		{"whitespace only", "   \n\t\n", ModeUnknown},
		{"comment only", "# nothing here\n", ModeUnknown},
		{"unterminated json", `{"a": 1`, ModeUnknown},
		{"unclosed flow sequence", `key: [unclosed`, ModeUnknown},
		{"nested mapping on one line", `a: b: c`, ModeUnknown},
		{"multiple documents", "a: 1\n---\nb: 2\n", ModeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.raw))
		})
	}
}

func TestDetect_JSONBeforeYAML(t *testing.T) {
	// Every JSON document is also YAML; JSON must win.
	for _, raw := range []string{`{"k": "v"}`, `[]`, `{}`, `3.14`, `-0`, `"a: b"`} {
		assert.Equal(t, ModeJSON, Detect(raw), raw)
	}
}

func TestDetect_DoesNotMutateInput(t *testing.T) {
	raw := "a: &x 1\nb: *x\n"
	before := raw
	Detect(raw)
	assert.Equal(t, before, raw)
}

func TestMode_Other(t *testing.T) {
	assert.Equal(t, ModeYAML, ModeJSON.Other())
	assert.Equal(t, ModeJSON, ModeYAML.Other())
	assert.Equal(t, ModeUnknown, ModeUnknown.Other())
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		got, err := ParseOperation(string(op))
		assert.NoError(t, err)
		assert.Equal(t, op, got)
	}
	_, err := ParseOperation("lint")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
