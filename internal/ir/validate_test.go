package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr string
	}{
		{"valid call", Fn("LEN", TypeNumber, TextLit("abc")), ""},
		{"nil root", nil, "$: nil node"},
		{"bad type", &Field{Name: "x", Type: "DATE"}, "invalid node type"},
		{"literal type disagrees", &Literal{Type: TypeNumber, Value: NewText("1")}, "LITERAL literal declared as NUMBER"},
		{"literal without value", &Literal{Type: TypeNumber}, "without value"},
		{"field without name", Ref("", TypeNumber), "without name"},
		{"nested nil", Op("PLUS", NumberLit("1"), nil, TypeNumber), "$.right: nil node"},
		{"call without name", Fn("", TypeNumber), "without function name"},
		{"nested arg", Fn("LEN", TypeNumber, Ref("", TypeLiteral)), "$.args[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.node)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseNodeType(t *testing.T) {
	nt, err := ParseNodeType(" number ")
	require.NoError(t, err)
	assert.Equal(t, TypeNumber, nt)

	_, err = ParseNodeType("DATE")
	assert.Error(t, err)

	assert.Equal(t, "ANY", JoinTypes(nil))
	assert.Equal(t, "LITERAL|NUMBER", JoinTypes([]NodeType{TypeLiteral, TypeNumber}))
}
