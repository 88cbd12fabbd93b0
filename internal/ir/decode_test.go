package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecodeCall(t *testing.T) {
	src := `
call: DATEADD
type: LITERAL
args:
  - {literal: "2024-01-31 00:00:00+00", type: LITERAL}
  - {literal: 1.50, type: NUMBER}
  - {field: unit, type: literal, id: unit-arg}
`
	n, err := Decode([]byte(src))
	require.NoError(t, err)

	call, ok := n.(*Call)
	require.True(t, ok, "expected *Call, got %T", n)
	assert.Equal(t, "DATEADD", call.Function)
	assert.Equal(t, TypeLiteral, call.Type)
	require.Len(t, call.Args, 3)

	date := call.Args[0].(*Literal)
	assert.Equal(t, Text("2024-01-31 00:00:00+00"), date.Value)

	amount := call.Args[1].(*Literal)
	num, ok := amount.Value.(Number)
	require.True(t, ok)
	assert.Equal(t, "1.5", num.String())

	unit := call.Args[2].(*Field)
	assert.Equal(t, "unit", unit.Name)
	assert.Equal(t, "unit-arg", unit.NodeID())
	assert.Equal(t, TypeLiteral, unit.ValueType())
}

func TestDecodeBinaryFromJSON(t *testing.T) {
	src := `{"op": "PLUS", "type": "NUMBER",
	  "left": {"literal": 1, "type": "NUMBER"},
	  "right": {"field": "qty", "type": "NUMBER"}}`

	n, err := Decode([]byte(src))
	require.NoError(t, err)

	bin := n.(*Binary)
	assert.Equal(t, "PLUS", bin.Operator)
	assert.Equal(t, "qty", bin.Right.(*Field).Name)
}

func TestDecodeNumberKeepsPrecision(t *testing.T) {
	n, err := Decode([]byte(`{literal: 0.1000000000000000055511151231257827, type: NUMBER}`))
	require.NoError(t, err)
	assert.Equal(t, "0.1000000000000000055511151231257827", n.(*Literal).Value.(Number).String())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"missing type", `{field: x}`, "unknown node type"},
		{"two kinds", `{field: x, call: LEN, type: NUMBER}`, "exactly one of"},
		{"no kind", `{type: NUMBER}`, "exactly one of"},
		{"bad number", `{literal: abc, type: NUMBER}`, "invalid number"},
		{"bad boolean", `{literal: maybe, type: BOOLEAN}`, "invalid boolean"},
		{"non mapping", `[1, 2]`, "expected a mapping"},
		{"missing right", `{op: PLUS, type: NUMBER, left: {literal: 1, type: NUMBER}}`, "$.right: missing node"},
		{"nested arg path", `{call: LEN, type: NUMBER, args: [{literal: x}]}`, "$.args[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormulaUnmarshalYAML(t *testing.T) {
	var doc struct {
		Formula Formula `yaml:"formula"`
	}
	err := yaml.Unmarshal([]byte("formula: {call: UPPER, type: LITERAL, args: [{literal: abc, type: LITERAL}]}"), &doc)
	require.NoError(t, err)
	assert.Equal(t, "UPPER", doc.Formula.Node.(*Call).Function)
}

func TestDecodeNormalizesText(t *testing.T) {
	// "e" followed by a combining acute accent normalises to U+00E9.
	n, err := Decode([]byte("{literal: \"cafe\u0301\", type: LITERAL}"))
	require.NoError(t, err)
	assert.Equal(t, Text("caf\u00e9"), n.(*Literal).Value)
}

func TestDecodeScalarLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{`{literal: 5, type: NUMBER}`, NumberFromInt(5)},
		{`{literal: "5", type: LITERAL}`, Text("5")},
		{`{literal: 5, type: LITERAL}`, Text("5")},
		{`{literal: true, type: BOOLEAN}`, Bool(true)},
		{`{"literal": false, "type": "BOOLEAN"}`, Bool(false)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := Decode([]byte(tt.src))
			require.NoError(t, err)
			lit, ok := n.(*Literal)
			require.True(t, ok, "expected *Literal, got %T", n)
			if want, isNum := tt.want.(Number); isNum {
				got, ok := lit.Value.(Number)
				require.True(t, ok, "expected Number, got %T", lit.Value)
				assert.True(t, want.Equal(got.Decimal), "got %s", got)
				return
			}
			assert.Equal(t, tt.want, lit.Value)
		})
	}

	_, err := Decode([]byte(`{literal: {a: 1}, type: LITERAL}`))
	assert.ErrorContains(t, err, "literal must be a scalar")
}
