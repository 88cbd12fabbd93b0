package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bpium/formulex/internal/catalog"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/render"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/basics.yaml")
	require.NoError(t, err)

	assert.Equal(t, "basics", s.Name)
	require.Len(t, s.Cases, 6)
	assert.Equal(t, "sum", s.Cases[0].Name)

	sum, ok := s.Cases[0].Formula.Node.(*ir.Binary)
	require.True(t, ok, "sum formula should decode to a binary node")
	assert.Equal(t, "PLUS", sum.Operator)
	assert.Equal(t, ir.TypeNumber, sum.Type)
}

func TestLoadScenario_ResolvesConfigPath(t *testing.T) {
	s, err := LoadScenario("testdata/config/fortnight.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "config", "tables.cue"), s.Config)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\ncases: [{name: a, formula: {literal: 1, type: NUMBER}}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: s\ncases: [{name: a, formula: {literal: 1, type: NUMBER}}]",
			wantErr: "description is required",
		},
		{
			name:    "no cases",
			yaml:    "name: s\ndescription: d\ncases: []",
			wantErr: "cases list is required",
		},
		{
			name:    "missing formula",
			yaml:    "name: s\ndescription: d\ncases: [{name: a}]",
			wantErr: "cases[0]: formula is required",
		},
		{
			name: "duplicate case",
			yaml: "name: s\ndescription: d\ncases:\n" +
				"  - {name: a, formula: {literal: 1, type: NUMBER}}\n" +
				"  - {name: a, formula: {literal: 2, type: NUMBER}}",
			wantErr: `duplicate case name "a"`,
		},
		{
			name:    "bad expected type",
			yaml:    "name: s\ndescription: d\ncases: [{name: a, formula: {literal: 1, type: NUMBER}, expect: {type: DATE}}]",
			wantErr: "unknown node type",
		},
		{
			name:    "error with outputs",
			yaml:    "name: s\ndescription: d\ncases: [{name: a, formula: {literal: 1, type: NUMBER}, expect: {error: X, js: '1'}}]",
			wantErr: "error cannot be combined",
		},
		{
			name:    "unknown field",
			yaml:    "name: s\ndescription: d\ncase: []",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "bad formula",
			yaml:    "name: s\ndescription: d\ncases: [{name: a, formula: {literal: 1, type: DATE}}]",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_Scenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "failures: %v", result.Errors)
			assert.Len(t, result.Cases, len(s.Cases))
		})
	}
}

func TestRun_ConfiguredTables(t *testing.T) {
	s, err := LoadScenario("testdata/config/fortnight.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Errors)
}

func TestRun_MissingConfig(t *testing.T) {
	s := &Scenario{
		Name:        "broken",
		Description: "d",
		Config:      filepath.Join(t.TempDir(), "missing.cue"),
		Cases:       []Case{{Name: "a", Formula: ir.Formula{Node: ir.NumberLit("1")}}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario broken")
}

func TestRun_ReportsFailures(t *testing.T) {
	s := &Scenario{
		Name:        "failing",
		Description: "every expectation here is wrong",
		Cases: []Case{
			{
				Name:    "wrong_js",
				Formula: ir.Formula{Node: ir.Op("PLUS", ir.NumberLit("1"), ir.NumberLit("2"), ir.TypeNumber)},
				Expect:  Expect{Type: "LITERAL", JS: "(2 + 1)", SQLContains: []string{"CONCAT"}},
			},
			{
				Name:    "expected_error",
				Formula: ir.Formula{Node: ir.NumberLit("1")},
				Expect:  Expect{Error: "TYPE_MISMATCH"},
			},
			{
				Name:    "unexpected_error",
				Formula: ir.Formula{Node: ir.Fn("NOPE", ir.TypeNumber)},
			},
			{
				Name:    "wrong_code",
				Formula: ir.Formula{Node: ir.Fn("NOPE", ir.TypeNumber)},
				Expect:  Expect{Error: "ARITY_MISMATCH"},
			},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Cases, 4)

	assert.Len(t, result.Cases[0].Failures, 3)
	assert.Equal(t, []string{"error: expected TYPE_MISMATCH, got success"}, result.Cases[1].Failures)
	assert.Contains(t, result.Cases[2].Failures[0], "unexpected error: UNKNOWN_NAME")
	assert.Equal(t, "UNKNOWN_NAME", result.Cases[3].Code)
	assert.Len(t, result.Cases[3].Failures, 1)

	assert.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], "wrong_js: type")
}

func TestRun_ErrorSubstring(t *testing.T) {
	s := &Scenario{
		Name:        "substring",
		Description: "error expectations may match message text",
		Cases: []Case{{
			Name:    "unknown",
			Formula: ir.Formula{Node: ir.Fn("NOPE", ir.TypeNumber)},
			Expect:  Expect{Error: `unknown function "NOPE"`},
		}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Errors)
}

func TestRun_WithCatalog(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)

	s := &Scenario{
		Name:        "explicit",
		Description: "catalog passed by the caller",
		Config:      "does-not-exist.cue",
		Cases: []Case{{
			Name:    "lower",
			Formula: ir.Formula{Node: ir.Fn("LOWER", ir.TypeLiteral, ir.TextLit("A"))},
			Expect:  Expect{JS: `("A").toLowerCase()`, SQL: `LOWER('A')`},
		}},
	}

	result, err := Run(s, WithCatalog(cat))
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Errors)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios found")
}

func TestLoadDir_NamesBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: x\n"), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/basics.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "failures: %v", result.Errors)
}

func TestSnapshot_UncodedError(t *testing.T) {
	r := &Result{
		Scenario: "s",
		Cases: []CaseResult{
			{Name: "boom", Err: "invalid tree"},
			{Name: "ok", Output: &render.Output{Type: ir.TypeBoolean, JS: "true", SQL: "TRUE", SafeJS: "true", SafeSQL: "TRUE"}},
		},
	}

	want := "scenario: s\n--- boom\nerror: ERROR\n--- ok\n" +
		"type: BOOLEAN\njs: true\nsql: TRUE\nsafe_js: true\nsafe_sql: TRUE\n"
	assert.Equal(t, want, string(Snapshot(r)))
}
