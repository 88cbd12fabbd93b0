package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fortnightTables = `
units: [
	{key: "DAY", js: "days", sql_field: "day", sql_interval: "1 day", seconds: 86400},
	{key: "FORTNIGHT", js: "weeks", sql_field: "week", sql_interval: "2 weeks", seconds: 1209600},
]
formats: sql: [{from: "%Y", to: "YYYY"}]
`

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "sum.yaml", sumTree)
	bad := writeFile(t, dir, "bad.yaml", badLenTree)

	out, err := execute(t, "", "check", good)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ok: NUMBER ("), out)

	out, err = execute(t, "", "check", good, "--format", "json")
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	assert.Equal(t, true, data["valid"])
	assert.Len(t, data["formula_id"], 64)

	out, err = execute(t, "", "check", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [TYPE_MISMATCH]")
}

func TestCheck_MissingArgs(t *testing.T) {
	_, err := execute(t, "", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestFunctions(t *testing.T) {
	out, err := execute(t, "", "functions", "--prefix", "date")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "DATE"), line)
	}
	assert.Contains(t, out, "DATEADD(LITERAL, NUMBER, LITERAL) -> LITERAL  [safe]")
}

func TestFunctions_JSON(t *testing.T) {
	out, err := execute(t, "", "functions", "--format", "json")
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	assert.Len(t, data["fingerprint"], 64)

	entries, ok := data["entries"].([]any)
	require.True(t, ok)

	kinds := map[string]int{}
	names := map[string]bool{}
	for _, e := range entries {
		entry := e.(map[string]any)
		kinds[entry["kind"].(string)]++
		names[entry["name"].(string)] = true
	}
	assert.Positive(t, kinds["operator"])
	assert.Positive(t, kinds["function"])
	for _, name := range []string{"PLUS", "AND", "TRIM", "JOIN", "SAFETRIM", "DATEDIFF", "SAFEDATEDIFF", "TO_NUMBER"} {
		assert.True(t, names[name], "missing %s", name)
	}
}

func TestTranslate(t *testing.T) {
	out, err := execute(t, "", "translate", "%Y-%m-%d %H:%M")
	require.NoError(t, err)
	assert.Equal(t, "js: yyyy-LL-dd HH:mm\nsql: YYYY-MM-DD HH24:MI\n", out)

	out, err = execute(t, "", "translate", "YYYY-MM-DD", "--backend", "js")
	require.NoError(t, err)
	assert.Equal(t, "yyyy-LL-dd\n", out)

	out, err = execute(t, "", "translate", "%d.%m.%Y", "-b", "sql", "--format", "json")
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	assert.Equal(t, "DD.MM.YYYY", data["sql"])
	assert.NotContains(t, data, "js")
}

func TestTranslate_Config(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "tables.cue", fortnightTables)

	// The replacement SQL table only knows %Y.
	out, err := execute(t, "", "translate", "%Y-%m", "-b", "sql", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "YYYY-%m\n", out)
}

func TestTranslate_BadBackend(t *testing.T) {
	_, err := execute(t, "", "translate", "%Y", "-b", "python")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRender_ConfigUnits(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "tables.cue", fortnightTables)
	tree := writeFile(t, dir, "add.yaml", `
call: DATEADD
type: LITERAL
args:
  - {field: due, type: LITERAL}
  - {literal: 1, type: NUMBER}
  - {literal: FORTNIGHT, type: LITERAL}
`)

	out, err := execute(t, "", "render", tree, "-b", "sql", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "WHEN 'FORTNIGHT' THEN INTERVAL '2 weeks'")
	assert.NotContains(t, out, "'YEAR'")
}

const passingScenario = `
name: smoke
description: "one passing case"
cases:
  - name: sum
    formula:
      op: PLUS
      type: NUMBER
      left: {literal: 1, type: NUMBER}
      right: {literal: 2, type: NUMBER}
    expect:
      sql: (1 + 2)
`

const failingScenario = `
name: broken
description: "one failing case"
cases:
  - name: sum
    formula:
      op: PLUS
      type: NUMBER
      left: {literal: 1, type: NUMBER}
      right: {literal: 2, type: NUMBER}
    expect:
      sql: (2 + 1)
`

func TestTestCommand_MissingArgs(t *testing.T) {
	_, err := execute(t, "", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := execute(t, "", "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_Empty(t *testing.T) {
	out, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")

	out, err = execute(t, "", "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)
	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(0), data["total"])
}

func TestTestCommand_Pass(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "smoke.yaml", passingScenario)

	out, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ smoke (1 cases)")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_Fail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "smoke.yaml", passingScenario)
	writeFile(t, dir, "broken.yaml", failingScenario)

	out, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, `sum: sql: expected "(2 + 1)", got "(1 + 2)"`)

	out, err = execute(t, "", "test", dir, "--filter", "smo*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommand_Golden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "smoke.yaml", passingScenario)

	out, err := execute(t, "", "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "smoke.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), "--- sum\ntype: NUMBER\njs: (1 + 2)\n")

	_, err = execute(t, "", "test", dir)
	require.NoError(t, err)

	writeFile(t, dir, "golden/smoke.golden", "scenario: smoke\n")
	out, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "golden file mismatch")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", failingScenario)

	out, err := execute(t, "", "test", dir, "--format", "json")
	require.Error(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, float64(1), data["failed"])
}

func TestCache_ListAndPurge(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "renders.db")
	sum := writeFile(t, dir, "sum.yaml", sumTree)
	shout := writeFile(t, dir, "shout.yaml", shoutTree)

	for _, args := range [][]string{
		{"render", sum, "--cache", db},
		{"render", shout, "--cache", db},
		{"render", shout, "--cache", db, "--record", "row"},
	} {
		_, err := execute(t, "", args...)
		require.NoError(t, err)
	}

	out, err := execute(t, "", "cache", "list", "--cache", db, "--format", "json")
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	assert.Len(t, data["entries"], 2)

	out, err = execute(t, "", "cache", "purge", "--cache", db)
	require.NoError(t, err)
	assert.Equal(t, "removed 1 stale entries, 2 remaining\n", out)

	out, err = execute(t, "", "cache", "purge", "--cache", db, "--record", "row")
	require.NoError(t, err)
	assert.Equal(t, "removed 2 stale entries, 0 remaining\n", out)
}
