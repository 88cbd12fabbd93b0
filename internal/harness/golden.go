package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as stable text: one block per case with every
// output, or the error code for failed renders.
func Snapshot(r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	for _, c := range r.Cases {
		fmt.Fprintf(&b, "--- %s\n", c.Name)
		if c.Output == nil {
			code := c.Code
			if code == "" {
				code = "ERROR"
			}
			fmt.Fprintf(&b, "error: %s\n", code)
			continue
		}
		fmt.Fprintf(&b, "type: %s\njs: %s\nsql: %s\nsafe_js: %s\nsafe_sql: %s\n",
			c.Output.Type, c.Output.JS, c.Output.SQL, c.Output.SafeJS, c.Output.SafeSQL)
	}
	return []byte(b.String())
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
