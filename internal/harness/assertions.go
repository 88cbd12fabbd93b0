package harness

import (
	"fmt"
	"strings"

	"github.com/Bpium/formulex/internal/overload"
)

// mismatch formats one failed expectation.
func mismatch(field, expected, actual string) string {
	return fmt.Sprintf("%s: expected %s, got %s", field, expected, actual)
}

// errorCode returns the structured code of err, or "" when err carries none.
func errorCode(err error) string {
	if oe, ok := overload.AsError(err); ok {
		return string(oe.Code)
	}
	return ""
}

// checkExpect returns every expectation res does not satisfy.
func checkExpect(e Expect, res CaseResult) []string {
	var failures []string

	if e.Error != "" {
		switch {
		case res.Output != nil:
			failures = append(failures, mismatch("error", e.Error, "success"))
		case res.Code != e.Error && !strings.Contains(res.Err, e.Error):
			failures = append(failures, mismatch("error", fmt.Sprintf("%q", e.Error), fmt.Sprintf("%q", res.Err)))
		}
		return failures
	}

	if res.Output == nil {
		return append(failures, "unexpected error: "+res.Err)
	}
	out := res.Output

	if e.Type != "" && !strings.EqualFold(e.Type, string(out.Type)) {
		failures = append(failures, mismatch("type", e.Type, string(out.Type)))
	}
	if e.JS != "" && e.JS != out.JS {
		failures = append(failures, mismatch("js", fmt.Sprintf("%q", e.JS), fmt.Sprintf("%q", out.JS)))
	}
	if e.SQL != "" && e.SQL != out.SQL {
		failures = append(failures, mismatch("sql", fmt.Sprintf("%q", e.SQL), fmt.Sprintf("%q", out.SQL)))
	}

	failures = append(failures, checkContains("js", out.JS, e.JSContains)...)
	failures = append(failures, checkContains("sql", out.SQL, e.SQLContains)...)
	failures = append(failures, checkContains("safe_js", out.SafeJS, e.SafeJSContains)...)
	failures = append(failures, checkContains("safe_sql", out.SafeSQL, e.SafeSQLContains)...)
	return failures
}

func checkContains(field, text string, subs []string) []string {
	var failures []string
	for _, sub := range subs {
		if !strings.Contains(text, sub) {
			failures = append(failures, fmt.Sprintf("%s: %q not found in %q", field, sub, text))
		}
	}
	return failures
}
