// Package harness runs formula scenarios: YAML files that pair typed
// expression trees with the output expected from the renderer.
//
// # Scenario Format
//
//	name: text_functions
//	description: "Text helpers render in both dialects"
//	config: tables.cue        # optional, relative to the scenario file
//	cases:
//	  - name: shout
//	    formula:
//	      call: UPPER
//	      type: LITERAL
//	      args:
//	        - {field: name, type: LITERAL}
//	    expect:
//	      type: LITERAL
//	      js: (record["name"]).toUpperCase()
//	      sql: UPPER("name")
//	  - name: bad_arity
//	    formula: {call: UPPER, type: LITERAL}
//	    expect:
//	      error: ARITY_MISMATCH
//
// # Expectations
//
//   - type: the resolved result type
//   - error: an error code (TYPE_MISMATCH, ARITY_MISMATCH, UNKNOWN_NAME) or
//     a substring of the error message
//   - js, sql: exact standard output
//   - js_contains, sql_contains, safe_js_contains, safe_sql_contains:
//     substrings that must appear in the output
//
// A case without an error expectation fails when rendering fails.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/text.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
