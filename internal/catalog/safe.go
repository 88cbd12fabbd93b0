package catalog

import (
	"github.com/Bpium/formulex/internal/overload"
)

// SafePrefix names the always-safe alias of a function.
const SafePrefix = "SAFE"

// safeAliases registers SAFE<NAME> for every function with a safe
// variant. The alias renders the safe variant in both modes; overloads
// without one keep their standard renders.
func safeAliases(fns overload.FunctionTable) overload.FunctionTable {
	aliases := overload.FunctionTable{}
	for name, defs := range fns {
		hasSafe := false
		for _, d := range defs {
			hasSafe = hasSafe || d.HasSafe()
		}
		if !hasSafe {
			continue
		}
		out := make([]overload.FunctionDefinition, len(defs))
		for i, d := range defs {
			if d.HasSafe() {
				d.JS, d.SQL = d.SafeJS, d.SafeSQL
				d.SafeJS, d.SafeSQL = nil, nil
			}
			out[i] = d
		}
		aliases[SafePrefix+name] = out
	}
	return aliases
}
