package catalog

import (
	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/overload"
)

// numericPattern matches text PostgreSQL can cast to NUMERIC.
const numericPattern = `^\s*[-+]?([0-9]+[.]?[0-9]*|[.][0-9]+)\s*$`

func unaryNumber(js, sql string) []overload.FunctionDefinition {
	return []overload.FunctionDefinition{{
		Args:    []overload.ArgSpec{overload.Arg(number...)},
		Returns: number,
		JS:      call(js),
		SQL:     call(sql),
	}}
}

func numberFunctions() overload.FunctionTable {
	return overload.FunctionTable{
		"ABS":   unaryNumber("Math.abs", "ABS"),
		"FLOOR": unaryNumber("Math.floor", "FLOOR"),
		"CEIL":  unaryNumber("Math.ceil", "CEIL"),
		"SQRT":  unaryNumber("Math.sqrt", "SQRT"),
		"ROUND": {{
			Args:    []overload.ArgSpec{overload.Arg(number...), overload.OptionalArg(number...)},
			Returns: number,
			// Half away from zero, as PostgreSQL rounds NUMERIC.
			JS: func(in overload.Input) string {
				digits := "0"
				if in.Has(1) {
					digits = in.Arg(1)
				}
				return arrow([]string{"x", "p"},
					"Math.sign(x) * Math.round(Math.abs(x) * Math.pow(10, p)) / Math.pow(10, p)",
					in.Arg(0), digits)
			},
			SQL: func(in overload.Input) string {
				if !in.Has(1) {
					return codegen.Call("ROUND", "CAST("+in.Arg(0)+" AS NUMERIC)")
				}
				return codegen.Call("ROUND", "CAST("+in.Arg(0)+" AS NUMERIC)", sqlInt(in.Arg(1)))
			},
		}},
		"MIN": {{
			Args:    []overload.ArgSpec{overload.Many(number...)},
			Returns: number,
			JS:      call("Math.min"),
			SQL:     call("LEAST"),
		}},
		"MAX": {{
			Args:    []overload.ArgSpec{overload.Many(number...)},
			Returns: number,
			JS:      call("Math.max"),
			SQL:     call("GREATEST"),
		}},
		"TO_NUMBER": {
			{
				Args:    []overload.ArgSpec{overload.Arg(number...)},
				Returns: number,
				JS:      func(in overload.Input) string { return in.Arg(0) },
				SQL:     func(in overload.Input) string { return in.Arg(0) },
			},
			{
				Args:    []overload.ArgSpec{overload.Arg(text...)},
				Returns: number,
				JS:      call("Number"),
				SQL: func(in overload.Input) string {
					return "CAST(" + in.Arg(0) + " AS NUMERIC)"
				},
				SafeJS: func(in overload.Input) string {
					return codegen.Arrow([]string{"s"},
						`if (s == null || String(s).trim() === "") return null; const v = Number(s); return Number.isNaN(v) ? null : v;`,
						in.Arg(0))
				},
				SafeSQL: func(in overload.Input) string {
					return "CASE WHEN " + codegen.Paren(in.Arg(0)) + " ~ " + codegen.SQLString(numericPattern) +
						" THEN CAST(" + in.Arg(0) + " AS NUMERIC) ELSE NULL END"
				},
			},
		},
	}
}
