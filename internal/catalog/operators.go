package catalog

import (
	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
)

func arithmetic(jsOp, sqlOp string) []overload.OperatorDefinition {
	return []overload.OperatorDefinition{{
		Operands: overload.Exact(ir.TypeNumber),
		Returns:  ir.TypeNumber,
		JS:       infix(jsOp),
		SQL:      infix(sqlOp),
	}}
}

func comparison(jsOp, sqlOp string) []overload.OperatorDefinition {
	return []overload.OperatorDefinition{{
		Operands: overload.Any(),
		Returns:  ir.TypeBoolean,
		JS:       infix(jsOp),
		SQL:      infix(sqlOp),
	}}
}

func logical(jsOp, sqlOp string) []overload.OperatorDefinition {
	return []overload.OperatorDefinition{{
		Operands: overload.Exact(ir.TypeBoolean),
		Returns:  ir.TypeBoolean,
		JS:       infix(jsOp),
		SQL:      infix(sqlOp),
	}}
}

// operators returns the binary operator table. PLUS order matters: the
// mixed text and number entry must come after both exact entries.
func operators() overload.OperatorTable {
	return overload.OperatorTable{
		"PLUS": {
			{
				Operands: overload.Exact(ir.TypeNumber),
				Returns:  ir.TypeNumber,
				JS:       infix("+"),
				SQL:      infix("+"),
			},
			{
				Operands: overload.Exact(ir.TypeLiteral),
				Returns:  ir.TypeLiteral,
				JS:       infix("+"),
				SQL:      call("CONCAT"),
			},
			{
				Operands: overload.Set(ir.TypeLiteral, ir.TypeNumber),
				Returns:  ir.TypeLiteral,
				JS: func(in overload.Input) string {
					return "(String(" + in.Arg(0) + ") + String(" + in.Arg(1) + "))"
				},
				SQL: func(in overload.Input) string {
					return codegen.Call("CONCAT", sqlText(in.Arg(0)), sqlText(in.Arg(1)))
				},
			},
		},
		"MINUS":     arithmetic("-", "-"),
		"MULTIPLY":  arithmetic("*", "*"),
		"REMAINDER": arithmetic("%", "%"),
		"DIVISION": {{
			Operands: overload.Exact(ir.TypeNumber),
			Returns:  ir.TypeNumber,
			JS:       infix("/"),
			SQL: func(in overload.Input) string {
				return "(CAST(" + in.Arg(0) + " AS NUMERIC) / " + in.Arg(1) + ")"
			},
		}},
		"POWER": {{
			Operands: overload.Exact(ir.TypeNumber),
			Returns:  ir.TypeNumber,
			JS:       call("Math.pow"),
			SQL:      call("POWER"),
		}},

		"EQUAL":            comparison("===", "="),
		"NOT_EQUAL":        comparison("!==", "<>"),
		"GREATER":          comparison(">", ">"),
		"GREATER_OR_EQUAL": comparison(">=", ">="),
		"LESS":             comparison("<", "<"),
		"LESS_OR_EQUAL":    comparison("<=", "<="),

		"AND": logical("&&", "AND"),
		"OR":  logical("||", "OR"),
	}
}
