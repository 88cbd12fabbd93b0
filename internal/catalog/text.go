package catalog

import (
	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
)

// unknownSide is raised by generated TRIM code for an unrecognised side.
const unknownSide = "UNKNOWN_SIDE"

var trimSides = []string{"BOTH", "LEADING", "TRAILING"}

var (
	text    = []ir.NodeType{ir.TypeLiteral}
	number  = []ir.NodeType{ir.TypeNumber}
	textNum = []ir.NodeType{ir.TypeLiteral, ir.TypeNumber}
)

func textFunctions() overload.FunctionTable {
	return overload.FunctionTable{
		"CONCAT": {{
			Args:    []overload.ArgSpec{overload.Many(textNum...)},
			Returns: text,
			// Array join renders null as "", matching SQL CONCAT.
			JS: func(in overload.Input) string {
				return jsArray(in.Args) + `.join("")`
			},
			SQL: call("CONCAT"),
		}},
		"JOIN": {{
			Args:                []overload.ArgSpec{overload.Arg(text...), overload.Many(textNum...)},
			Returns:             text,
			JS:                  joinJS,
			SQL:                 joinSQL,
			SpecialNullHandling: true,
		}},
		"TRIM": {{
			Args: []overload.ArgSpec{
				overload.Arg(text...),
				overload.OptionalArg(text...),
				overload.OptionalArg(text...),
			},
			Returns: text,
			JS:      func(in overload.Input) string { return trimJS(in, false) },
			SQL:     func(in overload.Input) string { return trimSQL(in, false) },
			SafeJS:  func(in overload.Input) string { return trimJS(in, true) },
			SafeSQL: func(in overload.Input) string { return trimSQL(in, true) },
		}},
		"SEARCH": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(text...)},
			Returns: number,
			JS: func(in overload.Input) string {
				return "(" + codegen.Paren(in.Arg(0)) + ".indexOf(" + in.Arg(1) + ") + 1)"
			},
			SQL: func(in overload.Input) string {
				return "POSITION(" + in.Arg(1) + " IN " + in.Arg(0) + ")"
			},
		}},
		"REPLACE": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(text...), overload.Arg(text...)},
			Returns: text,
			JS: func(in overload.Input) string {
				return codegen.Paren(in.Arg(0)) + ".split(" + in.Arg(1) + ").join(" + in.Arg(2) + ")"
			},
			SQL: call("REPLACE"),
		}},
		"LOWER": {{
			Args:    []overload.ArgSpec{overload.Arg(text...)},
			Returns: text,
			JS:      method("toLowerCase"),
			SQL:     call("LOWER"),
		}},
		"UPPER": {{
			Args:    []overload.ArgSpec{overload.Arg(text...)},
			Returns: text,
			JS:      method("toUpperCase"),
			SQL:     call("UPPER"),
		}},
		"REPEAT": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(number...)},
			Returns: text,
			JS: func(in overload.Input) string {
				return codegen.Paren(in.Arg(0)) + ".repeat(Math.max(0, " + in.Arg(1) + "))"
			},
			SQL: func(in overload.Input) string {
				return codegen.Call("REPEAT", in.Arg(0), sqlCount(in.Arg(1)))
			},
		}},
		"SUBSTRING": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(number...), overload.Arg(number...)},
			Returns: text,
			JS: func(in overload.Input) string {
				return arrow([]string{"s", "i", "n"}, "s.substring(i - 1, i - 1 + n)", in.Args...)
			},
			SQL: func(in overload.Input) string {
				return "SUBSTRING(" + in.Arg(0) + " FROM " + sqlInt(in.Arg(1)) + " FOR " + sqlInt(in.Arg(2)) + ")"
			},
		}},
		"LEFT": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(number...)},
			Returns: text,
			JS: func(in overload.Input) string {
				return codegen.Paren(in.Arg(0)) + ".slice(0, Math.max(0, " + in.Arg(1) + "))"
			},
			SQL: func(in overload.Input) string {
				return codegen.Call("LEFT", in.Arg(0), sqlCount(in.Arg(1)))
			},
		}},
		"RIGHT": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(number...)},
			Returns: text,
			JS: func(in overload.Input) string {
				return codegen.Arrow([]string{"s", "n"}, `const k = Math.trunc(n); return k > 0 ? s.slice(-k) : "";`, in.Args...)
			},
			SQL: func(in overload.Input) string {
				return codegen.Call("RIGHT", in.Arg(0), sqlCount(in.Arg(1)))
			},
		}},
		"LEN": {{
			Args:    []overload.ArgSpec{overload.Arg(text...)},
			Returns: number,
			JS:      property("length"),
			SQL:     call("CHAR_LENGTH"),
		}},
		"TO_STRING": {{
			Args:    []overload.ArgSpec{overload.Arg()},
			Returns: text,
			JS:      call("String"),
			SQL: func(in overload.Input) string {
				return sqlText(in.Arg(0))
			},
		}},
	}
}

// joinJS joins the values after the separator. With special null handling
// null and empty values are dropped instead of leaving empty slots.
func joinJS(in overload.Input) string {
	values := jsArray(in.Args[1:])
	if in.SpecialNullHandling {
		values += `.filter((v) => v != null && v !== "")`
	}
	return values + ".join(" + in.Arg(0) + ")"
}

// joinSQL mirrors joinJS. CONCAT_WS skips NULL already; special null
// handling also skips empty strings.
func joinSQL(in overload.Input) string {
	args := []string{in.Arg(0)}
	for _, v := range in.Args[1:] {
		if in.SpecialNullHandling {
			v = "NULLIF(" + sqlText(v) + ", '')"
		}
		args = append(args, v)
	}
	return codegen.Call("CONCAT_WS", args...)
}

// jsTrimBody renders the trim of s by the character class held in c for
// one side.
func jsTrimBody(side string) string {
	switch side {
	case "LEADING":
		return `s.replace(new RegExp("^" + e), "")`
	case "TRAILING":
		return `s.replace(new RegExp(e + "$"), "")`
	default:
		return `s.replace(new RegExp("^" + e + "|" + e + "$", "g"), "")`
	}
}

// trimJS renders TRIM(text[, chars[, side]]). Chars default to a space and
// side to BOTH. A dynamic side goes through a runtime ladder.
func trimJS(in overload.Input, safe bool) string {
	chars := codegen.JSString(" ")
	if in.Has(1) {
		chars = in.Arg(1)
	}
	var body string
	if !in.Has(2) {
		body = "return " + jsTrimBody("BOTH") + ";"
	} else {
		l := codegen.Ladder{Subject: "k", Param: "k", Code: unknownSide}
		if safe {
			l.Fallback = codegen.Null
		}
		for _, side := range trimSides {
			l.Branches = append(l.Branches, codegen.Branch{Key: side, Expr: jsTrimBody(side)})
		}
		body = "return " + l.JS() + ";"
	}
	prelude := `const e = "[" + String(c).replace(new RegExp("[\\]\\\\^-]", "g"), "\\$&") + "]+"; `
	if safe {
		prelude = "if (s == null || c == null) return null; " + prelude
	}
	params, args := []string{"s", "c"}, []string{in.Arg(0), chars}
	if in.Has(2) {
		params, args = append(params, "k"), append(args, in.Arg(2))
	}
	return codegen.Arrow(params, prelude+body, args...)
}

func sqlTrimBody(side, s, chars string) string {
	return "TRIM(" + side + " " + chars + " FROM " + s + ")"
}

// trimSQL mirrors trimJS with TRIM(side chars FROM text).
func trimSQL(in overload.Input, safe bool) string {
	chars := codegen.SQLString(" ")
	if in.Has(1) {
		chars = in.Arg(1)
	}
	if !in.Has(2) {
		return sqlTrimBody("BOTH", in.Arg(0), chars)
	}
	l := codegen.Ladder{Subject: in.Arg(2), Code: unknownSide, Type: codegen.SQLText}
	if safe {
		l.Fallback = codegen.Null
	}
	for _, side := range trimSides {
		l.Branches = append(l.Branches, codegen.Branch{
			Key:  side,
			Expr: sqlTrimBody(side, in.Arg(0), chars),
		})
	}
	return l.SQL()
}
