package catalog

import (
	"strings"

	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/overload"
)

// infix renders "(a op b)".
func infix(op string) overload.RenderFunc {
	return func(in overload.Input) string {
		return "(" + in.Arg(0) + " " + op + " " + in.Arg(1) + ")"
	}
}

// call renders name(args...) over every supplied argument.
func call(name string) overload.RenderFunc {
	return func(in overload.Input) string {
		return codegen.Call(name, in.Args...)
	}
}

// method renders (receiver).name(rest...).
func method(name string) overload.RenderFunc {
	return func(in overload.Input) string {
		return codegen.Paren(in.Arg(0)) + "." + name + "(" + strings.Join(in.Args[1:], ", ") + ")"
	}
}

// property renders (receiver).name.
func property(name string) overload.RenderFunc {
	return func(in overload.Input) string {
		return codegen.Paren(in.Arg(0)) + "." + name
	}
}

// sqlInt casts a numeric snippet to integer.
func sqlInt(s string) string {
	return "CAST(" + s + " AS INTEGER)"
}

// sqlCount truncates a numeric snippet toward zero and clamps it at zero,
// as JavaScript string methods treat counts.
func sqlCount(s string) string {
	return "GREATEST(CAST(TRUNC(" + s + ") AS INTEGER), 0)"
}

// sqlText casts a snippet to text.
func sqlText(s string) string {
	return "CAST(" + s + " AS TEXT)"
}

// jsArray renders [a, b, ...].
func jsArray(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// arrow renders an immediately invoked arrow function returning expr.
func arrow(params []string, expr string, args ...string) string {
	return codegen.Arrow(params, "return "+expr+";", args...)
}
