package overload

import (
	"fmt"
	"strings"

	"github.com/Bpium/formulex/internal/ir"
)

type operandKind int

const (
	anyKind operandKind = iota
	exactKind
	setKind
)

// OperandSpec describes which operand types an operator accepts.
// Construct it with Any, Exact or Set.
type OperandSpec struct {
	kind  operandKind
	types []ir.NodeType
}

// Any accepts operands of any type as long as both sides agree.
func Any() OperandSpec {
	return OperandSpec{kind: anyKind}
}

// Exact accepts only operands that are both exactly t.
func Exact(t ir.NodeType) OperandSpec {
	return OperandSpec{kind: exactKind, types: []ir.NodeType{t}}
}

// Set accepts any combination of operand types drawn from types.
func Set(types ...ir.NodeType) OperandSpec {
	return OperandSpec{kind: setKind, types: append([]ir.NodeType(nil), types...)}
}

// Accepts reports whether the spec matches the observed operand types.
func (s OperandSpec) Accepts(left, right ir.NodeType) bool {
	switch s.kind {
	case anyKind:
		return left == right
	case exactKind:
		return left == s.types[0] && right == s.types[0]
	case setKind:
		return contains(s.types, left) && contains(s.types, right)
	}
	return false
}

// Expected lists the types the spec names (empty for Any).
func (s OperandSpec) Expected() []ir.NodeType {
	return append([]ir.NodeType(nil), s.types...)
}

func (s OperandSpec) String() string {
	switch s.kind {
	case anyKind:
		return "ANY"
	case exactKind:
		return string(s.types[0])
	default:
		return "{" + ir.JoinTypes(s.types) + "}"
	}
}

// Input is what a render function receives.
type Input struct {
	// Args holds the rendered operand or argument snippets in call order.
	Args []string

	// Types holds the NodeType of each argument, parallel to Args.
	Types []ir.NodeType

	// SpecialNullHandling is copied from the resolved FunctionDefinition.
	// Renderers that honour it skip null arguments instead of stringifying
	// them.
	SpecialNullHandling bool
}

// Arg returns the i-th rendered argument, or "" when the call site omitted
// an optional argument.
func (in Input) Arg(i int) string {
	if i < len(in.Args) {
		return in.Args[i]
	}
	return ""
}

// Has reports whether the call site supplied the i-th argument.
func (in Input) Has(i int) bool {
	return i < len(in.Args)
}

// RenderFunc turns rendered operands into a snippet of one backend dialect.
type RenderFunc func(in Input) string

// OperatorDefinition is one overload of a binary operator.
type OperatorDefinition struct {
	Operands OperandSpec
	Returns  ir.NodeType
	JS       RenderFunc
	SQL      RenderFunc
}

// Validate checks that the definition is complete.
func (d OperatorDefinition) Validate() error {
	if !d.Returns.Valid() {
		return fmt.Errorf("invalid return type %q", d.Returns)
	}
	if d.JS == nil || d.SQL == nil {
		return fmt.Errorf("both JS and SQL renderers are required")
	}
	for _, t := range d.Operands.types {
		if !t.Valid() {
			return fmt.Errorf("invalid operand type %q", t)
		}
	}
	return nil
}

// ArgSpec describes one argument position of a function.
type ArgSpec struct {
	// Types lists the accepted types; empty accepts any type.
	Types []ir.NodeType

	// Optional marks a trailing argument that may be omitted.
	Optional bool

	// Variadic makes the position consume every remaining call-site
	// argument. Only legal on the last ArgSpec.
	Variadic bool
}

// Accepts reports whether t may appear at this position.
func (a ArgSpec) Accepts(t ir.NodeType) bool {
	return len(a.Types) == 0 || contains(a.Types, t)
}

// Arg is shorthand for a required single-position ArgSpec.
func Arg(types ...ir.NodeType) ArgSpec {
	return ArgSpec{Types: types}
}

// OptionalArg is shorthand for an optional trailing ArgSpec.
func OptionalArg(types ...ir.NodeType) ArgSpec {
	return ArgSpec{Types: types, Optional: true}
}

// Many is shorthand for a required variadic ArgSpec (one or more).
func Many(types ...ir.NodeType) ArgSpec {
	return ArgSpec{Types: types, Variadic: true}
}

// FunctionDefinition is one overload of a function.
type FunctionDefinition struct {
	Args    []ArgSpec
	Returns []ir.NodeType

	JS  RenderFunc
	SQL RenderFunc

	// SafeJS and SafeSQL are used in safe mode when present. They evaluate
	// to null where the standard variant would raise at runtime.
	SafeJS  RenderFunc
	SafeSQL RenderFunc

	// SpecialNullHandling is threaded into Input for the renderer.
	SpecialNullHandling bool
}

// HasSafe reports whether the definition declares a safe variant.
func (d FunctionDefinition) HasSafe() bool {
	return d.SafeJS != nil || d.SafeSQL != nil
}

// Arity returns the accepted argument count range; max is -1 when the last
// argument is variadic.
func (d FunctionDefinition) Arity() (minArgs, maxArgs int) {
	for _, a := range d.Args {
		if !a.Optional {
			minArgs++
		}
	}
	if n := len(d.Args); n > 0 && d.Args[n-1].Variadic {
		return minArgs, -1
	}
	return minArgs, len(d.Args)
}

// accepts checks arity for n call-site arguments.
func (d FunctionDefinition) acceptsArity(n int) bool {
	minArgs, maxArgs := d.Arity()
	if n < minArgs {
		return false
	}
	return maxArgs < 0 || n <= maxArgs
}

// specAt returns the ArgSpec governing call-site position i.
func (d FunctionDefinition) specAt(i int) ArgSpec {
	if i >= len(d.Args) {
		return d.Args[len(d.Args)-1]
	}
	return d.Args[i]
}

// Validate checks that the definition is well formed: variadic only on the
// last position, optional positions only after required ones, and both
// backends present.
func (d FunctionDefinition) Validate() error {
	if d.JS == nil || d.SQL == nil {
		return fmt.Errorf("both JS and SQL renderers are required")
	}
	if (d.SafeJS == nil) != (d.SafeSQL == nil) {
		return fmt.Errorf("safe renderers must be declared for both backends")
	}
	if len(d.Returns) == 0 {
		return fmt.Errorf("at least one return type is required")
	}
	for _, t := range d.Returns {
		if !t.Valid() {
			return fmt.Errorf("invalid return type %q", t)
		}
	}

	seenOptional := false
	for i, a := range d.Args {
		if a.Variadic && i != len(d.Args)-1 {
			return fmt.Errorf("argument %d: variadic is only legal on the last argument", i+1)
		}
		if a.Optional {
			seenOptional = true
		} else if seenOptional {
			return fmt.Errorf("argument %d: required argument follows an optional one", i+1)
		}
		for _, t := range a.Types {
			if !t.Valid() {
				return fmt.Errorf("argument %d: invalid type %q", i+1, t)
			}
		}
	}
	return nil
}

// Signature renders a human readable signature such as
// "DATEADD(LITERAL, NUMBER, LITERAL) -> LITERAL".
func (d FunctionDefinition) Signature(name string) string {
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		p := ir.JoinTypes(a.Types)
		if a.Variadic {
			p += "..."
		}
		if a.Optional {
			p = "[" + p + "]"
		}
		parts[i] = p
	}
	return fmt.Sprintf("%s(%s) -> %s", name, strings.Join(parts, ", "), ir.JoinTypes(d.Returns))
}

// Signature renders "PLUS(NUMBER, NUMBER) -> NUMBER" style text.
func (d OperatorDefinition) Signature(name string) string {
	return fmt.Sprintf("%s(%s, %s) -> %s", name, d.Operands, d.Operands, d.Returns)
}

func contains(types []ir.NodeType, t ir.NodeType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
