package overload

import (
	"errors"
	"fmt"

	"github.com/Bpium/formulex/internal/ir"
)

// ErrorCode categorizes compile-time resolution failures.
type ErrorCode string

const (
	// ErrCodeTypeMismatch indicates no overload accepts the observed types.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeArityMismatch indicates the argument count fits no overload.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnknownName indicates the operator or function is not declared.
	ErrCodeUnknownName ErrorCode = "UNKNOWN_NAME"

	// ErrCodeUnknownUnit is never returned at compile time. Generated code
	// raises it when a dynamic date unit matches no table entry.
	ErrCodeUnknownUnit ErrorCode = "UNKNOWN_UNIT"
)

// Error is a structured overload resolution failure.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the operator or function being resolved.
	Name string

	// Node identifies the offending tree node. Filled in by the renderer.
	Node string

	// Position is the 1-based offending argument position, 0 when the
	// failure is not tied to one argument.
	Position int

	// Expected lists the accepted types at Position (or the declared
	// return types when the node's own type disagrees).
	Expected []ir.NodeType

	// Actual is the observed type list.
	Actual []ir.NodeType
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Node != "" {
		msg += fmt.Sprintf(" (node=%s)", e.Node)
	}
	return msg
}

// WithNode returns a copy of e tagged with the offending node identity.
func (e *Error) WithNode(node string) *Error {
	cp := *e
	cp.Node = node
	return &cp
}

// IsTypeMismatch returns true if err is a TYPE_MISMATCH error.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

// IsArityMismatch returns true if err is an ARITY_MISMATCH error.
func IsArityMismatch(err error) bool {
	return hasCode(err, ErrCodeArityMismatch)
}

// IsUnknownName returns true if err is an UNKNOWN_NAME error.
func IsUnknownName(err error) bool {
	return hasCode(err, ErrCodeUnknownName)
}

// AsError extracts the structured error from err.
func AsError(err error) (*Error, bool) {
	var oe *Error
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	oe, ok := AsError(err)
	return ok && oe.Code == code
}

// NewOperatorTypeError creates a TYPE_MISMATCH for a binary operator.
func NewOperatorTypeError(name string, defs []OperatorDefinition, left, right ir.NodeType) *Error {
	specs := make([]string, len(defs))
	for i, d := range defs {
		specs[i] = d.Operands.String()
	}
	var expected []ir.NodeType
	for _, d := range defs {
		for _, t := range d.Operands.Expected() {
			if !contains(expected, t) {
				expected = append(expected, t)
			}
		}
	}
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("operator %s does not accept (%s, %s); overloads: %v", name, left, right, specs),
		Name:     name,
		Expected: expected,
		Actual:   []ir.NodeType{left, right},
	}
}

// NewArgumentTypeError creates a TYPE_MISMATCH for one function argument.
func NewArgumentTypeError(name string, position int, expected []ir.NodeType, actual []ir.NodeType) *Error {
	return &Error{
		Code: ErrCodeTypeMismatch,
		Message: fmt.Sprintf("function %s argument %d: expected %s, got %s",
			name, position, ir.JoinTypes(expected), actual[position-1]),
		Name:     name,
		Position: position,
		Expected: append([]ir.NodeType(nil), expected...),
		Actual:   append([]ir.NodeType(nil), actual...),
	}
}

// NewArityError creates an ARITY_MISMATCH for a function call.
func NewArityError(name string, defs []FunctionDefinition, actual []ir.NodeType) *Error {
	shapes := make([]string, len(defs))
	for i, d := range defs {
		minArgs, maxArgs := d.Arity()
		switch {
		case maxArgs < 0:
			shapes[i] = fmt.Sprintf("%d+", minArgs)
		case minArgs == maxArgs:
			shapes[i] = fmt.Sprintf("%d", minArgs)
		default:
			shapes[i] = fmt.Sprintf("%d-%d", minArgs, maxArgs)
		}
	}
	return &Error{
		Code:    ErrCodeArityMismatch,
		Message: fmt.Sprintf("function %s called with %d arguments; accepts %v", name, len(actual), shapes),
		Name:    name,
		Actual:  append([]ir.NodeType(nil), actual...),
	}
}

// NewReturnTypeError creates a TYPE_MISMATCH for a node whose declared type
// is not produced by the resolved overload.
func NewReturnTypeError(name string, declared ir.NodeType, returns []ir.NodeType) *Error {
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("%s returns %s, node declares %s", name, ir.JoinTypes(returns), declared),
		Name:     name,
		Expected: append([]ir.NodeType(nil), returns...),
		Actual:   []ir.NodeType{declared},
	}
}

// NewUnknownNameError creates an UNKNOWN_NAME error.
func NewUnknownNameError(kind, name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownName,
		Message: fmt.Sprintf("unknown %s %q", kind, name),
		Name:    name,
	}
}
