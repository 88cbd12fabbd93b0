package overload

import (
	"github.com/Bpium/formulex/internal/ir"
)

// OperatorTable maps an operator name to its ordered overloads.
type OperatorTable map[string][]OperatorDefinition

// FunctionTable maps a function name to its ordered overloads.
type FunctionTable map[string][]FunctionDefinition

// MatchOperator returns the first overload of name accepting (left, right).
func (t OperatorTable) MatchOperator(name string, left, right ir.NodeType) (OperatorDefinition, error) {
	defs, ok := t[name]
	if !ok {
		return OperatorDefinition{}, NewUnknownNameError("operator", name)
	}
	return MatchOperator(name, defs, left, right)
}

// MatchFunction returns the first overload of name accepting args.
func (t FunctionTable) MatchFunction(name string, args []ir.NodeType) (FunctionDefinition, error) {
	defs, ok := t[name]
	if !ok {
		return FunctionDefinition{}, NewUnknownNameError("function", name)
	}
	return MatchFunction(name, defs, args)
}

// MatchOperator scans defs in order and returns the first definition whose
// operand spec accepts the observed types.
func MatchOperator(name string, defs []OperatorDefinition, left, right ir.NodeType) (OperatorDefinition, error) {
	for _, d := range defs {
		if d.Operands.Accepts(left, right) {
			return d, nil
		}
	}
	return OperatorDefinition{}, NewOperatorTypeError(name, defs, left, right)
}

// MatchFunction scans defs in order and returns the first definition that
// satisfies both arity and every argument's type constraint.
//
// When no definition matches, the error describes the first overload whose
// arity fit (TYPE_MISMATCH naming the offending position), or
// ARITY_MISMATCH when no overload accepts the argument count at all.
func MatchFunction(name string, defs []FunctionDefinition, args []ir.NodeType) (FunctionDefinition, error) {
	var firstTypeErr *Error
	for _, d := range defs {
		if !d.acceptsArity(len(args)) {
			continue
		}
		pos := firstRejected(d, args)
		if pos == 0 {
			return d, nil
		}
		if firstTypeErr == nil {
			firstTypeErr = NewArgumentTypeError(name, pos, d.specAt(pos-1).Types, args)
		}
	}
	if firstTypeErr != nil {
		return FunctionDefinition{}, firstTypeErr
	}
	return FunctionDefinition{}, NewArityError(name, defs, args)
}

// firstRejected returns the 1-based position of the first argument d does
// not accept, or 0 when every argument is accepted.
func firstRejected(d FunctionDefinition, args []ir.NodeType) int {
	for i, t := range args {
		if !d.specAt(i).Accepts(t) {
			return i + 1
		}
	}
	return 0
}
