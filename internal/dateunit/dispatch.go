package dateunit

import (
	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/overload"
)

// Arm renders the branch body for one unit.
type Arm func(u Unit) string

// Dispatcher emits a runtime ladder over every unit of a table. The unit
// argument of date functions is an arbitrary expression, so the choice of
// unit can only happen when the generated code runs.
type Dispatcher struct {
	Table *Table
}

// NewDispatcher returns a dispatcher over t, or over Default when t is nil.
func NewDispatcher(t *Table) Dispatcher {
	if t == nil {
		t = Default
	}
	return Dispatcher{Table: t}
}

func (d Dispatcher) ladder(unit string, safe bool, typ codegen.SQLType, arm Arm) codegen.Ladder {
	l := codegen.Ladder{
		Subject: unit,
		Code:    string(overload.ErrCodeUnknownUnit),
		Type:    typ,
	}
	if safe {
		l.Fallback = codegen.Null
	}
	for _, u := range d.Table.units {
		l.Branches = append(l.Branches, codegen.Branch{Key: u.Key, Expr: arm(u)})
	}
	return l
}

// JS renders the ladder as JavaScript. In safe mode an unknown unit
// evaluates to null, otherwise the generated code throws.
func (d Dispatcher) JS(unit string, safe bool, arm Arm) string {
	return d.ladder(unit, safe, "", arm).JS()
}

// SQL renders the ladder as a CASE expression of result type typ.
func (d Dispatcher) SQL(unit string, safe bool, typ codegen.SQLType, arm Arm) string {
	return d.ladder(unit, safe, typ, arm).SQL()
}
