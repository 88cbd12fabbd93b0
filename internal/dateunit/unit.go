// Package dateunit holds the date unit table and emits the runtime unit
// dispatch used by date arithmetic functions.
package dateunit

import (
	"fmt"
	"strings"
)

// Unit maps one canonical unit key to its backend tokens.
type Unit struct {
	// Key is the canonical name a formula passes at runtime, e.g. "YEAR".
	Key string

	// JS is the luxon duration unit, e.g. "years".
	JS string

	// SQLField is the PostgreSQL date_trunc/EXTRACT field, e.g. "year".
	SQLField string

	// SQLInterval is the PostgreSQL interval literal body for one unit,
	// e.g. "1 year".
	SQLInterval string

	// Months is the span in calendar months for month-based units.
	Months int

	// Seconds is the span in seconds for fixed-length units.
	Seconds int
}

// MonthBased reports whether the unit is measured in calendar months.
func (u Unit) MonthBased() bool {
	return u.Months > 0
}

// Validate checks a unit for completeness.
func (u Unit) Validate() error {
	switch {
	case u.Key == "":
		return fmt.Errorf("unit key is required")
	case strings.ToUpper(u.Key) != u.Key:
		return fmt.Errorf("unit %s: key must be upper case", u.Key)
	case u.JS == "" || u.SQLField == "" || u.SQLInterval == "":
		return fmt.Errorf("unit %s: js, sql field and sql interval are required", u.Key)
	case (u.Months > 0) == (u.Seconds > 0):
		return fmt.Errorf("unit %s: exactly one of months or seconds must be positive", u.Key)
	}
	return nil
}

// Table is an ordered, immutable set of units.
type Table struct {
	units []Unit
	index map[string]int
}

// NewTable validates units and builds a table preserving their order.
func NewTable(units []Unit) (*Table, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("unit table is empty")
	}
	t := &Table{
		units: make([]Unit, len(units)),
		index: make(map[string]int, len(units)),
	}
	for i, u := range units {
		if err := u.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.index[u.Key]; dup {
			return nil, fmt.Errorf("duplicate unit %s", u.Key)
		}
		t.units[i] = u
		t.index[u.Key] = i
	}
	return t, nil
}

// MustTable is NewTable that panics on error. Used for built-in tables.
func MustTable(units []Unit) *Table {
	t, err := NewTable(units)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the unit with the given key.
func (t *Table) Lookup(key string) (Unit, bool) {
	i, ok := t.index[key]
	if !ok {
		return Unit{}, false
	}
	return t.units[i], true
}

// Units returns a copy of the units in declaration order.
func (t *Table) Units() []Unit {
	return append([]Unit(nil), t.units...)
}

// Keys returns the unit keys in declaration order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.units))
	for i, u := range t.units {
		keys[i] = u.Key
	}
	return keys
}

// Default is the built-in unit table.
var Default = MustTable([]Unit{
	{Key: "YEAR", JS: "years", SQLField: "year", SQLInterval: "1 year", Months: 12},
	{Key: "QUARTER", JS: "quarters", SQLField: "quarter", SQLInterval: "3 months", Months: 3},
	{Key: "MONTH", JS: "months", SQLField: "month", SQLInterval: "1 month", Months: 1},
	{Key: "WEEK", JS: "weeks", SQLField: "week", SQLInterval: "1 week", Seconds: 604800},
	{Key: "DAY", JS: "days", SQLField: "day", SQLInterval: "1 day", Seconds: 86400},
	{Key: "HOUR", JS: "hours", SQLField: "hour", SQLInterval: "1 hour", Seconds: 3600},
	{Key: "MINUTE", JS: "minutes", SQLField: "minute", SQLInterval: "1 minute", Seconds: 60},
	{Key: "SECOND", JS: "seconds", SQLField: "second", SQLInterval: "1 second", Seconds: 1},
})
