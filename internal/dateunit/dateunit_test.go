package dateunit

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bpium/formulex/internal/codegen"
)

func TestDefaultTableOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"YEAR", "QUARTER", "MONTH", "WEEK", "DAY", "HOUR", "MINUTE", "SECOND"},
		Default.Keys())

	u, ok := Default.Lookup("QUARTER")
	require.True(t, ok)
	assert.True(t, u.MonthBased())
	assert.Equal(t, 3, u.Months)

	u, ok = Default.Lookup("WEEK")
	require.True(t, ok)
	assert.False(t, u.MonthBased())
	assert.Equal(t, 604800, u.Seconds)

	_, ok = Default.Lookup("year")
	assert.False(t, ok)
}

func TestNewTableRejects(t *testing.T) {
	valid := Unit{Key: "DAY", JS: "days", SQLField: "day", SQLInterval: "1 day", Seconds: 86400}

	tests := []struct {
		name  string
		units []Unit
		want  string
	}{
		{"empty", nil, "empty"},
		{"duplicate", []Unit{valid, valid}, "duplicate unit DAY"},
		{"lower case", []Unit{{Key: "day", JS: "days", SQLField: "day", SQLInterval: "1 day", Seconds: 1}}, "upper case"},
		{"missing token", []Unit{{Key: "DAY", SQLField: "day", SQLInterval: "1 day", Seconds: 1}}, "required"},
		{"both spans", []Unit{{Key: "DAY", JS: "days", SQLField: "day", SQLInterval: "1 day", Seconds: 1, Months: 1}}, "exactly one"},
		{"no span", []Unit{{Key: "DAY", JS: "days", SQLField: "day", SQLInterval: "1 day"}}, "exactly one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.units)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestTableUnitsIsCopy(t *testing.T) {
	units := Default.Units()
	units[0].Key = "CHANGED"
	assert.Equal(t, "YEAR", Default.Keys()[0])
}

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable([]Unit{
		{Key: "YEAR", JS: "years", SQLField: "year", SQLInterval: "1 year", Months: 12},
		{Key: "DAY", JS: "days", SQLField: "day", SQLInterval: "1 day", Seconds: 86400},
	})
	require.NoError(t, err)
	return tbl
}

func TestDispatcherStandardRaises(t *testing.T) {
	d := NewDispatcher(testTable(t))
	js := d.JS(`record["unit"]`, false, func(u Unit) string { return `add("` + u.JS + `")` })
	assert.Equal(t,
		`((u) => { if (u === "YEAR") return add("years"); if (u === "DAY") return add("days"); throw new Error("UNKNOWN_UNIT: " + u); })(record["unit"])`,
		js)

	sql := d.SQL(`"unit"`, false, codegen.SQLText, func(u Unit) string { return "'" + u.SQLInterval + "'" })
	assert.Equal(t,
		`CASE ("unit") WHEN 'YEAR' THEN '1 year' WHEN 'DAY' THEN '1 day' ELSE CAST(CAST('UNKNOWN_UNIT: ' || ("unit") AS INTEGER) AS TEXT) END`,
		sql)
}

func TestDispatcherSafeReturnsNull(t *testing.T) {
	d := NewDispatcher(testTable(t))
	js := d.JS(`"FORTNIGHT"`, true, func(u Unit) string { return u.JS })
	assert.Contains(t, js, "return null;")
	assert.NotContains(t, js, "throw")

	sql := d.SQL(`'FORTNIGHT'`, true, codegen.SQLNumeric, func(u Unit) string { return u.SQLField })
	assert.Contains(t, sql, "ELSE NULL END")
	assert.NotContains(t, sql, "UNKNOWN_UNIT")
}

func TestDispatcherNilTableUsesDefault(t *testing.T) {
	assert.Same(t, Default, NewDispatcher(nil).Table)
}

func TestDefaultLadderGolden(t *testing.T) {
	d := NewDispatcher(nil)
	js := d.JS("unit", false, func(u Unit) string { return "dt.plus({ " + u.JS + ": n })" })
	sql := d.SQL("unit", true, codegen.SQLTimestamp, func(u Unit) string { return "ts + INTERVAL '" + u.SQLInterval + "'" })

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "default_ladder_js", []byte(js))
	g.Assert(t, "default_ladder_sql_safe", []byte(sql))
}
