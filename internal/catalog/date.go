package catalog

import (
	"strconv"

	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/dateformat"
	"github.com/Bpium/formulex/internal/dateunit"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
)

// Date values travel as LITERALs shaped "2024-01-31 13:45:00+00".
const (
	jsDateFormat  = `"yyyy-LL-dd HH:mm:ssZZZ"`
	sqlDateFormat = `'YYYY-MM-DD HH24:MI:SS'`
)

// dates renders the date family over one unit table and one pair of format
// tables.
type dates struct {
	units dateunit.Dispatcher
	js    *dateformat.Table
	sql   *dateformat.Table
}

func jsParse(d string) string {
	return "DateTime.fromFormat(" + d + ", " + jsDateFormat + ", { setZone: true })"
}

func jsOut(dt string) string {
	return dt + ".toFormat(" + jsDateFormat + ").slice(0, -2)"
}

// jsValid returns null for an invalid DateTime instead of formatting it.
func jsValid(dt string) string {
	return arrow([]string{"dt"}, "dt.isValid ? "+jsOut("dt")+" : null", dt)
}

func sqlParse(d string) string {
	return "(CAST(" + d + " AS TIMESTAMPTZ) AT TIME ZONE 'UTC')"
}

func sqlOut(ts string) string {
	return "(TO_CHAR(" + ts + ", " + sqlDateFormat + ") || '+00')"
}

func sqlExtract(field, ts string) string {
	return "EXTRACT(" + field + " FROM " + ts + ")"
}

func dateArg() overload.ArgSpec   { return overload.Arg(text...) }
func numberArg() overload.ArgSpec { return overload.Arg(number...) }

func (d dates) functions() overload.FunctionTable {
	return overload.FunctionTable{
		"DATE": {{
			Args: []overload.ArgSpec{
				numberArg(), numberArg(), numberArg(),
				overload.OptionalArg(number...),
				overload.OptionalArg(number...),
				overload.OptionalArg(number...),
			},
			Returns: text,
			JS:      func(in overload.Input) string { return jsOut(dateJS(in)) },
			SQL:     dateSQL,
			SafeJS:  func(in overload.Input) string { return jsValid(dateJS(in)) },
			SafeSQL: dateSQL,
		}},
		"DATEADD":     d.shift("plus", "+"),
		"DATESUB":     d.shift("minus", "-"),
		"DATEDIFF":    d.diff(),
		"DATESTARTOF": d.startOf(),
		"DATEENDOF":   d.endOf(),
		"DATEPARSE": {{
			Args:    []overload.ArgSpec{overload.Arg(text...), overload.Arg(text...)},
			Returns: text,
			JS:      func(in overload.Input) string { return jsOut(d.parseJS(in)) },
			SQL:     d.parseSQL,
			SafeJS:  func(in overload.Input) string { return jsValid(d.parseJS(in)) },
			SafeSQL: d.parseSQL,
		}},
		"DATEFORMAT": {{
			Args:    []overload.ArgSpec{dateArg(), overload.Arg(text...)},
			Returns: text,
			JS: func(in overload.Input) string {
				return jsParse(in.Arg(0)) + ".toFormat(" + d.js.RenderJS(in.Arg(1)) + ")"
			},
			SQL: func(in overload.Input) string {
				return "TO_CHAR(" + sqlParse(in.Arg(0)) + ", " + d.sql.RenderSQL(in.Arg(1)) + ")"
			},
		}},

		"YEAR":    accessor("year", "YEAR"),
		"QUARTER": accessor("quarter", "QUARTER"),
		"MONTH":   accessor("month", "MONTH"),
		"WEEKNUM": accessor("weekNumber", "WEEK"),
		"WEEKDAY": accessor("weekday", "ISODOW"),
		"DAY":     accessor("day", "DAY"),
		"HOUR":    accessor("hour", "HOUR"),
		"MINUTE":  accessor("minute", "MINUTE"),
		"SECOND":  accessor("second", "SECOND"),

		"SETYEAR": setter(
			func(n string) string { return "year: " + n },
			func(ts, n string) string { return shiftBy(ts, "years", n, sqlExtract("YEAR", ts)) }),
		"SETQUARTER": setter(
			func(n string) string { return "month: ((" + n + ") - 1) * 3 + 1" },
			func(ts, n string) string {
				return shiftBy(ts, "months", "(("+n+") - 1) * 3 + 1", sqlExtract("MONTH", ts))
			}),
		"SETMONTH": setter(
			func(n string) string { return "month: " + n },
			func(ts, n string) string { return shiftBy(ts, "months", n, sqlExtract("MONTH", ts)) }),
		"SETDAY": setter(
			func(n string) string { return "day: " + n },
			func(ts, n string) string { return shiftBy(ts, "days", n, sqlExtract("DAY", ts)) }),
		"SETWEEKNUM": setter(
			func(n string) string { return "weekNumber: " + n },
			func(ts, n string) string { return shiftBy(ts, "weeks", n, sqlExtract("WEEK", ts)) }),
		"SETWEEKDAY": setter(
			func(n string) string { return "weekday: " + n },
			func(ts, n string) string { return shiftBy(ts, "days", n, sqlExtract("ISODOW", ts)) }),
		"SETHOUR": setter(
			func(n string) string { return "hour: " + n },
			func(ts, n string) string { return shiftBy(ts, "hours", n, sqlExtract("HOUR", ts)) }),
		"SETMINUTE": setter(
			func(n string) string { return "minute: " + n },
			func(ts, n string) string { return shiftBy(ts, "mins", n, sqlExtract("MINUTE", ts)) }),
		"SETSECOND": setter(
			func(n string) string { return "second: " + n },
			func(ts, n string) string {
				return "DATE_TRUNC('minute', " + ts + ") + MAKE_INTERVAL(secs => " + n + ")"
			}),
		"SETTIME": {{
			Args:    []overload.ArgSpec{dateArg(), numberArg(), numberArg(), numberArg()},
			Returns: text,
			JS: func(in overload.Input) string {
				return jsOut(jsParse(in.Arg(0)) + ".set({ hour: " + in.Arg(1) + ", minute: " + in.Arg(2) + ", second: " + in.Arg(3) + " })")
			},
			SQL: func(in overload.Input) string {
				return sqlOut("(DATE_TRUNC('day', " + sqlParse(in.Arg(0)) + ") + MAKE_INTERVAL(hours => " +
					sqlInt(in.Arg(1)) + ", mins => " + sqlInt(in.Arg(2)) + ", secs => " + in.Arg(3) + "))")
			},
		}},
	}
}

func dateJS(in overload.Input) string {
	opt := func(i int) string {
		if in.Has(i) {
			return in.Arg(i)
		}
		return "0"
	}
	return `DateTime.fromObject({ year: ` + in.Arg(0) + `, month: 1, day: 1 }, { zone: "utc" }).plus({ months: ` +
		in.Arg(1) + ` - 1, days: ` + in.Arg(2) + ` - 1, hours: ` + opt(3) + `, minutes: ` + opt(4) + `, seconds: ` + opt(5) + ` })`
}

func dateSQL(in overload.Input) string {
	opt := func(i int) string {
		if in.Has(i) {
			return in.Arg(i)
		}
		return "0"
	}
	return sqlOut("(MAKE_TIMESTAMP(" + sqlInt(in.Arg(0)) + ", 1, 1, 0, 0, 0) + MAKE_INTERVAL(months => " +
		sqlInt(in.Arg(1)) + " - 1, days => " + sqlInt(in.Arg(2)) + " - 1, hours => " + sqlInt(opt(3)) +
		", mins => " + sqlInt(opt(4)) + ", secs => " + opt(5) + "))")
}

func (d dates) parseJS(in overload.Input) string {
	return "DateTime.fromFormat(" + in.Arg(0) + ", " + d.js.RenderJS(in.Arg(1)) + `, { zone: "utc" })`
}

// parseSQL keeps the parsed wall-clock time, matching the JS parse in UTC
// whatever the session TimeZone.
func (d dates) parseSQL(in overload.Input) string {
	return sqlOut("CAST(TO_TIMESTAMP(" + in.Arg(0) + ", " + d.sql.RenderSQL(in.Arg(1)) + ") AS TIMESTAMP)")
}

// unitFunction declares a date function whose last argument is a unit.
// The standard render raises on an unknown unit and the safe render
// evaluates to null.
func unitFunction(args []overload.ArgSpec, returns []ir.NodeType, js, sql func(in overload.Input, safe bool) string) []overload.FunctionDefinition {
	return []overload.FunctionDefinition{{
		Args:    args,
		Returns: returns,
		JS:      func(in overload.Input) string { return js(in, false) },
		SQL:     func(in overload.Input) string { return sql(in, false) },
		SafeJS:  func(in overload.Input) string { return js(in, true) },
		SafeSQL: func(in overload.Input) string { return sql(in, true) },
	}}
}

// shift renders DATEADD and DATESUB. JS binds every operand once as an
// arrow argument and dispatches the whole operation; SQL dispatches only
// the interval.
func (d dates) shift(luxon, sqlOp string) []overload.FunctionDefinition {
	return unitFunction(
		[]overload.ArgSpec{dateArg(), numberArg(), overload.Arg(text...)},
		text,
		func(in overload.Input, safe bool) string {
			ladder := d.units.JS("v", safe, func(u dateunit.Unit) string {
				return jsOut(jsParse("d") + "." + luxon + "({ " + codegen.JSString(u.JS) + ": Number(n) })")
			})
			return arrow([]string{"d", "n", "v"}, ladder, in.Arg(0), in.Arg(1), in.Arg(2))
		},
		func(in overload.Input, safe bool) string {
			interval := d.units.SQL(in.Arg(2), safe, codegen.SQLInterval, func(u dateunit.Unit) string {
				return "INTERVAL " + codegen.SQLString(u.SQLInterval)
			})
			return sqlOut("(" + sqlParse(in.Arg(0)) + " " + sqlOp + " " + codegen.Paren(in.Arg(1)) + " * (" + interval + "))")
		},
	)
}

// diff renders DATEDIFF(end, start, unit) as the whole number of units
// between the dates, ignoring sign.
func (d dates) diff() []overload.FunctionDefinition {
	return unitFunction(
		[]overload.ArgSpec{dateArg(), dateArg(), overload.Arg(text...)},
		number,
		func(in overload.Input, safe bool) string {
			ladder := d.units.JS("v", safe, func(u dateunit.Unit) string {
				unit := codegen.JSString(u.JS)
				return "Math.floor(Math.abs(" + jsParse("s") + ".diff(" + jsParse("e") + ", " + unit + ").as(" + unit + ")))"
			})
			return arrow([]string{"e", "s", "v"}, ladder, in.Arg(0), in.Arg(1), in.Arg(2))
		},
		func(in overload.Input, safe bool) string {
			end, start := sqlParse(in.Arg(0)), sqlParse(in.Arg(1))
			age := "AGE(" + end + ", " + start + ")"
			months := "(" + sqlExtract("YEAR", age) + " * 12 + " + sqlExtract("MONTH", age) + ")"
			seconds := sqlExtract("EPOCH", "("+end+" - "+start+")")
			return d.units.SQL(in.Arg(2), safe, codegen.SQLNumeric, func(u dateunit.Unit) string {
				if u.MonthBased() {
					return "FLOOR(ABS(" + months + " / " + strconv.Itoa(u.Months) + "))"
				}
				return "FLOOR(ABS(" + seconds + " / " + strconv.Itoa(u.Seconds) + "))"
			})
		},
	)
}

func (d dates) startOf() []overload.FunctionDefinition {
	return unitFunction(
		[]overload.ArgSpec{dateArg(), overload.Arg(text...)},
		text,
		func(in overload.Input, safe bool) string {
			ladder := d.units.JS("v", safe, func(u dateunit.Unit) string {
				return jsOut(jsParse("d") + ".startOf(" + codegen.JSString(u.JS) + ")")
			})
			return arrow([]string{"d", "v"}, ladder, in.Arg(0), in.Arg(1))
		},
		func(in overload.Input, safe bool) string {
			return sqlOut("DATE_TRUNC(" + d.sqlField(in.Arg(1), safe) + ", " + sqlParse(in.Arg(0)) + ")")
		},
	)
}

// endOf renders the last second of the unit containing the date.
func (d dates) endOf() []overload.FunctionDefinition {
	return unitFunction(
		[]overload.ArgSpec{dateArg(), overload.Arg(text...)},
		text,
		func(in overload.Input, safe bool) string {
			ladder := d.units.JS("v", safe, func(u dateunit.Unit) string {
				return jsOut(jsParse("d") + ".endOf(" + codegen.JSString(u.JS) + ")")
			})
			return arrow([]string{"d", "v"}, ladder, in.Arg(0), in.Arg(1))
		},
		func(in overload.Input, safe bool) string {
			interval := d.units.SQL(in.Arg(1), safe, codegen.SQLInterval, func(u dateunit.Unit) string {
				return "INTERVAL " + codegen.SQLString(u.SQLInterval)
			})
			return sqlOut("(DATE_TRUNC(" + d.sqlField(in.Arg(1), safe) + ", " + sqlParse(in.Arg(0)) + ") + (" +
				interval + ") - INTERVAL '1 second')")
		},
	)
}

func (d dates) sqlField(unit string, safe bool) string {
	return d.units.SQL(unit, safe, codegen.SQLText, func(u dateunit.Unit) string {
		return codegen.SQLString(u.SQLField)
	})
}

// accessor renders a date component as a number.
func accessor(luxon, field string) []overload.FunctionDefinition {
	return []overload.FunctionDefinition{{
		Args:    []overload.ArgSpec{dateArg()},
		Returns: number,
		JS: func(in overload.Input) string {
			return jsParse(in.Arg(0)) + "." + luxon
		},
		SQL: func(in overload.Input) string {
			return "FLOOR(" + sqlExtract(field, sqlParse(in.Arg(0))) + ")"
		},
	}}
}

// setter renders a date component mutator. jsSet returns the luxon set
// object body; sqlSet returns the shifted timestamp.
func setter(jsSet func(n string) string, sqlSet func(ts, n string) string) []overload.FunctionDefinition {
	return []overload.FunctionDefinition{{
		Args:    []overload.ArgSpec{dateArg(), numberArg()},
		Returns: text,
		JS: func(in overload.Input) string {
			return jsOut(jsParse(in.Arg(0)) + ".set({ " + jsSet(in.Arg(1)) + " })")
		},
		SQL: func(in overload.Input) string {
			return sqlOut("(" + sqlSet(sqlParse(in.Arg(0)), in.Arg(1)) + ")")
		},
	}}
}

// shiftBy renders ts moved by whole units of field so that the component
// read by current becomes target.
func shiftBy(ts, field, target, current string) string {
	return ts + " + MAKE_INTERVAL(" + field + " => " + sqlInt(target) + " - " + sqlInt(current) + ")"
}
