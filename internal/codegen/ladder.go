package codegen

import (
	"strings"
)

// Fallback selects what a ladder evaluates to when no branch matches.
type Fallback int

const (
	// Raise makes the generated code fail at execution time.
	Raise Fallback = iota

	// Null makes the generated code evaluate to null.
	Null
)

// SQLType is the SQL type a ladder evaluates to. The raising fallback
// needs it so every CASE branch shares one type.
type SQLType string

const (
	SQLText      SQLType = "TEXT"
	SQLNumeric   SQLType = "NUMERIC"
	SQLBoolean   SQLType = "BOOLEAN"
	SQLTimestamp SQLType = "TIMESTAMP"
	SQLInterval  SQLType = "INTERVAL"
)

// Branch is one arm of a ladder: when the subject equals Key, the ladder
// evaluates to Expr.
type Branch struct {
	Key  string
	Expr string
}

// Ladder is a sequential equality test of a runtime subject against
// constant keys. Branch order is preserved in the output.
type Ladder struct {
	// Subject is the already rendered expression being dispatched on.
	Subject string

	// Param is the JS parameter name bound to Subject inside the ladder.
	// Branch expressions may refer to it. Defaults to "u".
	Param string

	Branches []Branch
	Fallback Fallback

	// Code prefixes the runtime failure message, e.g. "UNKNOWN_UNIT".
	Code string

	// Type is the SQL result type of every branch.
	Type SQLType
}

func (l Ladder) param() string {
	if l.Param == "" {
		return "u"
	}
	return l.Param
}

// JS renders the ladder as an immediately invoked arrow function:
//
//	((u) => { if (u === "YEAR") return X; ... throw new Error("UNKNOWN_UNIT: " + u); })(subject)
func (l Ladder) JS() string {
	p := l.param()
	var b strings.Builder
	b.WriteString("((")
	b.WriteString(p)
	b.WriteString(") => { ")
	for _, br := range l.Branches {
		b.WriteString("if (")
		b.WriteString(p)
		b.WriteString(" === ")
		b.WriteString(JSString(br.Key))
		b.WriteString(") return ")
		b.WriteString(br.Expr)
		b.WriteString("; ")
	}
	if l.Fallback == Null {
		b.WriteString("return null;")
	} else {
		b.WriteString(JSRaise(l.Code, p))
	}
	b.WriteString(" })(")
	b.WriteString(l.Subject)
	b.WriteString(")")
	return b.String()
}

// SQL renders the ladder as a simple CASE expression. The raising fallback
// is SQLRaise of the ladder type, so the CASE stays well typed.
func (l Ladder) SQL() string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(Paren(l.Subject))
	for _, br := range l.Branches {
		b.WriteString(" WHEN ")
		b.WriteString(SQLString(br.Key))
		b.WriteString(" THEN ")
		b.WriteString(br.Expr)
	}
	b.WriteString(" ELSE ")
	if l.Fallback == Null {
		b.WriteString("NULL")
	} else {
		b.WriteString(SQLRaise(l.Code, l.Subject, l.Type))
	}
	b.WriteString(" END")
	return b.String()
}

// JSRaise renders a throw statement whose message is code followed by the
// offending runtime value.
func JSRaise(code, value string) string {
	return "throw new Error(" + JSString(code+": ") + " + " + value + ");"
}

// SQLRaise renders an expression that fails at execution time with code
// and the offending value in the error message. The INTEGER cast fails
// first; the result then goes through TEXT because PostgreSQL has no
// INTEGER cast to TIMESTAMP or INTERVAL.
func SQLRaise(code, value string, typ SQLType) string {
	msg := "CAST(CAST(" + SQLString(code+": ") + " || " + Paren(value) + " AS INTEGER) AS TEXT)"
	if typ == "" || typ == SQLText {
		return msg
	}
	return "CAST(" + msg + " AS " + string(typ) + ")"
}

// Arrow renders an immediately invoked arrow function with a block body.
func Arrow(params []string, body string, args ...string) string {
	return "((" + strings.Join(params, ", ") + ") => { " + body + " })(" + strings.Join(args, ", ") + ")"
}
