package codegen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// JSString renders s as a double-quoted JavaScript string literal.
func JSString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// SQLString renders s as a single-quoted SQL string literal.
func SQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SQLIdent renders name as a double-quoted SQL identifier.
func SQLIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Number renders d in plain decimal notation, wrapping negatives in
// parentheses so the snippet embeds under any operator.
func Number(d decimal.Decimal) string {
	s := d.String()
	if d.IsNegative() {
		return "(" + s + ")"
	}
	return s
}

// JSBool renders b as a JavaScript boolean.
func JSBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// SQLBool renders b as a SQL boolean.
func SQLBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Paren wraps s in parentheses.
func Paren(s string) string {
	return "(" + s + ")"
}

// Call renders name(args...).
func Call(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}
