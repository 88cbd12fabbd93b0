package dateformat

import (
	"encoding/json"
	"fmt"

	"github.com/Bpium/formulex/internal/codegen"
)

// sentinelBase is the first code point of the Unicode private use area.
// The SQL runtime path parks each matched token on one private use
// character so shorter tokens cannot match inside it.
const sentinelBase = 0xE000

// jsInterpreter applies the embedded table with the same range tracking as
// Translate. t is the table, f the format, r the substituted ranges.
const jsInterpreter = `if (f == null) return null; let s = String(f); const r = []; ` +
	`for (const [k, v] of t) { let p = 0; for (;;) { const i = s.indexOf(k, p); if (i < 0) break; const e = i + k.length; ` +
	`if (r.some((x) => x.s < e && x.e > i)) { p = i + 1; continue; } ` +
	`s = s.slice(0, i) + v + s.slice(e); const d = v.length - k.length; ` +
	`for (const x of r) { if (x.s >= e) { x.s += d; x.e += d; } } ` +
	`r.push({ s: i, e: i + v.length }); p = i + v.length; } } return s;`

// RuntimeJS renders JavaScript that translates the runtime value of expr.
func (t *Table) RuntimeJS(expr string) string {
	pairs := make([][2]string, len(t.tokens))
	for i, tok := range t.tokens {
		pairs[i] = [2]string{tok.From, tok.To}
	}
	table, err := json.Marshal(pairs)
	if err != nil {
		panic(fmt.Sprintf("encode format table: %v", err))
	}
	return codegen.Arrow([]string{"t", "f"}, jsInterpreter, string(table), expr)
}

// RuntimeSQL renders SQL that translates the runtime value of expr. Every
// source token is first replaced by its own private use sentinel, longest
// first, and the sentinels are then replaced by destination tokens. The
// result equals Translate for formats that contain no private use
// characters.
func (t *Table) RuntimeSQL(expr string) string {
	out := expr
	for i, tok := range t.tokens {
		out = codegen.Call("REPLACE", out, codegen.SQLString(tok.From), sentinel(i))
	}
	for i, tok := range t.tokens {
		out = codegen.Call("REPLACE", out, sentinel(i), codegen.SQLString(tok.To))
	}
	return out
}

func sentinel(i int) string {
	return fmt.Sprintf("CHR(%d)", sentinelBase+i)
}

// RenderJS translates a rendered JavaScript format argument. A string
// literal is translated now and inlined; anything else is translated at
// runtime.
func (t *Table) RenderJS(snippet string) string {
	if lit, ok := JSLiteral(snippet); ok {
		return codegen.JSString(t.Translate(lit))
	}
	return t.RuntimeJS(snippet)
}

// RenderSQL is RenderJS for the SQL backend.
func (t *Table) RenderSQL(snippet string) string {
	if lit, ok := SQLLiteral(snippet); ok {
		return codegen.SQLString(t.Translate(lit))
	}
	return t.RuntimeSQL(snippet)
}
