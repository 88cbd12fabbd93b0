package dateformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulateSentinels mirrors the REPLACE chain emitted by RuntimeSQL.
func simulateSentinels(t *Table, format string) string {
	for i, tok := range t.tokens {
		format = strings.ReplaceAll(format, tok.From, string(rune(sentinelBase+i)))
	}
	for i, tok := range t.tokens {
		format = strings.ReplaceAll(format, string(rune(sentinelBase+i)), tok.To)
	}
	return format
}

func TestTableOrderLongestFirst(t *testing.T) {
	tbl := MustTable([]Token{
		{From: "YY", To: "yy"},
		{From: "YYYY", To: "yyyy"},
		{From: "MM", To: "LL"},
		{From: "DDD", To: "ooo"},
	})
	var froms []string
	for _, tok := range tbl.Tokens() {
		froms = append(froms, tok.From)
	}
	assert.Equal(t, []string{"YYYY", "DDD", "YY", "MM"}, froms)
}

func TestNewTableRejects(t *testing.T) {
	_, err := NewTable([]Token{{From: "", To: "x"}})
	assert.ErrorContains(t, err, "empty source")

	_, err = NewTable([]Token{{From: "MM", To: "LL"}, {From: "MM", To: "mm"}})
	assert.ErrorContains(t, err, `duplicate format token "MM"`)
}

func TestTranslateLuxon(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"YYYY-MM-DD HH24:MI:SS", "yyyy-LL-dd HH:mm:ss"},
		{"HH24MI", "HHmm"},
		{"YYYYMM", "yyyyLL"},
		{"HH12:MI AM", "hh:mm a"},
		{"DDD", "ooo"},
		{"Month DD, YYYY", "LLLL dd, yyyy"},
		{"Dy Mon", "ccc LLL"},
		{"%Y-%m-%d %H:%M:%S", "yyyy-LL-dd HH:mm:ss"},
		{"SS.MS", "ss.SSS"},
		{"no tokens here", "no tokens here"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Luxon.Translate(tt.in))
		})
	}
}

func TestTranslateLongTokenIsOneUnit(t *testing.T) {
	tbl := MustTable([]Token{
		{From: "HH", To: "hh"},
		{From: "HH24", To: "HH"},
	})
	// HH24 is replaced whole, and its output HH is not retranslated.
	assert.Equal(t, "HH", tbl.Translate("HH24"))
	assert.Equal(t, "HHhh", tbl.Translate("HH24HH"))
	assert.Equal(t, "hhHH", tbl.Translate("HHHH24"))
}

func TestTranslateSkipsOverlapWithEarlierOutput(t *testing.T) {
	tbl := MustTable([]Token{
		{From: "MS", To: "SSS"},
		{From: "SS", To: "ss"},
	})
	assert.Equal(t, "SSS", tbl.Translate("MS"))
	assert.Equal(t, "ssSSS", tbl.Translate("SSMS"))
	assert.Equal(t, "SSSss", tbl.Translate("MSSS"))
}

func TestTranslateShiftsEarlierRanges(t *testing.T) {
	tbl := MustTable([]Token{
		{From: "ABCD", To: "x"},
		{From: "EF", To: "ABCDEF"},
		{From: "D", To: "d"},
	})
	// ABCD shrinks to x, EF grows; the D inside the EF output stays.
	assert.Equal(t, "dxABCDEFd", tbl.Translate("DABCDEFD"))
}

func TestTranslatePostgres(t *testing.T) {
	assert.Equal(t, "YYYY-MM-DD HH24:MI:SS", Postgres.Translate("%Y-%m-%d %H:%M:%S"))
	assert.Equal(t, "YYYY-MM-DD", Postgres.Translate("YYYY-MM-DD"))
}

func TestSentinelChainMatchesTranslate(t *testing.T) {
	inputs := []string{
		"YYYY-MM-DD HH24:MI:SS",
		"HH24HH12HH",
		"SSMS.MSSS",
		"DDDD Day Dy",
		"Month Mon MM",
		"%Y%m%d%H%M%S",
		"AMPM TZ",
	}
	for _, tbl := range []*Table{Luxon, Postgres} {
		for _, in := range inputs {
			assert.Equal(t, tbl.Translate(in), simulateSentinels(tbl, in), in)
		}
	}
}

func TestRuntimeSQL(t *testing.T) {
	tbl := MustTable([]Token{{From: "%Y", To: "YYYY"}, {From: "%m", To: "MM"}})
	assert.Equal(t,
		`REPLACE(REPLACE(REPLACE(REPLACE("fmt", '%Y', CHR(57344)), '%m', CHR(57345)), CHR(57344), 'YYYY'), CHR(57345), 'MM')`,
		tbl.RuntimeSQL(`"fmt"`))
}

func TestRuntimeJS(t *testing.T) {
	tbl := MustTable([]Token{{From: "YYYY", To: "yyyy"}})
	js := tbl.RuntimeJS(`record["fmt"]`)
	assert.True(t, strings.HasPrefix(js, "((t, f) => { if (f == null) return null;"))
	assert.True(t, strings.HasSuffix(js, `})([["YYYY","yyyy"]], record["fmt"])`))
}

func TestRenderChoosesPath(t *testing.T) {
	assert.Equal(t, `"yyyy-LL-dd"`, Luxon.RenderJS(`"YYYY-MM-DD"`))
	assert.Contains(t, Luxon.RenderJS(`record["fmt"]`), "indexOf")

	assert.Equal(t, `'YYYY-MM-DD'`, Postgres.RenderSQL(`'%Y-%m-%d'`))
	assert.Contains(t, Postgres.RenderSQL(`"fmt"`), "REPLACE(")
}

func TestLiteralDetection(t *testing.T) {
	v, ok := JSLiteral(`"a \"quoted\" é"`)
	require.True(t, ok)
	assert.Equal(t, "a \"quoted\" é", v)

	v, ok = JSLiteral(`  "padded"  `)
	require.True(t, ok)
	assert.Equal(t, "padded", v)

	_, ok = JSLiteral(`"a" + "b"`)
	assert.False(t, ok)
	_, ok = JSLiteral(`record["fmt"]`)
	assert.False(t, ok)

	v, ok = SQLLiteral(`'YYYY'`)
	require.True(t, ok)
	assert.Equal(t, "YYYY", v)

	_, ok = SQLLiteral(`'it''s'`)
	assert.False(t, ok)
	_, ok = SQLLiteral(`'a' || 'b'`)
	assert.False(t, ok)
	_, ok = SQLLiteral(`"fmt"`)
	assert.False(t, ok)
}
