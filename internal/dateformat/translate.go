// Package dateformat translates date format strings between token
// dialects.
//
// Translation is longest-match and non-overlapping: tokens are applied
// longest first, every occurrence is replaced left to right, and an
// occurrence overlapping text produced by an earlier substitution is
// skipped. A literal format is translated while generating code; a dynamic
// one is translated by code emitted into the output.
package dateformat

import (
	"fmt"
	"sort"
	"strings"
)

// Token maps one source token to its destination token.
type Token struct {
	From string
	To   string
}

// Table is an immutable token table ordered longest source token first.
// Tokens of equal length keep their declaration order.
type Table struct {
	tokens []Token
}

// NewTable validates tokens and orders them for translation.
func NewTable(tokens []Token) (*Table, error) {
	seen := make(map[string]bool, len(tokens))
	sorted := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.From == "" {
			return nil, fmt.Errorf("format token with empty source")
		}
		if seen[tok.From] {
			return nil, fmt.Errorf("duplicate format token %q", tok.From)
		}
		seen[tok.From] = true
		sorted = append(sorted, tok)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].From) > len(sorted[j].From)
	})
	return &Table{tokens: sorted}, nil
}

// MustTable is NewTable that panics on error.
func MustTable(tokens []Token) *Table {
	t, err := NewTable(tokens)
	if err != nil {
		panic(err)
	}
	return t
}

// Tokens returns the tokens in translation order.
func (t *Table) Tokens() []Token {
	return append([]Token(nil), t.tokens...)
}

type span struct {
	start, end int
}

func (s span) overlaps(start, end int) bool {
	return s.start < end && s.end > start
}

// Translate rewrites format into the destination dialect.
func (t *Table) Translate(format string) string {
	var done []span
	for _, tok := range t.tokens {
		pos := 0
		for pos <= len(format) {
			idx := strings.Index(format[pos:], tok.From)
			if idx < 0 {
				break
			}
			start := pos + idx
			end := start + len(tok.From)

			if overlapsAny(done, start, end) {
				pos = start + 1
				continue
			}

			format = format[:start] + tok.To + format[end:]
			delta := len(tok.To) - len(tok.From)
			for i := range done {
				if done[i].start >= end {
					done[i].start += delta
					done[i].end += delta
				}
			}
			done = append(done, span{start: start, end: start + len(tok.To)})
			pos = start + len(tok.To)
		}
	}
	return format
}

func overlapsAny(done []span, start, end int) bool {
	for _, s := range done {
		if s.overlaps(start, end) {
			return true
		}
	}
	return false
}
