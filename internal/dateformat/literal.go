package dateformat

import (
	"encoding/json"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	doubleQuotedToken
	singleQuotedToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var doubleQuotedMatcher = parsly.NewToken(doubleQuotedToken, "String", matcher.NewBlock('"', '"', '\\'))
var singleQuotedMatcher = parsly.NewToken(singleQuotedToken, "String", matcher.NewBlock('\'', '\'', '\\'))

// quotedBlock reports whether snippet consists of exactly one quoted block
// matched by tok, ignoring surrounding whitespace, and returns the block
// including its quotes.
func quotedBlock(snippet string, tok *parsly.Token) (string, bool) {
	cursor := parsly.NewCursor("", []byte(snippet), 0)
	matched := cursor.MatchAfterOptional(whitespaceMatcher, tok)
	if matched.Code != tok.Code {
		return "", false
	}
	text := matched.Text(cursor)
	cursor.MatchOne(whitespaceMatcher)
	if cursor.Pos < cursor.InputSize {
		return "", false
	}
	return text, true
}

// JSLiteral returns the value of snippet when it is a single JavaScript
// double-quoted string literal.
func JSLiteral(snippet string) (string, bool) {
	text, ok := quotedBlock(snippet, doubleQuotedMatcher)
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return "", false
	}
	return value, true
}

// SQLLiteral returns the value of snippet when it is a single SQL string
// literal without embedded quotes or backslashes.
func SQLLiteral(snippet string) (string, bool) {
	text, ok := quotedBlock(snippet, singleQuotedMatcher)
	if !ok {
		return "", false
	}
	body := text[1 : len(text)-1]
	if strings.ContainsAny(body, `'\`) {
		return "", false
	}
	return body, true
}
