package ir

import (
	"fmt"
	"strings"
)

// NodeType is the semantic value category of a node.
//
// The set is closed: dates are represented as formatted TypeLiteral values,
// so there is no dedicated date type.
type NodeType string

const (
	// TypeNumber is a numeric value.
	TypeNumber NodeType = "NUMBER"

	// TypeLiteral is a text value (dates included).
	TypeLiteral NodeType = "LITERAL"

	// TypeBoolean is a true/false value.
	TypeBoolean NodeType = "BOOLEAN"
)

// AllNodeTypes lists every NodeType in declaration order.
var AllNodeTypes = []NodeType{TypeNumber, TypeLiteral, TypeBoolean}

// Valid reports whether t is one of the declared node types.
func (t NodeType) Valid() bool {
	switch t {
	case TypeNumber, TypeLiteral, TypeBoolean:
		return true
	}
	return false
}

func (t NodeType) String() string {
	return string(t)
}

// ParseNodeType converts a case-insensitive type name into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown node type %q: must be one of %v", s, AllNodeTypes)
	}
	return t, nil
}

// JoinTypes renders a type list as "A|B|C"; an empty list means any type.
func JoinTypes(types []NodeType) string {
	if len(types) == 0 {
		return "ANY"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}
