package ir

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing literal payloads.
// Only Text, Number and Bool implement it.
// There is no float variant: numbers are exact decimals so the JS and SQL
// renderings of a literal are textually identical.
type Value interface {
	value() // Sealed - only these types implement it
}

// Text is a text literal payload.
type Text string

func (Text) value() {}

// Number is an exact decimal literal payload.
type Number struct {
	decimal.Decimal
}

func (Number) value() {}

// Bool is a boolean literal payload.
type Bool bool

func (Bool) value() {}

// NewText creates an NFC-normalised Text value.
func NewText(s string) Text {
	return Text(norm.NFC.String(s))
}

// ParseNumber parses decimal text (e.g. "42", "-0.5", "1e3") into a Number.
func ParseNumber(s string) (Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Number{Decimal: d}, nil
}

// NumberFromInt creates a Number from an integer.
func NumberFromInt(n int64) Number {
	return Number{Decimal: decimal.NewFromInt(n)}
}

// valueType returns the NodeType a payload naturally belongs to.
func valueType(v Value) (NodeType, error) {
	switch v.(type) {
	case Text:
		return TypeLiteral, nil
	case Number:
		return TypeNumber, nil
	case Bool:
		return TypeBoolean, nil
	default:
		return "", fmt.Errorf("unsupported literal value: %T", v)
	}
}
