package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON encoding of a tree for
// hashing.
//
// Key differences from standard json.Marshal:
//  1. Object keys sorted by UTF-16 code units (RFC 8785 order)
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Numbers are encoded as their canonical decimal text, never as floats
//  5. Node IDs are excluded: they identify nodes for diagnostics, not the
//     formula itself
func MarshalCanonical(n Node) ([]byte, error) {
	tree, err := canonicalTree(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCanonicalValue encodes plain data (maps with string keys, []any,
// strings and bools) with the same rules as MarshalCanonical.
func MarshalCanonicalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canonicalTree lowers a Node into plain maps, slices, strings and bools.
func canonicalTree(n Node) (any, error) {
	switch node := n.(type) {
	case nil:
		return nil, fmt.Errorf("nil node")
	case *Literal:
		lit, err := canonicalValue(node.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{"literal": lit, "type": string(node.Type)}, nil
	case *Field:
		return map[string]any{"field": node.Name, "type": string(node.Type)}, nil
	case *Binary:
		left, err := canonicalTree(node.Left)
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		right, err := canonicalTree(node.Right)
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		return map[string]any{
			"op":    node.Operator,
			"left":  left,
			"right": right,
			"type":  string(node.Type),
		}, nil
	case *Call:
		args := make([]any, len(node.Args))
		for i, arg := range node.Args {
			a, err := canonicalTree(arg)
			if err != nil {
				return nil, fmt.Errorf("args[%d]: %w", i, err)
			}
			args[i] = a
		}
		return map[string]any{
			"call": node.Function,
			"args": args,
			"type": string(node.Type),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported node type: %T", n)
	}
}

func canonicalValue(v Value) (any, error) {
	switch val := v.(type) {
	case Text:
		return map[string]any{"text": string(val)}, nil
	case Number:
		return map[string]any{"number": val.String()}, nil
	case Bool:
		return map[string]any{"bool": bool(val)}, nil
	default:
		return nil, fmt.Errorf("unsupported literal value: %T", v)
	}
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		s, err := marshalCanonicalString(val)
		if err != nil {
			return err
		}
		buf.Write(s)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := marshalCanonicalString(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// marshalCanonicalString produces a JSON string with NFC normalization and
// HTML escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// Go's default string comparison uses UTF-8 which produces DIFFERENT order.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
