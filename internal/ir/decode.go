package ir

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// rawNode is the on-disk form of a tree node. Exactly one of Literal,
// Field, Op or Call must be set. yaml.v3 fills yaml.Node values in place;
// a zero Kind means the key was absent.
//
//	{literal: "2024-01-01 00:00:00+00", type: LITERAL}
//	{field: unit, type: LITERAL}
//	{op: PLUS, left: {...}, right: {...}, type: NUMBER}
//	{call: DATEADD, args: [{...}, {...}], type: LITERAL}
type rawNode struct {
	ID      string      `yaml:"id,omitempty"`
	Type    string      `yaml:"type"`
	Literal yaml.Node   `yaml:"literal,omitempty"`
	Field   string      `yaml:"field,omitempty"`
	Op      string      `yaml:"op,omitempty"`
	Left    yaml.Node   `yaml:"left,omitempty"`
	Right   yaml.Node   `yaml:"right,omitempty"`
	Call    string      `yaml:"call,omitempty"`
	Args    []yaml.Node `yaml:"args,omitempty"`
}

// Decode parses a YAML (or JSON) document into a typed tree.
func Decode(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return DecodeYAML(doc.Content[0])
	}
	return DecodeYAML(&doc)
}

// DecodeYAML converts an already parsed YAML node into a typed tree.
func DecodeYAML(n *yaml.Node) (Node, error) {
	return decodeNode(n, "$")
}

// Formula wraps a Node so it can be embedded in YAML documents
// (scenarios, fixtures) and decoded in place.
type Formula struct {
	Node
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Formula) UnmarshalYAML(value *yaml.Node) error {
	n, err := DecodeYAML(value)
	if err != nil {
		return err
	}
	f.Node = n
	return nil
}

func decodeNode(n *yaml.Node, path string) (Node, error) {
	if n == nil || n.Kind == 0 {
		return nil, fmt.Errorf("%s: missing node", path)
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: line %d: expected a mapping, got %s", path, n.Line, kindName(n.Kind))
	}

	var raw rawNode
	if err := n.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t, err := ParseNodeType(raw.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: line %d: %w", path, n.Line, err)
	}

	set := 0
	for _, present := range []bool{raw.Literal.Kind != 0, raw.Field != "", raw.Op != "", raw.Call != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: line %d: node must have exactly one of literal, field, op, call", path, n.Line)
	}

	switch {
	case raw.Literal.Kind != 0:
		v, err := decodeLiteral(&raw.Literal, t)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, raw.Literal.Line, err)
		}
		return &Literal{ID: raw.ID, Type: t, Value: v}, nil

	case raw.Field != "":
		return &Field{ID: raw.ID, Name: raw.Field, Type: t}, nil

	case raw.Op != "":
		left, err := decodeNode(&raw.Left, path+".left")
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(&raw.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return &Binary{ID: raw.ID, Operator: raw.Op, Left: left, Right: right, Type: t}, nil

	default:
		args := make([]Node, len(raw.Args))
		for i := range raw.Args {
			arg, err := decodeNode(&raw.Args[i], fmt.Sprintf("%s.args[%d]", path, i))
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &Call{ID: raw.ID, Function: raw.Call, Args: args, Type: t}, nil
	}
}

// decodeLiteral reads the raw scalar text so numbers never pass through
// float64.
func decodeLiteral(n *yaml.Node, t NodeType) (Value, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("literal must be a scalar, got %s", kindName(n.Kind))
	}

	switch t {
	case TypeLiteral:
		return NewText(n.Value), nil
	case TypeNumber:
		return ParseNumber(n.Value)
	case TypeBoolean:
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", n.Value)
		}
		return Bool(b), nil
	default:
		return nil, fmt.Errorf("unsupported literal type %s", t)
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "nothing"
	}
}
