package ir

import "fmt"

// Validate checks the structural contract the renderer relies on: every
// node is non-nil, carries a valid NodeType, literal payloads agree with
// their declared type, and names are present.
//
// Validate is a pure function with no side effects.
func Validate(n Node) error {
	return validate(n, "$")
}

func validate(n Node, path string) error {
	if n == nil {
		return fmt.Errorf("%s: nil node", path)
	}
	if !n.ValueType().Valid() {
		return fmt.Errorf("%s: invalid node type %q", path, n.ValueType())
	}

	switch node := n.(type) {
	case *Literal:
		if node.Value == nil {
			return fmt.Errorf("%s: literal without value", path)
		}
		vt, err := valueType(node.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if vt != node.Type {
			return fmt.Errorf("%s: %s literal declared as %s", path, vt, node.Type)
		}
	case *Field:
		if node.Name == "" {
			return fmt.Errorf("%s: field without name", path)
		}
	case *Binary:
		if node.Operator == "" {
			return fmt.Errorf("%s: binary node without operator", path)
		}
		if err := validate(node.Left, path+".left"); err != nil {
			return err
		}
		return validate(node.Right, path+".right")
	case *Call:
		if node.Function == "" {
			return fmt.Errorf("%s: call without function name", path)
		}
		for i, arg := range node.Args {
			if err := validate(arg, fmt.Sprintf("%s.args[%d]", path, i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s: unsupported node type: %T", path, n)
	}
	return nil
}
