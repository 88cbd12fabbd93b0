package ir

// Node is a typed expression tree node.
//
// This is a sealed interface - only types in this package implement it.
// Node types:
//   - Literal: a constant value
//   - Field: a reference to a named input (record field or column)
//   - Binary: an operator applied to two operands
//   - Call: a function applied to an ordered argument list
//
// Every node carries its resolved NodeType. The renderer relies on that
// contract and never infers types itself.
type Node interface {
	// ValueType returns the node's resolved NodeType.
	ValueType() NodeType

	// NodeID returns the caller-assigned identity, or "" when unset.
	NodeID() string

	node() // Marker method - seals interface to this package
}

// Literal is a constant value.
type Literal struct {
	ID    string
	Type  NodeType
	Value Value
}

func (n *Literal) ValueType() NodeType { return n.Type }
func (n *Literal) NodeID() string      { return n.ID }
func (*Literal) node()                 {}

// Field references a named input. JS output reads it from the record
// object; SQL output reads the column of the same name.
type Field struct {
	ID   string
	Name string
	Type NodeType
}

func (n *Field) ValueType() NodeType { return n.Type }
func (n *Field) NodeID() string      { return n.ID }
func (*Field) node()                 {}

// Binary applies a named operator (e.g. "PLUS", "EQUAL") to two operands.
type Binary struct {
	ID       string
	Operator string
	Left     Node
	Right    Node
	Type     NodeType
}

func (n *Binary) ValueType() NodeType { return n.Type }
func (n *Binary) NodeID() string      { return n.ID }
func (*Binary) node()                 {}

// Call applies a named function to its arguments in order.
type Call struct {
	ID       string
	Function string
	Args     []Node
	Type     NodeType
}

func (n *Call) ValueType() NodeType { return n.Type }
func (n *Call) NodeID() string      { return n.ID }
func (*Call) node()                 {}

// TextLit creates a LITERAL-typed text literal node.
func TextLit(s string) *Literal {
	return &Literal{Type: TypeLiteral, Value: NewText(s)}
}

// NumberLit creates a NUMBER-typed literal node. It panics on malformed
// input and is meant for statically known values.
func NumberLit(s string) *Literal {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return &Literal{Type: TypeNumber, Value: n}
}

// BoolLit creates a BOOLEAN-typed literal node.
func BoolLit(b bool) *Literal {
	return &Literal{Type: TypeBoolean, Value: Bool(b)}
}

// Ref creates a Field node.
func Ref(name string, t NodeType) *Field {
	return &Field{Name: name, Type: t}
}

// Op creates a Binary node.
func Op(operator string, left, right Node, t NodeType) *Binary {
	return &Binary{Operator: operator, Left: left, Right: right, Type: t}
}

// Fn creates a Call node.
func Fn(function string, t NodeType, args ...Node) *Call {
	return &Call{Function: function, Args: args, Type: t}
}
