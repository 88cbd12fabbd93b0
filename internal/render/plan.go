package render

import (
	"fmt"

	"github.com/Bpium/formulex/internal/codegen"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
)

// Plan is a compiled formula. It is immutable and safe for concurrent use.
type Plan struct {
	root *step
}

// step is one resolved node. Leaves carry their rendered text; operator
// and function steps carry the resolved definition and their children.
type step struct {
	js, sql  string
	operator *overload.OperatorDefinition
	function *overload.FunctionDefinition
	children []*step
	types    []ir.NodeType
	typ      ir.NodeType
}

// Type is the formula's result type.
func (p *Plan) Type() ir.NodeType {
	return p.root.typ
}

// Render renders the plan. It panics on a backend other than JS or SQL.
func (p *Plan) Render(b Backend, m Mode) string {
	if b != JS && b != SQL {
		panic(fmt.Sprintf("render: unknown backend %q", b))
	}
	return p.root.render(b, m)
}

// Output renders both backends in both modes.
func (p *Plan) Output() Output {
	return Output{
		Type:    p.Type(),
		JS:      p.Render(JS, Standard),
		SQL:     p.Render(SQL, Standard),
		SafeJS:  p.Render(JS, Safe),
		SafeSQL: p.Render(SQL, Safe),
	}
}

func (s *step) render(b Backend, m Mode) string {
	switch {
	case s.operator != nil:
		in := overload.Input{Args: s.renderChildren(b, m), Types: s.types}
		if b == JS {
			return s.operator.JS(in)
		}
		return s.operator.SQL(in)
	case s.function != nil:
		in := overload.Input{
			Args:                s.renderChildren(b, m),
			Types:               s.types,
			SpecialNullHandling: s.function.SpecialNullHandling,
		}
		return pick(s.function, b, m)(in)
	case b == JS:
		return s.js
	default:
		return s.sql
	}
}

func (s *step) renderChildren(b Backend, m Mode) []string {
	out := make([]string, len(s.children))
	for i, c := range s.children {
		out[i] = c.render(b, m)
	}
	return out
}

// pick selects the safe variant in safe mode when the definition has one.
func pick(d *overload.FunctionDefinition, b Backend, m Mode) overload.RenderFunc {
	if b == JS {
		if m == Safe && d.SafeJS != nil {
			return d.SafeJS
		}
		return d.JS
	}
	if m == Safe && d.SafeSQL != nil {
		return d.SafeSQL
	}
	return d.SQL
}

// Compile resolves every node of n once.
func (r *Renderer) Compile(n ir.Node) (*Plan, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := ir.Validate(n); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	root, err := r.compile(n, "$")
	if err != nil {
		return nil, err
	}
	return &Plan{root: root}, nil
}

func identity(n ir.Node, path string) string {
	if id := n.NodeID(); id != "" {
		return id
	}
	return path
}

func (r *Renderer) compile(n ir.Node, path string) (*step, error) {
	switch node := n.(type) {
	case *ir.Literal:
		return compileLiteral(node)
	case *ir.Field:
		return &step{js: r.fieldJS(node.Name), sql: r.fieldSQL(node.Name), typ: node.Type}, nil
	case *ir.Binary:
		return r.compileBinary(node, path)
	case *ir.Call:
		return r.compileCall(node, path)
	default:
		return nil, fmt.Errorf("unsupported node type: %T", n)
	}
}

func compileLiteral(n *ir.Literal) (*step, error) {
	s := &step{typ: n.Type}
	switch v := n.Value.(type) {
	case ir.Text:
		s.js, s.sql = codegen.JSString(string(v)), codegen.SQLString(string(v))
	case ir.Number:
		s.js = codegen.Number(v.Decimal)
		s.sql = s.js
	case ir.Bool:
		s.js, s.sql = codegen.JSBool(bool(v)), codegen.SQLBool(bool(v))
	default:
		return nil, fmt.Errorf("unsupported literal value: %T", n.Value)
	}
	return s, nil
}

func (r *Renderer) fieldJS(name string) string {
	return r.record + "[" + codegen.JSString(name) + "]"
}

func (r *Renderer) fieldSQL(name string) string {
	if r.table == "" {
		return codegen.SQLIdent(name)
	}
	return codegen.SQLIdent(r.table) + "." + codegen.SQLIdent(name)
}

func (r *Renderer) compileBinary(n *ir.Binary, path string) (*step, error) {
	left, err := r.compile(n.Left, path+".left")
	if err != nil {
		return nil, err
	}
	right, err := r.compile(n.Right, path+".right")
	if err != nil {
		return nil, err
	}

	id := identity(n, path)
	def, err := r.resolver.MatchOperator(n.Operator, left.typ, right.typ)
	if err != nil {
		return nil, tagNode(err, id)
	}
	if def.Returns != n.Type {
		return nil, overload.NewReturnTypeError(n.Operator, n.Type, []ir.NodeType{def.Returns}).WithNode(id)
	}
	r.logger.Debug("resolved operator",
		"name", n.Operator,
		"node", id,
		"overload", def.Signature(n.Operator))

	return &step{
		operator: &def,
		children: []*step{left, right},
		types:    []ir.NodeType{left.typ, right.typ},
		typ:      n.Type,
	}, nil
}

func (r *Renderer) compileCall(n *ir.Call, path string) (*step, error) {
	children := make([]*step, len(n.Args))
	types := make([]ir.NodeType, len(n.Args))
	for i, arg := range n.Args {
		c, err := r.compile(arg, fmt.Sprintf("%s.args[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children[i] = c
		types[i] = c.typ
	}

	id := identity(n, path)
	def, err := r.resolver.MatchFunction(n.Function, types)
	if err != nil {
		return nil, tagNode(err, id)
	}
	if !returns(def, n.Type) {
		return nil, overload.NewReturnTypeError(n.Function, n.Type, def.Returns).WithNode(id)
	}
	r.logger.Debug("resolved function",
		"name", n.Function,
		"node", id,
		"overload", def.Signature(n.Function))

	return &step{
		function: &def,
		children: children,
		types:    types,
		typ:      n.Type,
	}, nil
}

func returns(d overload.FunctionDefinition, t ir.NodeType) bool {
	for _, rt := range d.Returns {
		if rt == t {
			return true
		}
	}
	return false
}

// tagNode attaches the node identity to a resolution error.
func tagNode(err error, id string) error {
	if oe, ok := overload.AsError(err); ok {
		return oe.WithNode(id)
	}
	return fmt.Errorf("node %s: %w", id, err)
}
