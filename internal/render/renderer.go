package render

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
)

// Backend selects the output dialect.
type Backend string

const (
	JS  Backend = "js"
	SQL Backend = "sql"
)

// ParseBackend parses "js" or "sql", case-insensitively.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case JS, SQL:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want js or sql)", s)
	}
}

// Mode selects standard or safe renders.
type Mode int

const (
	// Standard renders raise at execution time on dynamic failures.
	Standard Mode = iota

	// Safe renders evaluate to null instead, where a definition has a
	// safe variant.
	Safe
)

func (m Mode) String() string {
	if m == Safe {
		return "safe"
	}
	return "standard"
}

// Resolver resolves operator and function names. *catalog.Catalog
// implements it.
type Resolver interface {
	MatchOperator(name string, left, right ir.NodeType) (overload.OperatorDefinition, error)
	MatchFunction(name string, args []ir.NodeType) (overload.FunctionDefinition, error)
}

// Renderer compiles trees against a Resolver.
type Renderer struct {
	resolver Resolver
	logger   *slog.Logger
	record   string
	table    string
	err      error
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// reservedRecords are JavaScript keywords and the globals generated code
// calls; a record variable with one of these names would break it.
var reservedRecords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "let": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "undefined": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true, "await": true,

	"DateTime": true, "Error": true, "Math": true, "Number": true,
	"RegExp": true, "String": true,
}

// ValidateRecord reports whether name can be used as the JavaScript record
// variable.
func ValidateRecord(name string) error {
	if !jsIdentifier.MatchString(name) {
		return fmt.Errorf("invalid record variable %q: must be a JavaScript identifier", name)
	}
	if reservedRecords[name] {
		return fmt.Errorf("invalid record variable %q: reserved name", name)
	}
	return nil
}

// WithRecord sets the JavaScript variable fields are read from.
// Defaults to "record". An invalid name makes Compile fail.
func WithRecord(name string) Option {
	return func(r *Renderer) {
		if name == "" {
			return
		}
		if err := ValidateRecord(name); err != nil {
			r.err = err
			return
		}
		r.record = name
	}
}

// WithTable qualifies SQL field references with a table or alias.
func WithTable(name string) Option {
	return func(r *Renderer) {
		r.table = name
	}
}

// New creates a Renderer.
func New(resolver Resolver, opts ...Option) *Renderer {
	r := &Renderer{
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		record:   "record",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render compiles n and renders one backend and mode.
func (r *Renderer) Render(n ir.Node, b Backend, m Mode) (string, error) {
	backend, err := ParseBackend(string(b))
	if err != nil {
		return "", err
	}
	plan, err := r.Compile(n)
	if err != nil {
		return "", err
	}
	return plan.Render(backend, m), nil
}

// Output holds every rendering of one formula.
type Output struct {
	Type    ir.NodeType `json:"type" yaml:"type"`
	JS      string      `json:"js" yaml:"js"`
	SQL     string      `json:"sql" yaml:"sql"`
	SafeJS  string      `json:"safe_js" yaml:"safe_js"`
	SafeSQL string      `json:"safe_sql" yaml:"safe_sql"`
}

// RenderAll compiles n and renders both backends in both modes.
func (r *Renderer) RenderAll(n ir.Node) (Output, error) {
	plan, err := r.Compile(n)
	if err != nil {
		return Output{}, err
	}
	return plan.Output(), nil
}
