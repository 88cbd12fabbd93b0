// Package catalog declares the operator and function tables and resolves
// names against them.
//
// Every entry renders to both backends. Adding an operator or function is a
// data change in this package; nothing else in the repository needs to
// know about it.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/Bpium/formulex/internal/dateformat"
	"github.com/Bpium/formulex/internal/dateunit"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
)

// Catalog is an immutable set of operator and function tables.
type Catalog struct {
	operators   overload.OperatorTable
	functions   overload.FunctionTable
	units       *dateunit.Table
	jsFormats   *dateformat.Table
	sqlFormats  *dateformat.Table
	fingerprint string
}

type config struct {
	units      *dateunit.Table
	jsFormats  *dateformat.Table
	sqlFormats *dateformat.Table
}

// Option configures New.
type Option func(*config)

// WithUnits replaces the date unit table.
func WithUnits(t *dateunit.Table) Option {
	return func(c *config) {
		if t != nil {
			c.units = t
		}
	}
}

// WithFormats replaces the format token tables for the JS and SQL
// backends. A nil table keeps the built-in one.
func WithFormats(js, sql *dateformat.Table) Option {
	return func(c *config) {
		if js != nil {
			c.jsFormats = js
		}
		if sql != nil {
			c.sqlFormats = sql
		}
	}
}

// New builds a catalog and validates every definition in it.
func New(opts ...Option) (*Catalog, error) {
	cfg := config{
		units:      dateunit.Default,
		jsFormats:  dateformat.Luxon,
		sqlFormats: dateformat.Postgres,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Catalog{
		operators:  operators(),
		functions:  overload.FunctionTable{},
		units:      cfg.units,
		jsFormats:  cfg.jsFormats,
		sqlFormats: cfg.sqlFormats,
	}
	d := dates{
		units: dateunit.NewDispatcher(cfg.units),
		js:    cfg.jsFormats,
		sql:   cfg.sqlFormats,
	}
	for _, family := range []overload.FunctionTable{textFunctions(), numberFunctions(), d.functions()} {
		if err := merge(c.functions, family); err != nil {
			return nil, err
		}
	}
	if err := merge(c.functions, safeAliases(c.functions)); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	fp, err := c.computeFingerprint()
	if err != nil {
		return nil, fmt.Errorf("catalog fingerprint: %w", err)
	}
	c.fingerprint = fp
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the built-in tables.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New()
		if err != nil {
			panic(fmt.Sprintf("built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func merge(dst, src overload.FunctionTable) error {
	for name, defs := range src {
		if _, dup := dst[name]; dup {
			return fmt.Errorf("function %s declared twice", name)
		}
		dst[name] = defs
	}
	return nil
}

func (c *Catalog) validate() error {
	for name, defs := range c.operators {
		if len(defs) == 0 {
			return fmt.Errorf("operator %s has no overloads", name)
		}
		for i, d := range defs {
			if err := d.Validate(); err != nil {
				return fmt.Errorf("operator %s overload %d: %w", name, i+1, err)
			}
		}
	}
	for name, defs := range c.functions {
		if len(defs) == 0 {
			return fmt.Errorf("function %s has no overloads", name)
		}
		for i, d := range defs {
			if err := d.Validate(); err != nil {
				return fmt.Errorf("function %s overload %d: %w", name, i+1, err)
			}
		}
	}
	return nil
}

// MatchOperator resolves a binary operator.
func (c *Catalog) MatchOperator(name string, left, right ir.NodeType) (overload.OperatorDefinition, error) {
	return c.operators.MatchOperator(name, left, right)
}

// MatchFunction resolves a function call.
func (c *Catalog) MatchFunction(name string, args []ir.NodeType) (overload.FunctionDefinition, error) {
	return c.functions.MatchFunction(name, args)
}

// Operators returns the overloads of an operator in match order.
func (c *Catalog) Operators(name string) []overload.OperatorDefinition {
	return append([]overload.OperatorDefinition(nil), c.operators[name]...)
}

// Functions returns the overloads of a function in match order.
func (c *Catalog) Functions(name string) []overload.FunctionDefinition {
	return append([]overload.FunctionDefinition(nil), c.functions[name]...)
}

// OperatorNames returns every operator name, sorted.
func (c *Catalog) OperatorNames() []string {
	return sortedKeys(c.operators)
}

// FunctionNames returns every function name, sorted.
func (c *Catalog) FunctionNames() []string {
	return sortedKeys(c.functions)
}

// Units returns the date unit table in use.
func (c *Catalog) Units() *dateunit.Table {
	return c.units
}

// Formats returns the JS and SQL format token tables in use.
func (c *Catalog) Formats() (js, sql *dateformat.Table) {
	return c.jsFormats, c.sqlFormats
}

// Fingerprint identifies the tables. Outputs rendered under one
// fingerprint stay valid until it changes.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// computeFingerprint hashes the renderer version, every signature and the
// unit and format tables. Render functions cannot be hashed, so changing
// one requires bumping ir.RendererVersion.
func (c *Catalog) computeFingerprint() (string, error) {
	ops := map[string]any{}
	for name, defs := range c.operators {
		sigs := make([]any, len(defs))
		for i, d := range defs {
			sigs[i] = d.Signature(name)
		}
		ops[name] = sigs
	}
	fns := map[string]any{}
	for name, defs := range c.functions {
		sigs := make([]any, len(defs))
		for i, d := range defs {
			sig := d.Signature(name)
			if d.HasSafe() {
				sig += " safe"
			}
			if d.SpecialNullHandling {
				sig += " nulls"
			}
			sigs[i] = sig
		}
		fns[name] = sigs
	}
	var units []any
	for _, u := range c.units.Units() {
		units = append(units, []any{
			u.Key, u.JS, u.SQLField, u.SQLInterval,
			strconv.Itoa(u.Months), strconv.Itoa(u.Seconds),
		})
	}
	tokens := func(t *dateformat.Table) []any {
		var out []any
		for _, tok := range t.Tokens() {
			out = append(out, []any{tok.From, tok.To})
		}
		return out
	}

	data, err := ir.MarshalCanonicalValue(map[string]any{
		"renderer":  ir.RendererVersion,
		"operators": ops,
		"functions": fns,
		"units":     units,
		"formats": map[string]any{
			"js":  tokens(c.jsFormats),
			"sql": tokens(c.sqlFormats),
		},
	})
	if err != nil {
		return "", err
	}
	return ir.Digest(ir.DomainCatalog, data), nil
}
