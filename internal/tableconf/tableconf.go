// Package tableconf loads replaceable date unit and format token tables
// from CUE.
//
// A table document looks like:
//
//	units: [
//		{key: "YEAR", js: "years", sql_field: "year", sql_interval: "1 year", months: 12},
//		{key: "DAY", js: "days", sql_field: "day", sql_interval: "1 day", seconds: 86400},
//	]
//	formats: {
//		js: [{from: "YYYY", to: "yyyy"}]
//		sql: [{from: "%Y", to: "YYYY"}]
//	}
//
// Every section is optional; an absent section keeps the built-in table.
// List order is preserved because it is significant: units dispatch in
// declaration order, and format tokens of equal length translate in
// declaration order.
package tableconf

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/Bpium/formulex/internal/catalog"
	"github.com/Bpium/formulex/internal/dateformat"
	"github.com/Bpium/formulex/internal/dateunit"
)

//go:embed schema.cue
var schemaSource string

// Tables holds the tables a document declares. Nil fields were absent.
type Tables struct {
	Units      *dateunit.Table
	JSFormats  *dateformat.Table
	SQLFormats *dateformat.Table
}

// Options returns catalog options applying the declared tables.
func (t *Tables) Options() []catalog.Option {
	return []catalog.Option{
		catalog.WithUnits(t.Units),
		catalog.WithFormats(t.JSFormats, t.SQLFormats),
	}
}

// CompileError is a table document error with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile reads and compiles a CUE table document.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return Compile(v)
}

// Compile validates v against the table schema and builds the tables.
func Compile(v cue.Value) (*Tables, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("table schema: %w", err)
	}
	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	// Presence is checked on the document; the schema declares every
	// section as optional.
	section := func(path string) (cue.Value, bool) {
		p := cue.ParsePath(path)
		if !v.LookupPath(p).Exists() {
			return cue.Value{}, false
		}
		return unified.LookupPath(p), true
	}

	tables := &Tables{}
	var err error

	if units, ok := section("units"); ok {
		tables.Units, err = compileUnits(units)
		if err != nil {
			return nil, err
		}
	}
	if js, ok := section("formats.js"); ok {
		tables.JSFormats, err = compileTokens(js, "formats.js")
		if err != nil {
			return nil, err
		}
	}
	if sql, ok := section("formats.sql"); ok {
		tables.SQLFormats, err = compileTokens(sql, "formats.sql")
		if err != nil {
			return nil, err
		}
	}
	return tables, nil
}

type rawUnit struct {
	Key         string `json:"key"`
	JS          string `json:"js"`
	SQLField    string `json:"sql_field"`
	SQLInterval string `json:"sql_interval"`
	Months      int    `json:"months"`
	Seconds     int    `json:"seconds"`
}

func compileUnits(v cue.Value) (*dateunit.Table, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var units []dateunit.Unit
	for i := 0; iter.Next(); i++ {
		item := iter.Value()
		var raw rawUnit
		if err := item.Decode(&raw); err != nil {
			return nil, formatCUEError(err)
		}
		u := dateunit.Unit{
			Key:         raw.Key,
			JS:          raw.JS,
			SQLField:    raw.SQLField,
			SQLInterval: raw.SQLInterval,
			Months:      raw.Months,
			Seconds:     raw.Seconds,
		}
		if err := u.Validate(); err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("units[%d]", i),
				Message: err.Error(),
				Pos:     item.Pos(),
			}
		}
		units = append(units, u)
	}

	table, err := dateunit.NewTable(units)
	if err != nil {
		return nil, &CompileError{Field: "units", Message: err.Error(), Pos: v.Pos()}
	}
	return table, nil
}

func compileTokens(v cue.Value, field string) (*dateformat.Table, error) {
	var raw []struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := v.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}
	tokens := make([]dateformat.Token, len(raw))
	for i, r := range raw {
		tokens[i] = dateformat.Token{From: r.From, To: r.To}
	}
	table, err := dateformat.NewTable(tokens)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return table, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
