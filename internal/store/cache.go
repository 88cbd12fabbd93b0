package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/render"
)

// ErrCache marks failures of the cache itself, as opposed to errors
// rendering the formula.
var ErrCache = errors.New("render cache")

// Entry is one cached rendering.
type Entry struct {
	// ID is a UUIDv7 assigned by Put when empty.
	ID string

	// FormulaID is the content hash of the canonical tree (ir.FormulaID).
	FormulaID string

	// Fingerprint identifies the catalog the output was rendered with.
	Fingerprint string

	// Formula is the canonical JSON encoding of the tree.
	Formula string

	Output render.Output

	// Seq is the insertion counter, set by the store.
	Seq int64
}

// Put stores e. Writing an entry for a (formula, fingerprint) pair that is
// already cached is a no-op: the same catalog renders the same tree to the
// same text.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.FormulaID == "" || e.Fingerprint == "" {
		return fmt.Errorf("write render: formula id and fingerprint are required")
	}
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("write render: %w", err)
		}
		e.ID = id.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renders
		(entry_id, formula_id, fingerprint, result_type, js, sql_text, safe_js, safe_sql, formula, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM renders))
		ON CONFLICT(formula_id, fingerprint) DO NOTHING
	`,
		e.ID,
		e.FormulaID,
		e.Fingerprint,
		string(e.Output.Type),
		e.Output.JS,
		e.Output.SQL,
		e.Output.SafeJS,
		e.Output.SafeSQL,
		e.Formula,
	)
	if err != nil {
		return fmt.Errorf("write render: %w", err)
	}
	return nil
}

// Get returns the entry cached for formulaID under fingerprint. The bool is
// false on a miss.
func (s *Store) Get(ctx context.Context, formulaID, fingerprint string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT entry_id, formula_id, fingerprint, result_type, js, sql_text, safe_js, safe_sql, formula, seq
		FROM renders
		WHERE formula_id = ? AND fingerprint = ?
	`, formulaID, fingerprint)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read render: %w", err)
	}
	return e, true, nil
}

// List returns every entry cached under fingerprint in insertion order.
// An empty fingerprint lists all entries.
func (s *Store) List(ctx context.Context, fingerprint string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, formula_id, fingerprint, result_type, js, sql_text, safe_js, safe_sql, formula, seq
		FROM renders
		WHERE ? = '' OR fingerprint = ?
		ORDER BY seq ASC, entry_id COLLATE BINARY ASC
	`, fingerprint, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renders: %w", err)
	}
	return entries, nil
}

// Purge deletes entries rendered under any fingerprint other than keep and
// returns how many were removed.
func (s *Store) Purge(ctx context.Context, keep string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders WHERE fingerprint <> ?`, keep)
	if err != nil {
		return 0, fmt.Errorf("purge renders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge renders: %w", err)
	}
	return n, nil
}

// Render returns the cached output for n under fingerprint, rendering and
// storing it on a miss. The bool reports a cache hit. Database failures
// wrap ErrCache; rendering errors are returned as the renderer produced
// them.
func (s *Store) Render(ctx context.Context, r *render.Renderer, fingerprint string, n ir.Node) (render.Output, bool, error) {
	canonical, err := ir.MarshalCanonical(n)
	if err != nil {
		return render.Output{}, false, fmt.Errorf("cache key: %w", err)
	}
	formulaID := ir.Digest(ir.DomainFormula, canonical)

	e, ok, err := s.Get(ctx, formulaID, fingerprint)
	if err != nil {
		return render.Output{}, false, fmt.Errorf("%w: %w", ErrCache, err)
	}
	if ok {
		return e.Output, true, nil
	}

	out, err := r.RenderAll(n)
	if err != nil {
		return render.Output{}, false, err
	}
	err = s.Put(ctx, Entry{
		FormulaID:   formulaID,
		Fingerprint: fingerprint,
		Formula:     string(canonical),
		Output:      out,
	})
	if err != nil {
		return render.Output{}, false, fmt.Errorf("%w: %w", ErrCache, err)
	}
	return out, false, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var typ string
	err := row.Scan(
		&e.ID,
		&e.FormulaID,
		&e.Fingerprint,
		&typ,
		&e.Output.JS,
		&e.Output.SQL,
		&e.Output.SafeJS,
		&e.Output.SafeSQL,
		&e.Formula,
		&e.Seq,
	)
	if err != nil {
		return Entry{}, err
	}
	e.Output.Type = ir.NodeType(typ)
	return e, nil
}
