package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bpium/formulex/internal/catalog"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/render"
	"github.com/Bpium/formulex/internal/store"
)

// BackendAll selects every backend and mode.
const BackendAll = "all"

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Backend string // js | sql | all
	Safe    bool
	Cache   string // SQLite cache path; empty disables caching
	Record  string
	Table   string
}

// RenderResult is the render command's payload.
type RenderResult struct {
	Type    ir.NodeType `json:"type"`
	JS      string      `json:"js,omitempty"`
	SQL     string      `json:"sql,omitempty"`
	SafeJS  string      `json:"safe_js,omitempty"`
	SafeSQL string      `json:"safe_sql,omitempty"`
	Cached  bool        `json:"cached"`

	// single is the one expression printed in text mode, when only one
	// backend was requested.
	single string
}

func (r RenderResult) String() string {
	if r.single != "" {
		return r.single
	}
	return fmt.Sprintf("type: %s\njs: %s\nsql: %s\nsafe_js: %s\nsafe_sql: %s",
		r.Type, r.JS, r.SQL, r.SafeJS, r.SafeSQL)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <tree-file>",
		Short: "Render a formula tree to JavaScript and SQL",
		Long: `Render a typed formula tree (YAML or JSON, "-" for stdin).

With --backend js or sql only that expression is printed; --safe selects
the variant that evaluates to null instead of raising. --backend all prints
every rendering.

Exit codes:
  0 - Rendered
  1 - Formula rejected (TYPE_MISMATCH, ARITY_MISMATCH, UNKNOWN_NAME)
  2 - Command error (unreadable file, bad config, cache failure)

Examples:
  formulex render due.yaml --backend sql
  formulex render due.yaml --backend js --safe
  formulex render due.yaml --cache renders.db --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Backend, "backend", "b", BackendAll, "output backend (js|sql|all)")
	cmd.Flags().BoolVar(&opts.Safe, "safe", false, "render the null-returning safe variant")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite render cache path")
	cmd.Flags().StringVar(&opts.Record, "record", "record", "JavaScript variable fields are read from")
	cmd.Flags().StringVar(&opts.Table, "table", "", "SQL table or alias qualifying field references")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	logger := f.Logger()

	var backend render.Backend
	if opts.Backend != BackendAll {
		b, err := render.ParseBackend(opts.Backend)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeBadFlag, err.Error(), nil)
		}
		backend = b
	}
	if err := render.ValidateRecord(opts.Record); err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, err.Error(), nil)
	}

	node, err := LoadFormula(path, cmd.InOrStdin())
	if err != nil {
		return failLoad(f, err)
	}
	cat, err := LoadCatalog(opts.RootOptions)
	if err != nil {
		return failLoad(f, err)
	}

	r := render.New(cat,
		render.WithLogger(logger),
		render.WithRecord(opts.Record),
		render.WithTable(opts.Table),
	)

	var out render.Output
	cached := false
	if opts.Cache != "" {
		out, cached, err = renderCached(cmdContext(cmd), opts, cat, r, node)
	} else {
		out, err = r.RenderAll(node)
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return failLoad(f, err)
		}
		return failFormula(f, err)
	}
	logger.Debug("rendered formula", "type", out.Type, "cached", cached)

	return f.Success(selectOutput(out, backend, opts.Safe, cached))
}

// renderCached renders through the SQLite cache. Failures to open, read or
// write the cache come back as *LoadError so they are reported as command
// errors.
func renderCached(ctx context.Context, opts *RenderOptions, cat *catalog.Catalog, r *render.Renderer, node ir.Node) (render.Output, bool, error) {
	st, err := store.Open(opts.Cache)
	if err != nil {
		return render.Output{}, false, &LoadError{Code: ErrCodeCache, Message: err.Error(), Err: err}
	}
	defer st.Close()

	out, hit, err := st.Render(ctx, r, cacheFingerprint(cat, opts.Record, opts.Table), node)
	if errors.Is(err, store.ErrCache) {
		return render.Output{}, false, &LoadError{Code: ErrCodeCache, Message: err.Error(), Err: err}
	}
	return out, hit, err
}

// cacheFingerprint extends the catalog fingerprint with the renderer
// options that change the generated text.
func cacheFingerprint(cat *catalog.Catalog, record, table string) string {
	key := strings.Join([]string{cat.Fingerprint(), record, table}, "\x00")
	return ir.Digest(ir.DomainCatalog, []byte(key))
}

func selectOutput(out render.Output, b render.Backend, safe, cached bool) RenderResult {
	res := RenderResult{Type: out.Type, Cached: cached}
	switch {
	case b == render.JS && safe:
		res.SafeJS, res.single = out.SafeJS, out.SafeJS
	case b == render.JS:
		res.JS, res.single = out.JS, out.JS
	case b == render.SQL && safe:
		res.SafeSQL, res.single = out.SafeSQL, out.SafeSQL
	case b == render.SQL:
		res.SQL, res.single = out.SQL, out.SQL
	default:
		res.JS, res.SQL, res.SafeJS, res.SafeSQL = out.JS, out.SQL, out.SafeJS, out.SafeSQL
	}
	return res
}
