package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bpium/formulex/internal/store"
)

// CacheOptions holds flags shared by the cache sub-commands.
type CacheOptions struct {
	*RootOptions
	Path   string
	Record string
	Table  string
}

// PurgeResult is the cache purge payload.
type PurgeResult struct {
	Fingerprint string `json:"fingerprint"`
	Removed     int64  `json:"removed"`
	Remaining   int    `json:"remaining"`
}

func (r PurgeResult) String() string {
	return fmt.Sprintf("removed %d stale entries, %d remaining", r.Removed, r.Remaining)
}

// CacheEntry is one row of the cache list payload.
type CacheEntry struct {
	ID        string `json:"id"`
	FormulaID string `json:"formula_id"`
	Type      string `json:"type"`
}

// ListResult is the cache list payload.
type ListResult struct {
	Fingerprint string       `json:"fingerprint"`
	Entries     []CacheEntry `json:"entries"`
}

func (r ListResult) String() string {
	if len(r.Entries) == 0 {
		return "cache is empty"
	}
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = fmt.Sprintf("%s  %-8s  %s", e.FormulaID, e.Type, e.ID)
	}
	return strings.Join(lines, "\n")
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the render cache",
	}

	cmd.PersistentFlags().StringVar(&opts.Path, "cache", "formulex.db", "SQLite render cache path")
	cmd.PersistentFlags().StringVar(&opts.Record, "record", "record", "JavaScript record variable used when rendering")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "", "SQL table qualifier used when rendering")

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete entries rendered with other tables or options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCachePurge(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List entries valid for the current tables and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(opts, cmd)
		},
	})

	return cmd
}

func openCache(opts *CacheOptions, f *OutputFormatter) (*store.Store, string, error) {
	cat, err := LoadCatalog(opts.RootOptions)
	if err != nil {
		return nil, "", failLoad(f, err)
	}
	st, err := store.Open(opts.Path)
	if err != nil {
		return nil, "", f.Fail(ExitCommandError, ErrCodeCache, err.Error(), nil)
	}
	return st, cacheFingerprint(cat, opts.Record, opts.Table), nil
}

func runCachePurge(opts *CacheOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	st, fp, err := openCache(opts, f)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmdContext(cmd)
	removed, err := st.Purge(ctx, fp)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCache, err.Error(), nil)
	}
	remaining, err := st.Count(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCache, err.Error(), nil)
	}

	f.Logger().Debug("purged render cache", "path", opts.Path, "removed", removed)
	return f.Success(PurgeResult{Fingerprint: fp, Removed: removed, Remaining: remaining})
}

func runCacheList(opts *CacheOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	st, fp, err := openCache(opts, f)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(cmdContext(cmd), fp)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCache, err.Error(), nil)
	}

	result := ListResult{Fingerprint: fp, Entries: make([]CacheEntry, len(entries))}
	for i, e := range entries {
		result.Entries[i] = CacheEntry{ID: e.ID, FormulaID: e.FormulaID, Type: string(e.Output.Type)}
	}
	return f.Success(result)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
