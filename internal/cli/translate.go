package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bpium/formulex/internal/render"
)

// TranslateResult is the translate command's payload.
type TranslateResult struct {
	Format string `json:"format"`
	JS     string `json:"js,omitempty"`
	SQL    string `json:"sql,omitempty"`

	single bool
}

func (r TranslateResult) String() string {
	switch {
	case r.single && r.JS != "":
		return r.JS
	case r.single:
		return r.SQL
	}
	return fmt.Sprintf("js: %s\nsql: %s", r.JS, r.SQL)
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "translate <format>",
		Short: "Translate a user date format to the luxon and PostgreSQL dialects",
		Long: `Translate a strftime-style date format with the configured format token
tables. Each source position is rewritten at most once.

Examples:
  formulex translate "%Y-%m-%d"
  formulex translate "%d.%m.%Y %H:%M" --backend sql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(rootOpts, backend, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&backend, "backend", "b", BackendAll, "output backend (js|sql|all)")

	return cmd
}

func runTranslate(opts *RootOptions, backend, format string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	cat, err := LoadCatalog(opts)
	if err != nil {
		return failLoad(f, err)
	}
	jsTable, sqlTable := cat.Formats()

	result := TranslateResult{Format: format}
	if backend == BackendAll {
		result.JS = jsTable.Translate(format)
		result.SQL = sqlTable.Translate(format)
		return f.Success(result)
	}

	b, err := render.ParseBackend(backend)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, err.Error(), nil)
	}
	result.single = true
	if b == render.JS {
		result.JS = jsTable.Translate(format)
	} else {
		result.SQL = sqlTable.Translate(format)
	}
	return f.Success(result)
}
