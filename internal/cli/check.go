package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/render"
)

// CheckResult is the check command's payload.
type CheckResult struct {
	Valid     bool        `json:"valid"`
	Type      ir.NodeType `json:"type"`
	FormulaID string      `json:"formula_id"`
}

func (r CheckResult) String() string {
	return fmt.Sprintf("ok: %s (%s)", r.Type, r.FormulaID)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <tree-file>",
		Short: "Type-check a formula tree without printing output",
		Long: `Resolve every operator and function in a formula tree and report its
result type. Faster feedback than render when only validity matters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	node, err := LoadFormula(path, cmd.InOrStdin())
	if err != nil {
		return failLoad(f, err)
	}
	cat, err := LoadCatalog(opts)
	if err != nil {
		return failLoad(f, err)
	}

	plan, err := render.New(cat, render.WithLogger(f.Logger())).Compile(node)
	if err != nil {
		return failFormula(f, err)
	}

	id, err := ir.FormulaID(node)
	if err != nil {
		return failFormula(f, err)
	}

	f.VerboseLog("catalog fingerprint %s", cat.Fingerprint())
	return f.Success(CheckResult{Valid: true, Type: plan.Type(), FormulaID: id})
}
