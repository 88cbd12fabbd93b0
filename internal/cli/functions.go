package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// Signature is one catalog entry as listed by the functions command.
type Signature struct {
	Kind      string `json:"kind"` // "operator" | "function"
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Safe      bool   `json:"safe,omitempty"`
	Nulls     bool   `json:"special_null_handling,omitempty"`
}

// FunctionsResult is the functions command's payload.
type FunctionsResult struct {
	Fingerprint string      `json:"fingerprint"`
	Entries     []Signature `json:"entries"`
}

func (r FunctionsResult) String() string {
	var b strings.Builder
	for i, e := range r.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Signature)
		if e.Safe {
			b.WriteString("  [safe]")
		}
	}
	return b.String()
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List operator and function signatures",
		Long: `List every operator and function overload in match order. Entries
marked [safe] also have a SAFE<NAME> alias.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunctions(rootOpts, strings.ToUpper(prefix), cmd)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "only list names starting with this prefix")

	return cmd
}

func runFunctions(opts *RootOptions, prefix string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	cat, err := LoadCatalog(opts)
	if err != nil {
		return failLoad(f, err)
	}

	result := FunctionsResult{Fingerprint: cat.Fingerprint(), Entries: []Signature{}}
	for _, name := range cat.OperatorNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		for _, d := range cat.Operators(name) {
			result.Entries = append(result.Entries, Signature{
				Kind:      "operator",
				Name:      name,
				Signature: d.Signature(name),
			})
		}
	}
	for _, name := range cat.FunctionNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		for _, d := range cat.Functions(name) {
			result.Entries = append(result.Entries, Signature{
				Kind:      "function",
				Name:      name,
				Signature: d.Signature(name),
				Safe:      d.HasSafe(),
				Nulls:     d.SpecialNullHandling,
			})
		}
	}

	return f.Success(result)
}
