package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bpium/formulex/internal/catalog"
	"github.com/Bpium/formulex/internal/ir"
	"github.com/Bpium/formulex/internal/overload"
	"github.com/Bpium/formulex/internal/tableconf"
)

// Error code constants - unified across all CLI commands. Formula errors
// reuse the overload codes (TYPE_MISMATCH, ARITY_MISMATCH, UNKNOWN_NAME).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Input file could not be read
	ErrCodeDecodeTree  = "E003" // Tree document is malformed
	ErrCodeConfig      = "E004" // Tables config failed to load or validate
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeCache       = "E006" // Render cache failure
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeBadFlag     = "E008" // Invalid flag value
)

// LoadError is a CLI-level failure with an error code.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFormula reads a tree document from path, or from in when path is "-".
func LoadFormula(path string, in io.Reader) (ir.Node, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		code := ErrCodeReadFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return nil, &LoadError{Code: code, Message: fmt.Sprintf("read %s: %v", path, err), Err: err}
	}

	n, err := ir.Decode(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeTree, Message: fmt.Sprintf("%s: %v", path, err), Err: err}
	}
	return n, nil
}

// LoadCatalog returns the built-in catalog, or one built from the tables
// file named by --config.
func LoadCatalog(opts *RootOptions) (*catalog.Catalog, error) {
	if opts.Config == "" {
		return catalog.Default(), nil
	}

	tables, err := tableconf.LoadFile(opts.Config)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: err.Error(), Err: err}
	}
	cat, err := catalog.New(tables.Options()...)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("%s: %v", opts.Config, err), Err: err}
	}
	return cat, nil
}

// failLoad reports a LoadError (or any error) as a command error.
func failLoad(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return f.Fail(ExitCommandError, le.Code, le.Message, nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// failFormula reports a rendering error. Resolution errors carry their
// code and offending node; anything else is a malformed tree.
func failFormula(f *OutputFormatter, err error) error {
	if oe, ok := overload.AsError(err); ok {
		details := map[string]string{"node": oe.Node, "name": oe.Name}
		if len(oe.Expected) > 0 {
			details["expected"] = ir.JoinTypes(oe.Expected)
			details["actual"] = ir.JoinTypes(oe.Actual)
		}
		return f.Fail(ExitFailure, string(oe.Code), err.Error(), details)
	}
	return f.Fail(ExitFailure, ErrCodeDecodeTree, err.Error(), nil)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
