package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Bpium/formulex/internal/catalog"
	"github.com/Bpium/formulex/internal/render"
	"github.com/Bpium/formulex/internal/tableconf"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`

	// Output is set when rendering succeeded.
	Output *render.Output `json:"output,omitempty"`

	// Err is the rendering error text, if any.
	Err string `json:"error,omitempty"`

	// Code is the structured error code when rendering failed with one.
	Code string `json:"code,omitempty"`

	// Failures lists unmet expectations.
	Failures []string `json:"failures,omitempty"`
}

// Result is the outcome of a scenario.
type Result struct {
	Scenario string       `json:"scenario"`
	Pass     bool         `json:"pass"`
	Cases    []CaseResult `json:"cases"`

	// Errors flattens every case failure as "case: message".
	Errors []string `json:"errors,omitempty"`
}

func newResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
		Cases:    []CaseResult{},
		Errors:   []string{},
	}
}

func (r *Result) add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	for _, f := range c.Failures {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", c.Name, f))
	}
	if !c.Pass {
		r.Pass = false
	}
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger  *slog.Logger
	catalog *catalog.Catalog
}

// WithLogger passes a logger to the renderer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithCatalog renders against cat instead of the scenario's configured
// or built-in tables.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *runConfig) {
		c.catalog = cat
	}
}

// Run renders every case of s and evaluates its expectations. The error
// is non-nil only when the scenario itself cannot run (bad config);
// case failures are reported through Result.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cat := cfg.catalog
	if cat == nil {
		var err error
		cat, err = scenarioCatalog(s)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}

	r := render.New(cat, render.WithLogger(cfg.logger))
	result := newResult(s.Name)
	for _, c := range s.Cases {
		result.add(runCase(r, c))
	}

	cfg.logger.Debug("scenario finished",
		"scenario", s.Name,
		"cases", len(result.Cases),
		"pass", result.Pass,
	)
	return result, nil
}

func scenarioCatalog(s *Scenario) (*catalog.Catalog, error) {
	if s.Config == "" {
		return catalog.Default(), nil
	}
	tables, err := tableconf.LoadFile(s.Config)
	if err != nil {
		return nil, err
	}
	return catalog.New(tables.Options()...)
}

func runCase(r *render.Renderer, c Case) CaseResult {
	res := CaseResult{Name: c.Name}

	out, err := r.RenderAll(c.Formula.Node)
	if err == nil {
		res.Output = &out
	} else {
		res.Err = err.Error()
		res.Code = errorCode(err)
	}

	res.Failures = checkExpect(c.Expect, res)
	res.Pass = len(res.Failures) == 0
	return res
}
