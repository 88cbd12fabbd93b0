package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Bpium/formulex/internal/ir"
)

// Scenario is a named group of formula cases rendered against one catalog.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is an optional CUE tables file replacing the built-in date
	// unit and format token tables. Relative paths resolve against the
	// scenario file's directory.
	Config string `yaml:"config,omitempty"`

	// Cases are rendered in order.
	Cases []Case `yaml:"cases"`
}

// Case is one formula and its expectations.
type Case struct {
	Name    string     `yaml:"name"`
	Formula ir.Formula `yaml:"formula"`
	Expect  Expect     `yaml:"expect"`
}

// Expect lists what a case's output must satisfy. Empty fields are not
// checked.
type Expect struct {
	Type  string `yaml:"type,omitempty"`
	Error string `yaml:"error,omitempty"`

	JS  string `yaml:"js,omitempty"`
	SQL string `yaml:"sql,omitempty"`

	JSContains      []string `yaml:"js_contains,omitempty"`
	SQLContains     []string `yaml:"sql_contains,omitempty"`
	SafeJSContains  []string `yaml:"safe_js_contains,omitempty"`
	SafeSQLContains []string `yaml:"safe_sql_contains,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.Config != "" && !filepath.IsAbs(s.Config) {
		s.Config = filepath.Join(filepath.Dir(path), s.Config)
	}
	return s, nil
}

// ParseScenario parses scenario YAML. Config paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Formula.Node == nil {
			return fmt.Errorf("cases[%d]: formula is required", i)
		}
		if c.Expect.Type != "" {
			if _, err := ir.ParseNodeType(c.Expect.Type); err != nil {
				return fmt.Errorf("cases[%d].expect: %w", i, err)
			}
		}
		if c.Expect.Error != "" && c.Expect.hasOutputChecks() {
			return fmt.Errorf("cases[%d].expect: error cannot be combined with output expectations", i)
		}
	}

	return nil
}

func (e Expect) hasOutputChecks() bool {
	return e.Type != "" || e.JS != "" || e.SQL != "" ||
		len(e.JSContains) > 0 || len(e.SQLContains) > 0 ||
		len(e.SafeJSContains) > 0 || len(e.SafeSQLContains) > 0
}
