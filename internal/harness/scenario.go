package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stylusport/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is inline Rust source. Exactly one of Source and SourceFile
	// must be set.
	Source string `yaml:"source,omitempty"`

	// SourceFile is a path to a Rust file, relative to the scenario file.
	SourceFile string `yaml:"source_file,omitempty"`

	// Expect lists the facts the normalized program must show.
	Expect Expectations `yaml:"expect"`

	// dir is the directory of the scenario file; SourceFile resolves
	// against it.
	dir string
}

// Expectations are checked against the normalized program. A nil list or
// map is not checked; an empty one must match an empty result.
type Expectations struct {
	// Error, when set, means the pipeline must fail with an error whose
	// message contains this text. No other expectation is checked.
	Error string `yaml:"error,omitempty"`

	// Name is the expected program name.
	Name string `yaml:"name,omitempty"`

	// Modules, AccountStructs, and RawAccounts are exact name lists in
	// declaration order.
	Modules        []string `yaml:"modules,omitempty"`
	AccountStructs []string `yaml:"account_structs,omitempty"`
	RawAccounts    []string `yaml:"raw_accounts,omitempty"`

	// Issues must each match at least one recorded issue.
	Issues []IssueExpectation `yaml:"issues,omitempty"`

	// NoIssuesContaining lists substrings no issue message may contain.
	NoIssuesContaining []string `yaml:"no_issues_containing,omitempty"`

	// Operations maps an instruction name to its exact inferred operations.
	// An empty list expects an unknown body.
	Operations map[string][]OperationExpectation `yaml:"operations,omitempty"`

	// Constraints maps "Struct.field" to the field's exact constraint list.
	Constraints map[string][]ConstraintExpectation `yaml:"constraints,omitempty"`
}

// IssueExpectation matches an issue by severity and message substring.
type IssueExpectation struct {
	Severity string `yaml:"severity"`
	Contains string `yaml:"contains"`
	Element  string `yaml:"element,omitempty"`
}

// OperationExpectation describes one inferred operation.
type OperationExpectation struct {
	Kind     string `yaml:"kind"`
	Message  string `yaml:"message,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Payer    string `yaml:"payer,omitempty"`
	From     string `yaml:"from,omitempty"`
	To       string `yaml:"to,omitempty"`
	RefundTo string `yaml:"refund_to,omitempty"`
}

// ConstraintExpectation describes one field constraint. Value is only
// compared when set.
type ConstraintExpectation struct {
	Type     string  `yaml:"type"`
	Value    *string `yaml:"value,omitempty"`
	Inferred bool    `yaml:"inferred,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)

	if scenario.SourceFile != "" {
		if _, err := os.Stat(scenario.sourcePath()); err != nil {
			return nil, fmt.Errorf("%s: invalid scenario: source file: %w", path, err)
		}
	}
	return scenario, nil
}

// ParseScenario decodes and validates a scenario from YAML. A relative
// source_file resolves against the working directory.
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

// LoadScenarios loads every .yaml and .yml file directly under dir, sorted
// by file name. Fails on the first invalid scenario or a duplicate name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, path)
		}
		seen[s.Name] = path
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// sourcePath is the path the source is read from.
func (s *Scenario) sourcePath() string {
	if filepath.IsAbs(s.SourceFile) || s.dir == "" {
		return s.SourceFile
	}
	return filepath.Join(s.dir, s.SourceFile)
}

// displayPath is the path recorded on the program. It does not depend on
// where the scenario was loaded from, so golden output is stable.
func (s *Scenario) displayPath() string {
	if s.SourceFile != "" {
		return filepath.ToSlash(s.SourceFile)
	}
	return s.Name + ".rs"
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", s.Name)
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Source == "" && s.SourceFile == "":
		return fmt.Errorf("one of source or source_file is required")
	case s.Source != "" && s.SourceFile != "":
		return fmt.Errorf("source and source_file are mutually exclusive")
	}

	e := &s.Expect
	for i, issue := range e.Issues {
		if _, err := ir.ParseSeverity(issue.Severity); err != nil {
			return fmt.Errorf("expect.issues[%d]: %w", i, err)
		}
		if issue.Contains == "" {
			return fmt.Errorf("expect.issues[%d]: contains is required", i)
		}
	}
	for name, ops := range e.Operations {
		for i, op := range ops {
			if err := validateOperation(op); err != nil {
				return fmt.Errorf("expect.operations[%s][%d]: %w", name, i, err)
			}
		}
	}
	for key, cs := range e.Constraints {
		if strings.Count(key, ".") != 1 || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
			return fmt.Errorf("expect.constraints: key %q must be Struct.field", key)
		}
		for i, c := range cs {
			if c.Type == "" {
				return fmt.Errorf("expect.constraints[%s][%d]: type is required", key, i)
			}
		}
	}
	return nil
}

func validateOperation(op OperationExpectation) error {
	switch ir.OperationKind(op.Kind) {
	case ir.OpLog, ir.OpInitialize, ir.OpTransfer, ir.OpClose:
		return nil
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}
