package harness

import "github.com/roach88/stylusport/internal/ir"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario" yaml:"scenario"`

	// Pass indicates overall test success.
	Pass bool `json:"pass" yaml:"pass"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Program is the normalized program. Nil when the pipeline failed.
	Program *ir.NormalizedProgram `json:"-" yaml:"-"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, sprintf(format, args...))
	r.Pass = false
}
