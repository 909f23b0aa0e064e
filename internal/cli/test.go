package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stylusport/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // defaults to <scenarios-dir>/golden
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name" yaml:"name"`
	Pass   bool     `json:"pass" yaml:"pass"`
	Golden string   `json:"golden,omitempty" yaml:"golden,omitempty"` // "match", "updated", "missing"
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios" yaml:"scenarios"`
	Passed    int              `json:"passed" yaml:"passed"`
	Failed    int              `json:"failed" yaml:"failed"`
	Total     int              `json:"total" yaml:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run normalization scenarios using the harness framework.

Each scenario normalizes one source and checks its expectations. When a
golden file exists for the scenario, the canonical JSON of the normalized
program must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  stylusport test ./scenarios
  stylusport test ./scenarios --filter "token*"
  stylusport test ./scenarios --update
  stylusport test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden file directory (default <scenarios-dir>/golden)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if info, err := os.Stat(scenariosDir); err != nil || !info.IsDir() {
		return loadFailure(formatter, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scenarios directory not found: %s", scenariosDir)})
	}
	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(scenariosDir, "golden")
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return loadFailure(formatter, &LoadError{Code: ErrCodeScanError, Message: err.Error()})
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}
	for _, file := range scenarioFiles {
		sr := runScenario(file, goldenDir, opts)
		if formatter.IsText() {
			writeScenarioText(formatter.Writer, sr)
		}
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	var cerr *CLIError
	if result.Failed > 0 {
		cerr = &CLIError{Code: ErrCodeTestFailure, Message: fmt.Sprintf("%d scenario(s) failed", result.Failed)}
	}

	if formatter.IsText() {
		writeTestSummary(formatter.Writer, result)
	} else if err := formatter.Report(result, cerr); err != nil {
		return err
	}

	if cerr != nil {
		return NewExitError(ExitFailure, cerr.Message)
	}
	return nil
}

// findScenarioFiles finds the YAML scenario files directly in dir. Golden
// and source files live in subdirectories and are not scenarios.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(e.Name(), ext))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// runScenario loads, runs, and golden-checks one scenario file.
func runScenario(file, goldenDir string, opts *TestOptions) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	sr := ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}
	if result.Program == nil {
		return sr
	}

	goldenPath := harness.GoldenPath(goldenDir, scenario.Name)
	if !opts.Update && !fileExists(goldenPath) {
		sr.Golden = "missing"
		return sr
	}

	snapshot, err := harness.Snapshot(result)
	if err == nil {
		err = harness.CompareGolden(goldenPath, snapshot, opts.Update)
	}
	switch {
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, err.Error())
	case opts.Update:
		sr.Golden = "updated"
	default:
		sr.Golden = "match"
	}
	return sr
}

func writeScenarioText(w io.Writer, sr ScenarioResult) {
	mark := "✓"
	if !sr.Pass {
		mark = "✗"
	}
	suffix := ""
	if sr.Golden == "updated" {
		suffix = " (golden updated)"
	}
	fmt.Fprintf(w, "%s %s%s\n", mark, sr.Name, suffix)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func writeTestSummary(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
