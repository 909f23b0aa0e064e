package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stylusport/internal/ir"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	FailOn string // minimum severity that fails the run
	Jobs   int
}

// FileIssues is one file's entry in validate output.
type FileIssues struct {
	Path    string               `json:"path" yaml:"path"`
	Program string               `json:"program,omitempty" yaml:"program,omitempty"`
	Issues  []ir.ValidationIssue `json:"issues" yaml:"issues"`
	Counts  ir.IssueCounts       `json:"counts" yaml:"counts"`
	Failed  bool                 `json:"failed" yaml:"failed"`
	Error   *CLIError            `json:"error,omitempty" yaml:"error,omitempty"`
}

// ValidationResult is the validate command's report.
type ValidationResult struct {
	FailOn string         `json:"fail_on" yaml:"fail_on"`
	Files  []FileIssues   `json:"files" yaml:"files"`
	Totals ir.IssueCounts `json:"totals" yaml:"totals"`
	Failed int            `json:"failed" yaml:"failed"` // files at or above fail_on
	Errors int            `json:"errors" yaml:"errors"` // files that did not normalize
}

// Valid reports whether no file failed or errored.
func (r ValidationResult) Valid() bool {
	return r.Failed == 0 && r.Errors == 0
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Report validation issues",
		Long: `Normalize one Rust file or every .rs file under a directory and print
only the validation issues.

Exit codes:
  0 - No issue at or above --fail-on
  1 - One or more issues at or above --fail-on
  2 - Command error (invalid path, syntax error, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd)
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "error", "minimum severity that fails (info|warning|error)")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "parallel workers (default GOMAXPROCS)")

	return cmd
}

func (o *ValidateOptions) applyConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("fail-on") && o.Config.FailOn != "" {
		o.FailOn = o.Config.FailOn
	}
	if !cmd.Flags().Changed("jobs") && o.Config.Jobs > 0 {
		o.Jobs = o.Config.Jobs
	}
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	threshold, err := ir.ParseSeverity(opts.FailOn)
	if err != nil {
		return loadFailure(formatter, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("--fail-on: %v", err)})
	}

	files, err := FindSourceFiles(path)
	if err != nil {
		return loadFailure(formatter, err)
	}

	results, err := processFiles(cmdContext(cmd), files, pipelineOptions{Jobs: opts.Jobs, Logger: opts.logger()})
	if err != nil {
		return WrapExitError(ExitCommandError, "validate cancelled", err)
	}

	report := buildValidation(results, threshold)
	return outputValidation(formatter, report)
}

// buildValidation summarizes results against the threshold.
func buildValidation(results []fileResult, threshold ir.Severity) ValidationResult {
	report := ValidationResult{
		FailOn: threshold.String(),
		Files:  make([]FileIssues, 0, len(results)),
	}
	for _, r := range results {
		fi := FileIssues{Path: r.Path, Issues: []ir.ValidationIssue{}, Error: toCLIError(r.Err)}
		if r.Err != nil {
			report.Errors++
			report.Files = append(report.Files, fi)
			continue
		}

		fi.Program = r.Program.Name
		fi.Issues = append(fi.Issues, r.Program.ValidationIssues...)
		fi.Counts = ir.CountIssues(fi.Issues)
		fi.Failed = ir.AtOrAbove(fi.Issues, threshold)
		if fi.Failed {
			report.Failed++
		}
		report.Totals.Info += fi.Counts.Info
		report.Totals.Warning += fi.Counts.Warning
		report.Totals.Error += fi.Counts.Error
		report.Files = append(report.Files, fi)
	}
	return report
}

// outputValidation prints the report and maps it to an exit code: command
// errors win over issue failures.
func outputValidation(formatter *OutputFormatter, report ValidationResult) error {
	var cerr *CLIError
	switch {
	case report.Errors > 0:
		cerr = &CLIError{Code: firstFileErrorCode(report.Files), Message: fmt.Sprintf("%d file(s) could not be validated", report.Errors)}
	case report.Failed > 0:
		cerr = &CLIError{Code: ErrCodeIssues, Message: fmt.Sprintf("%d file(s) with issues at or above %s", report.Failed, report.FailOn)}
	}

	if formatter.IsText() {
		writeValidationText(formatter.Writer, report)
	} else if err := formatter.Report(report, cerr); err != nil {
		return err
	}

	switch {
	case report.Errors > 0:
		return NewExitError(ExitCommandError, cerr.Message)
	case report.Failed > 0:
		return NewExitError(ExitFailure, cerr.Message)
	}
	return nil
}

func writeValidationText(w io.Writer, report ValidationResult) {
	for _, f := range report.Files {
		switch {
		case f.Error != nil:
			fmt.Fprintf(w, "✗ %s\n  %s: %s\n", f.Path, f.Error.Code, f.Error.Message)
		case len(f.Issues) == 0:
			fmt.Fprintf(w, "✓ %s: no issues\n", f.Path)
		default:
			mark := "✓"
			if f.Failed {
				mark = "✗"
			}
			fmt.Fprintf(w, "%s %s: %d error(s), %d warning(s), %d info\n", mark, f.Path, f.Counts.Error, f.Counts.Warning, f.Counts.Info)
			for _, issue := range f.Issues {
				fmt.Fprintf(w, "  %s\n", issue)
			}
		}
	}

	fmt.Fprintln(w)
	if report.Valid() {
		fmt.Fprintf(w, "✓ No issues at or above %s\n", report.FailOn)
		return
	}
	if report.Errors > 0 {
		fmt.Fprintf(w, "✗ %d file(s) could not be validated\n", report.Errors)
	}
	if report.Failed > 0 {
		fmt.Fprintf(w, "✗ %d file(s) with issues at or above %s\n", report.Failed, report.FailOn)
	}
}

func firstFileErrorCode(files []FileIssues) string {
	for _, f := range files {
		if f.Error != nil {
			return f.Error.Code
		}
	}
	return ErrCodeGeneric
}
