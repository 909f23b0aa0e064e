package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/roach88/stylusport/internal/ir"
	"github.com/roach88/stylusport/internal/store"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Output      string // write programs to this file
	Digest      bool   // include canonical digests
	DB          string // record runs in this store
	SchemaCheck bool   // check every program against the output schema
	Jobs        int    // parallel workers for directory inputs
}

// NormalizeOutput is one file's entry in normalize output.
type NormalizeOutput struct {
	Path    string                `json:"path" yaml:"path"`
	Digest  string                `json:"digest,omitempty" yaml:"digest,omitempty"`
	RunID   string                `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Program *ir.NormalizedProgram `json:"program,omitempty" yaml:"program,omitempty"`
	Error   *CLIError             `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <path>",
		Short: "Normalize Anchor programs",
		Long: `Normalize one Rust source file or every .rs file under a directory.

Directory inputs are processed in parallel; output is always in sorted
path order. Each program is linked, inferred, and validated; validation
issues are part of the output.

Exit codes:
  0 - All files normalized
  2 - Command error (invalid path, syntax error, store error, etc.)

Examples:
  stylusport normalize programs/token/src/lib.rs
  stylusport normalize programs/ --jobs 4 --digest
  stylusport normalize programs/ --db runs.db --format json
  stylusport normalize lib.rs -o normalized.json --schema-check`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd)
			return runNormalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write normalized programs to file (.json, .yaml, .yml)")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "include canonical digests")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record runs in this SQLite database")
	cmd.Flags().BoolVar(&opts.SchemaCheck, "schema-check", false, "check output against the normalized schema")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "parallel workers (default GOMAXPROCS)")

	return cmd
}

// applyConfig fills flags the user did not set from the config file.
func (o *NormalizeOptions) applyConfig(cmd *cobra.Command) {
	cfg := o.Config
	if !cmd.Flags().Changed("db") && cfg.DB != "" {
		o.DB = cfg.DB
	}
	if !cmd.Flags().Changed("jobs") && cfg.Jobs > 0 {
		o.Jobs = cfg.Jobs
	}
	if !cmd.Flags().Changed("schema-check") && cfg.SchemaCheck {
		o.SchemaCheck = true
	}
}

func runNormalize(opts *NormalizeOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()
	ctx := cmdContext(cmd)

	if opts.Jobs < 0 {
		return loadFailure(formatter, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("--jobs must be non-negative, got %d", opts.Jobs)})
	}

	files, err := FindSourceFiles(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Found %d Rust file(s) in %s", len(files), path)

	results, err := processFiles(ctx, files, pipelineOptions{
		Jobs:        opts.Jobs,
		SchemaCheck: opts.SchemaCheck,
		Logger:      log,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "normalize cancelled", err)
	}

	outputs := make([]NormalizeOutput, len(results))
	for i, r := range results {
		outputs[i] = NormalizeOutput{Path: r.Path, Program: r.Program, Error: toCLIError(r.Err)}
		if opts.Digest && r.Err == nil {
			outputs[i].Digest = r.Digest
		}
	}

	if opts.DB != "" {
		if err := recordRuns(ctx, opts.DB, results, outputs, log); err != nil {
			return loadFailure(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
		}
	}

	if opts.Output != "" {
		if err := writePrograms(opts.Output, results, len(files) == 1 && !isDir(path)); err != nil {
			return loadFailure(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
		}
	}

	nFailed := failed(results)
	var summary *CLIError
	if nFailed > 0 {
		summary = &CLIError{Code: firstErrorCode(outputs), Message: fmt.Sprintf("%d of %d file(s) failed", nFailed, len(results))}
	}

	if formatter.IsText() {
		for _, out := range outputs {
			writeNormalizeText(formatter.Writer, out)
		}
		if opts.Output != "" {
			fmt.Fprintf(formatter.Writer, "Wrote normalized output to %s\n", opts.Output)
		}
	} else if err := formatter.Report(outputs, summary); err != nil {
		return err
	}

	if summary != nil {
		if formatter.IsText() {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", summary.Message)
		}
		return NewExitError(ExitCommandError, summary.Message)
	}
	return nil
}

// recordRuns stores one run per successful result and fills RunID on the
// matching outputs.
func recordRuns(ctx context.Context, dbPath string, results []fileResult, outputs []NormalizeOutput, log *zap.Logger) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	for i, r := range results {
		if r.Err != nil {
			continue
		}
		rec, err := store.NewRunRecord(r.Path, r.Program)
		if err != nil {
			return err
		}
		rec, err = st.RecordRun(ctx, rec)
		if err != nil {
			return err
		}
		outputs[i].RunID = rec.RunID
		log.Debug("recorded run", zap.String("run_id", rec.RunID), zap.Int64("seq", rec.Seq), zap.String("path", r.Path))
	}
	return nil
}

// writePrograms writes the normalized programs to path. A single file input
// writes one program; otherwise an array in path order. The encoding
// follows the extension: .yaml and .yml write YAML, anything else JSON.
func writePrograms(path string, results []fileResult, single bool) error {
	programs := make([]*ir.NormalizedProgram, 0, len(results))
	for _, r := range results {
		if r.Program != nil {
			programs = append(programs, r.Program)
		}
	}

	var v any = programs
	if single && len(programs) == 1 {
		v = programs[0]
	}

	var (
		data []byte
		err  error
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func writeNormalizeText(w io.Writer, out NormalizeOutput) {
	if out.Error != nil {
		fmt.Fprintf(w, "✗ %s\n  %s: %s\n", out.Path, out.Error.Code, out.Error.Message)
		if msgs, ok := out.Error.Details.([]string); ok {
			for _, m := range msgs {
				fmt.Fprintf(w, "    %s\n", m)
			}
		}
		return
	}

	np := out.Program
	instructions := 0
	for _, m := range np.Modules {
		instructions += len(m.Instructions)
	}
	counts := ir.CountIssues(np.ValidationIssues)

	fmt.Fprintf(w, "✓ %s → %s (%s)\n", out.Path, np.Name, np.ID)
	fmt.Fprintf(w, "  %d module(s), %d instruction(s), %d account struct(s), %d raw account(s)\n",
		len(np.Modules), instructions, len(np.AccountStructs), len(np.RawAccounts))
	for _, m := range np.Modules {
		for _, in := range m.Instructions {
			fmt.Fprintf(w, "  %s: %s\n", in.Name, describeBody(in.Body))
		}
	}
	fmt.Fprintf(w, "  issues: %d error(s), %d warning(s), %d info\n", counts.Error, counts.Warning, counts.Info)
	for _, issue := range np.ValidationIssues {
		fmt.Fprintf(w, "    %s\n", issue)
	}
	if out.Digest != "" {
		fmt.Fprintf(w, "  digest: %s\n", out.Digest)
	}
	if out.RunID != "" {
		fmt.Fprintf(w, "  run: %s\n", out.RunID)
	}
}

func describeBody(b ir.InstructionBody) string {
	if b.IsUnknown() {
		return "unknown"
	}
	s := ""
	for i, op := range b.Operations {
		if i > 0 {
			s += ", "
		}
		v := ir.ViewOf(op)
		switch v.Kind {
		case ir.OpLog:
			s += fmt.Sprintf("log %q", v.Message)
		case ir.OpInitialize:
			s += fmt.Sprintf("initialize %s (payer %s)", v.Target, v.Payer)
		case ir.OpTransfer:
			s += fmt.Sprintf("transfer %s → %s", v.From, v.To)
		case ir.OpClose:
			s += fmt.Sprintf("close %s (refund %s)", v.Target, v.RefundTo)
		}
	}
	return s
}

func firstErrorCode(outputs []NormalizeOutput) string {
	for _, out := range outputs {
		if out.Error != nil {
			return out.Error.Code
		}
	}
	return ErrCodeGeneric
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
