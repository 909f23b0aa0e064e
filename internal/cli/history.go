package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stylusport/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB      string
	Source  string
	Program string
	Limit   int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded normalization runs",
		Long: `List runs recorded by "normalize --db", oldest first.

Examples:
  stylusport history --db runs.db
  stylusport history --db runs.db --source programs/token/src/lib.rs
  stylusport history --db runs.db --program token_program --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") && opts.Config.DB != "" {
				opts.DB = opts.Config.DB
			}
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only runs of this source path")
	cmd.Flags().StringVar(&opts.Program, "program", "", "only runs of this program name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.DB == "" {
		return loadFailure(formatter, &LoadError{Code: ErrCodeConfig, Message: "--db is required (or set db in the config file)"})
	}
	if !fileExists(opts.DB) {
		return loadFailure(formatter, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", opts.DB)})
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return loadFailure(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer st.Close()

	runs, err := st.ListRuns(cmdContext(cmd), store.RunFilter{
		SourcePath:  opts.Source,
		ProgramName: opts.Program,
		Limit:       opts.Limit,
	})
	if err != nil {
		return loadFailure(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if formatter.IsText() {
		writeHistoryText(formatter.Writer, runs)
		return nil
	}
	return formatter.Success(runs)
}

func writeHistoryText(w io.Writer, runs []store.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-5s %-36s %-20s %-12s %-7s %s\n", "SEQ", "RUN", "PROGRAM", "DIGEST", "E/W/I", "SOURCE")
	for _, r := range runs {
		digest := r.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		counts := fmt.Sprintf("%d/%d/%d", r.Counts.Error, r.Counts.Warning, r.Counts.Info)
		fmt.Fprintf(w, "%-5d %-36s %-20s %-12s %-7s %s\n", r.Seq, r.RunID, r.ProgramName, digest, counts, r.SourcePath)
	}
}
