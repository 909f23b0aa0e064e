package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/stylusport/internal/compiler"
	"github.com/roach88/stylusport/internal/ir"
)

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the base program model of one source file",
		Long: `Parse a Rust source file and print the base program model: program
modules, instructions, account structs, and raw accounts, before any
linking, inference, or validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runParse(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	files, err := FindSourceFiles(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	if len(files) != 1 {
		return loadFailure(formatter, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("parse takes a single file, %s has %d", path, len(files))})
	}

	p, err := compiler.CompileFile(cmdContext(cmd), files[0])
	if err != nil {
		code := errorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	if formatter.IsText() {
		writeProgramText(formatter.Writer, p)
		return nil
	}
	return formatter.Success(p)
}

func writeProgramText(w io.Writer, p *ir.Program) {
	fmt.Fprintf(w, "%s\n", p.SourcePath)
	for _, m := range p.Modules {
		fmt.Fprintf(w, "  program module %s (%d instruction(s))\n", m.Name, len(m.Instructions))
		for _, in := range m.Instructions {
			ctx := in.ContextType
			if ctx == "" {
				ctx = "-"
			}
			fmt.Fprintf(w, "    %s %s(%d param(s)) context=%s\n", visibilityOr(in.Visibility), in.Name, len(in.Parameters), ctx)
		}
	}
	for _, s := range p.AccountStructs {
		fmt.Fprintf(w, "  account struct %s (%d field(s))\n", s.Name, len(s.Fields))
		for _, f := range s.Fields {
			fmt.Fprintf(w, "    %s: %s%s\n", f.Name, f.Type, describeConstraints(f.Constraints))
		}
	}
	for _, r := range p.RawAccounts {
		fmt.Fprintf(w, "  raw account %s (%d field(s))\n", r.Name, len(r.Fields))
	}
}

func visibilityOr(v string) string {
	if v == "" {
		return "private"
	}
	return v
}

func describeConstraints(cs []ir.Constraint) string {
	if len(cs) == 0 {
		return ""
	}
	out := " ["
	for i, c := range cs {
		if i > 0 {
			out += ", "
		}
		out += c.Type
		if c.Value != nil {
			out += " = " + *c.Value
		}
		if c.IsInferred {
			out += " (inferred)"
		}
	}
	return out + "]"
}
