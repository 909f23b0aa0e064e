package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string

	// Config is the loaded config file, zero when there is none.
	Config Config

	// Logger is built in PersistentPreRunE. Commands executed without the
	// root command get a no-op logger.
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the stylusport CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stylusport",
		Short: "stylusport - Anchor program frontend",
		Long: `Parse Anchor (Solana) programs into a normalized program model.

Reads Rust sources, classifies program modules, instructions, and account
structs, infers operations and constraints, and reports validation issues.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+DefaultConfigFile+" if present)")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads the config file, applies its format default, validates the
// format flag, and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, path, err := resolveConfig(o.ConfigPath)
	if err != nil {
		return setupFailure(cmd, WrapExitError(ExitCommandError, "load config", err))
	}
	o.Config = cfg
	if cfg.Format != "" && !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}

	if !isValidFormat(o.Format) {
		return setupFailure(cmd, NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats)))
	}

	if o.Logger == nil {
		o.Logger = newLogger(cmd.ErrOrStderr(), o.Verbose)
	}
	if path != "" {
		o.Logger.Debug("loaded config", zap.String("path", path))
	}
	return nil
}

// setupFailure prints err to stderr. No formatter exists yet.
func setupFailure(cmd *cobra.Command, err *ExitError) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return err
}

// logger returns the configured logger or a no-op one.
func (o *RootOptions) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// newLogger builds a production JSON logger on w. Warnings and above are
// logged by default; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(w),
		config.Level,
	)
	return zap.New(core)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// cmdContext returns the command's context, or Background when the command
// was executed without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
