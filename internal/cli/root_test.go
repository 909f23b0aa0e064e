package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "stylusport", cmd.Use)
	assert.Contains(t, cmd.Long, "normalized program model")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"parse", "normalize", "validate", "watch", "history", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestNormalizeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	normalizeCmd, _, err := cmd.Find([]string{"normalize"})
	require.NoError(t, err)

	outputFlag := normalizeCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	jobsFlag := normalizeCmd.Flags().Lookup("jobs")
	require.NotNil(t, jobsFlag)
	assert.Equal(t, "j", jobsFlag.Shorthand)

	for _, name := range []string{"digest", "db", "schema-check"} {
		assert.NotNil(t, normalizeCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	validateCmd, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)

	failOn := validateCmd.Flags().Lookup("fail-on")
	require.NotNil(t, failOn)
	assert.Equal(t, "error", failOn.DefValue)
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	watchCmd, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)

	debounce := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, debounce)
	assert.Equal(t, DefaultDebounce.String(), debounce.DefValue)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	dbFlag := historyCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)

	for _, name := range []string{"source", "program", "limit"} {
		assert.NotNil(t, historyCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", danglingSource)

	_, stderr, err := execute(t, "validate", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.True(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

func TestNewLogger(t *testing.T) {
	t.Run("warn by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := newLogger(buf, false)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

		log.Warn("careful")
		require.NoError(t, log.Sync())
		assert.Contains(t, buf.String(), `"msg":"careful"`)
	})

	t.Run("debug when verbose", func(t *testing.T) {
		log := newLogger(&bytes.Buffer{}, true)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestLoggerFallback(t *testing.T) {
	var opts *RootOptions
	assert.NotNil(t, opts.logger())
	assert.NotNil(t, (&RootOptions{}).logger())
}

func TestVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rs", danglingSource)

	stdout, stderr, err := execute(t, "normalize", dir, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Found 1 Rust file(s)")
	assert.Contains(t, stderr, `"msg":"normalized"`)
	assert.NotContains(t, stdout, "Found 1 Rust file(s)")
}
