package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stylusport/internal/ir"
	"github.com/roach88/stylusport/internal/testutil"
)

func TestValidateFailOnThresholds(t *testing.T) {
	dir := t.TempDir()
	dangling := writeFile(t, dir, "dangling.rs", danglingSource)
	duplicate := writeFile(t, dir, "dup.rs", duplicateSource)

	tests := []struct {
		name     string
		path     string
		failOn   string
		wantCode int
	}{
		{"warning below error", dangling, "error", ExitSuccess},
		{"warning at warning", dangling, "warning", ExitFailure},
		{"info at info", dangling, "info", ExitFailure},
		{"error at error", duplicate, "error", ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "validate", tt.path, "--fail-on", tt.failOn)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
		})
	}
}

func TestValidateText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dangling.rs", danglingSource)

	stdout, _, err := execute(t, "validate", path, "--fail-on", "warning")
	require.Error(t, err)

	assert.Contains(t, stdout, "✗ "+path+": 0 error(s), 1 warning(s), 1 info")
	assert.Contains(t, stdout, "warning: Instruction run references undefined account struct Missing [run]")
	assert.Contains(t, stdout, "info: Instruction hidden has non-public visibility:")
	assert.Contains(t, stdout, "1 file(s) with issues at or above warning")
}

func TestValidateCleanText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "token.rs", testutil.TokenProgramSource)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ "+path+": no issues")
	assert.Contains(t, stdout, "✓ No issues at or above error")
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rs", danglingSource)
	writeFile(t, dir, "b.rs", duplicateSource)

	stdout, _, err := execute(t, "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeIssues, resp.Error.Code)

	report := resp.Data
	assert.Equal(t, "error", report.FailOn)
	require.Len(t, report.Files, 2)
	assert.False(t, report.Files[0].Failed)
	assert.True(t, report.Files[1].Failed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, ir.IssueCounts{Info: 1, Warning: 1, Error: 1}, report.Totals)
}

func TestValidateSyntaxErrorIsCommandError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rs", testutil.InvalidSource)
	writeFile(t, dir, "b.rs", duplicateSource)

	// Command errors win over issue failures.
	_, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateInvalidFailOn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.rs", danglingSource)

	stdout, _, err := execute(t, "validate", path, "--fail-on", "fatal")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E004]")
}

func TestBuildValidation(t *testing.T) {
	np := ir.NewNormalizedProgram("program:x", "x")
	np.AddIssue(ir.InfoIssue("note", "a"))
	np.AddIssue(ir.WarningIssue("careful", "b"))

	results := []fileResult{{Path: "x.rs", Program: np}}

	report := buildValidation(results, ir.SeverityWarning)
	assert.Equal(t, "warning", report.FailOn)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.Valid())

	report = buildValidation(results, ir.SeverityError)
	assert.True(t, report.Valid())
	assert.Equal(t, ir.IssueCounts{Info: 1, Warning: 1}, report.Totals)
}
