package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stylusport/internal/compiler"
	"github.com/roach88/stylusport/internal/normalize"
	"github.com/roach88/stylusport/internal/schema"
	"github.com/roach88/stylusport/internal/testutil"
)

func TestFindSourceFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "not rust")

	// An explicit file is returned as is, whatever its extension.
	files, err := FindSourceFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindSourceFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "programs/b/src/lib.rs", testutil.HelloWorldSource)
	writeFile(t, dir, "programs/a/src/lib.rs", testutil.HelloWorldSource)
	writeFile(t, dir, "programs/a/src/README.md", "docs")
	writeFile(t, dir, "target/debug/build.rs", testutil.HelloWorldSource)
	writeFile(t, dir, ".git/hooks/x.rs", testutil.HelloWorldSource)

	files, err := FindSourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "programs/a/src/lib.rs"),
		filepath.Join(dir, "programs/b/src/lib.rs"),
	}, files)
}

func TestFindSourceFilesErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := FindSourceFiles("/nonexistent/program.rs")
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, ErrCodeNotFound, loadErr.Code)
		assert.Contains(t, loadErr.Message, "path not found")
	})

	t.Run("no rust files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "Cargo.toml", "[package]\n")
		_, err := FindSourceFiles(dir)
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
	})
}

func TestSkipDir(t *testing.T) {
	assert.True(t, skipDir("target"))
	assert.True(t, skipDir(".git"))
	assert.True(t, skipDir(".anchor"))
	assert.False(t, skipDir("."))
	assert.False(t, skipDir(".."))
	assert.False(t, skipDir("programs"))
}

func TestErrorCode(t *testing.T) {
	_, syntaxErr := compiler.CompileSource(context.Background(), "broken.rs", []byte(testutil.InvalidSource))
	require.Error(t, syntaxErr)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"load error", &LoadError{Code: ErrCodeNoFiles, Message: "none"}, ErrCodeNoFiles},
		{"syntax", syntaxErr, ErrCodeSyntax},
		{"schema", &schema.Error{Program: "p", Messages: []string{"bad"}}, ErrCodeSchema},
		{"normalize", normalize.NewMissingInfoError("no name"), ErrCodeNormalize},
		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ErrCodeNotFound},
		{"other", errors.New("boom"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}

func TestToCLIError(t *testing.T) {
	assert.Nil(t, toCLIError(nil))

	cerr := toCLIError(&LoadError{Code: ErrCodeNotFound, Message: "path not found: x"})
	assert.Equal(t, &CLIError{Code: ErrCodeNotFound, Message: "path not found: x"}, cerr)

	cerr = toCLIError(&schema.Error{Program: "p", Messages: []string{"a", "b"}})
	assert.Equal(t, ErrCodeSchema, cerr.Code)
	assert.Equal(t, []string{"a", "b"}, cerr.Details)
}
