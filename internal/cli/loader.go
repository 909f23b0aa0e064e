package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/stylusport/internal/frontend"
	"github.com/roach88/stylusport/internal/normalize"
	"github.com/roach88/stylusport/internal/schema"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No Rust files found
	ErrCodeConfig      = "E004" // Invalid flag or config value
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeStore       = "E006" // Run history store error
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeSyntax      = "E101" // Rust source does not parse
	ErrCodeNormalize   = "E102" // Normalization failed (missing info, etc.)
	ErrCodeSchema      = "E103" // Normalized output violates the schema
	ErrCodeIssues      = "E104" // Issues at or above --fail-on
	ErrCodeTestFailure = "E105" // Scenario failures
)

// LoadError represents an error that occurred while locating sources.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FindSourceFiles returns the Rust files named by path. A file path is
// returned as is. A directory is walked recursively for .rs files, skipping
// hidden directories and Cargo target directories. Results are sorted.
func FindSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == ".rs" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no Rust files found in %s", path)}
	}
	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return name == "target" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// errorCode maps pipeline errors to CLI error codes.
func errorCode(err error) string {
	var (
		loadErr   *LoadError
		schemaErr *schema.Error
		normErr   *normalize.Error
	)
	switch {
	case errors.As(err, &loadErr):
		return loadErr.Code
	case frontend.IsSyntaxError(err):
		return ErrCodeSyntax
	case errors.As(err, &schemaErr):
		return ErrCodeSchema
	case errors.As(err, &normErr):
		return ErrCodeNormalize
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	default:
		return ErrCodeGeneric
	}
}

// errorMessage strips the code prefix a LoadError carries in Error().
func errorMessage(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Message
	}
	return err.Error()
}

// toCLIError converts err for structured output. Nil stays nil.
func toCLIError(err error) *CLIError {
	if err == nil {
		return nil
	}
	cerr := &CLIError{Code: errorCode(err), Message: errorMessage(err)}
	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		cerr.Details = schemaErr.Messages
	}
	return cerr
}

// loadFailure reports a LoadError through the formatter and returns the
// command error.
func loadFailure(f *OutputFormatter, err error) error {
	code := errorCode(err)
	msg := errorMessage(err)
	_ = f.Error(code, msg, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, msg))
}
