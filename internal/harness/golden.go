package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"

	"github.com/roach88/stylusport/internal/ir"
)

// Snapshot returns the canonical JSON of the result's normalized program.
func Snapshot(result *Result) ([]byte, error) {
	if result.Program == nil {
		return nil, fmt.Errorf("scenario %s: no program to snapshot", result.Scenario)
	}
	return ir.MarshalCanonical(result.Program)
}

// RunWithGolden executes a scenario and compares the normalized program
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario could not run or produced no program.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		t.Errorf("scenario %s failed:\n%s", scenario.Name, formatErrors(result.Errors))
	}

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}

// GoldenMismatch reports a snapshot that differs from its golden file.
type GoldenMismatch struct {
	Path string
	Diff string
}

func (e *GoldenMismatch) Error() string {
	return fmt.Sprintf("golden mismatch %s (-want +got):\n%s", e.Path, e.Diff)
}

// GoldenPath is where CompareGolden keeps the snapshot for a scenario.
func GoldenPath(dir, scenario string) string {
	return filepath.Join(dir, scenario+".golden")
}

// CompareGolden compares got with the golden file at path. With update
// set, the file is (re)written instead and nil is returned. A missing
// golden file without update is an error.
func CompareGolden(path string, got []byte, update bool) error {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return fmt.Errorf("write golden: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("golden file %s not found (rerun with --update)", path)
	}
	if err != nil {
		return fmt.Errorf("read golden: %w", err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		return &GoldenMismatch{Path: path, Diff: diff}
	}
	return nil
}

func formatErrors(errs []string) string {
	return "  - " + strings.Join(errs, "\n  - ")
}
