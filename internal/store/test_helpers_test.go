package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/stylusport/internal/ir"
	"github.com/roach88/stylusport/internal/normalize"
	"github.com/roach88/stylusport/internal/testutil"
)

// createTestStore creates a new store in a temp dir with sequential run ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	ids := testutil.NewSequentialIDs("run")
	s, err := Open(path, WithIDGenerator(ids.Generate))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun normalizes the token fixture and summarizes it.
func createTestRun(t *testing.T, sourcePath string) RunRecord {
	t.Helper()
	p := testutil.TokenProgram()
	p.SourcePath = sourcePath
	np, err := normalize.Normalize(p)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	np.AddIssue(ir.InfoIssue("note", "token_program"))
	rec, err := NewRunRecord(sourcePath, np)
	if err != nil {
		t.Fatalf("NewRunRecord() failed: %v", err)
	}
	return rec
}
