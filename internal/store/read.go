package store

import (
	"context"
	"fmt"
	"strings"
)

const runColumns = `seq, run_id, source_path, program_id, program_name, digest,
	info_count, warning_count, error_count, issues, tool_version`

type rowScanner interface {
	Scan(dest ...any) error
}

// ListRuns returns runs matching f, ordered by seq ascending.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, f RunFilter) ([]RunRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.SourcePath != "" {
		where = append(where, "source_path = ?")
		args = append(args, f.SourcePath)
	}
	if f.ProgramName != "" {
		where = append(where, "program_name = ?")
		args = append(args, f.ProgramName)
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a single run by its run id.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	return scanRun(row)
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec        RunRecord
		issuesJSON string
	)
	err := row.Scan(
		&rec.Seq,
		&rec.RunID,
		&rec.SourcePath,
		&rec.ProgramID,
		&rec.ProgramName,
		&rec.Digest,
		&rec.Counts.Info,
		&rec.Counts.Warning,
		&rec.Counts.Error,
		&issuesJSON,
		&rec.ToolVersion,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	rec.Issues, err = unmarshalIssues(issuesJSON)
	if err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}
