package store

import (
	"context"
	"fmt"
)

// RecordRun appends rec to the log and returns it with Seq and RunID filled
// in. A caller-supplied RunID is kept; an empty one is generated.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (RunRecord, error) {
	if rec.RunID == "" {
		rec.RunID = s.newID()
	}

	issuesJSON, err := marshalIssues(rec.Issues)
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, source_path, program_id, program_name, digest,
		 info_count, warning_count, error_count, issues, tool_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.SourcePath,
		rec.ProgramID,
		rec.ProgramName,
		rec.Digest,
		rec.Counts.Info,
		rec.Counts.Warning,
		rec.Counts.Error,
		issuesJSON,
		rec.ToolVersion,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: seq: %w", err)
	}
	rec.Seq = seq
	return rec, nil
}
