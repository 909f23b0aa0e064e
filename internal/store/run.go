package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/stylusport/internal/ir"
)

// RunRecord is one normalization run of one source file.
// Seq and RunID are assigned by RecordRun.
type RunRecord struct {
	Seq         int64                `json:"seq" yaml:"seq"`
	RunID       string               `json:"run_id" yaml:"run_id"`
	SourcePath  string               `json:"source_path" yaml:"source_path"`
	ProgramID   string               `json:"program_id" yaml:"program_id"`
	ProgramName string               `json:"program_name" yaml:"program_name"`
	Digest      string               `json:"digest" yaml:"digest"`
	Counts      ir.IssueCounts       `json:"counts" yaml:"counts"`
	Issues      []ir.ValidationIssue `json:"issues" yaml:"issues"`
	ToolVersion string               `json:"tool_version" yaml:"tool_version"`
}

// NewRunRecord summarizes np for storage.
func NewRunRecord(sourcePath string, np *ir.NormalizedProgram) (RunRecord, error) {
	digest, err := ir.Digest(np)
	if err != nil {
		return RunRecord{}, fmt.Errorf("new run record: %w", err)
	}
	issues := append([]ir.ValidationIssue{}, np.ValidationIssues...)
	return RunRecord{
		SourcePath:  sourcePath,
		ProgramID:   np.ID,
		ProgramName: np.Name,
		Digest:      digest,
		Counts:      ir.CountIssues(issues),
		Issues:      issues,
		ToolVersion: ir.ToolVersion,
	}, nil
}

// RunFilter narrows ListRuns. Zero fields match everything.
type RunFilter struct {
	SourcePath  string
	ProgramName string
	Limit       int
}

// marshalIssues converts issues to canonical JSON TEXT for storage.
func marshalIssues(issues []ir.ValidationIssue) (string, error) {
	if len(issues) == 0 {
		return "[]", nil
	}
	data, err := ir.MarshalCanonical(issues)
	if err != nil {
		return "", fmt.Errorf("marshal issues: %w", err)
	}
	return string(data), nil
}

func unmarshalIssues(data string) ([]ir.ValidationIssue, error) {
	issues := []ir.ValidationIssue{}
	if data == "" || data == "[]" {
		return issues, nil
	}
	if err := json.Unmarshal([]byte(data), &issues); err != nil {
		return nil, fmt.Errorf("unmarshal issues: %w", err)
	}
	return issues, nil
}
