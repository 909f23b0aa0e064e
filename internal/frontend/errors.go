package frontend

import (
	"errors"
	"fmt"
)

// SyntaxError reports Rust source that tree-sitter could not parse cleanly.
type SyntaxError struct {
	Path    string
	Line    int // 1-based
	Column  int // 1-based
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// IsSyntaxError checks if an error is a SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
