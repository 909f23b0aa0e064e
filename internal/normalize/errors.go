package normalize

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes normalization errors.
type ErrorKind string

const (
	// KindAstExtraction indicates information could not be pulled from the syntax tree.
	KindAstExtraction ErrorKind = "AST_EXTRACTION"

	// KindValidation indicates a structural check failed hard.
	KindValidation ErrorKind = "VALIDATION"

	// KindInference indicates an inference pass failed.
	KindInference ErrorKind = "INFERENCE"

	// KindMissingInfo indicates required information, such as the program
	// name, could not be derived.
	KindMissingInfo ErrorKind = "MISSING_INFO"

	// KindOther covers everything else.
	KindOther ErrorKind = "OTHER"
)

// Error is a fatal normalization error. Any Error aborts normalization with
// no partial result; non-fatal findings are ir.ValidationIssue values instead.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewMissingInfoError creates an Error of kind MissingInfo.
func NewMissingInfoError(msg string) *Error {
	return &Error{Kind: KindMissingInfo, Message: msg}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Kind == kind
	}
	return false
}

// IsMissingInfo returns true if the error is a MissingInfo error.
// Uses errors.As to handle wrapped errors.
func IsMissingInfo(err error) bool {
	return IsKind(err, KindMissingInfo)
}
