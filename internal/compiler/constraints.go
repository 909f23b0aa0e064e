package compiler

import (
	"strings"

	"github.com/roach88/stylusport/internal/ir"
)

// ParseConstraints splits the argument text of an account attribute into
// ordered constraints.
//
// Commas split only at nesting depth zero, where (, [ and { open a level.
// Each non-empty trimmed segment becomes one constraint: text before the
// first '=' is the name and the rest is the value, both trimmed. A segment
// with no '=' is a value-less constraint. Values are kept verbatim; a value
// that itself contains '=' is split at the first one.
func ParseConstraints(text string) []ir.Constraint {
	var out []ir.Constraint
	for _, seg := range splitTopLevel(text) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		name, value, hasValue := strings.Cut(seg, "=")
		if !hasValue {
			out = append(out, ir.NewConstraint(seg))
			continue
		}
		out = append(out, ir.NewValuedConstraint(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	return out
}

// splitTopLevel splits text on commas that are not nested in brackets.
func splitTopLevel(text string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}
